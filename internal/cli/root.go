package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "xmlbind",
	Short: "Bidirectional XML data binding toolkit",
	Long: `xmlbind binds XML documents to registered Go structs and back, keeping
element order, comments, and namespace prefixes stable across the round trip.

The gen command derives struct types and registrations from XSD schemas, fmt
reformats documents, and json converts a document into its dynamic JSON form.`,
	SilenceUsage:      true,
	PersistentPreRunE: configureLogging,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text or json)")
}

func configureLogging(cmd *cobra.Command, _ []string) error {
	log.SetOutput(os.Stderr)

	name, _ := cmd.Flags().GetString("log-level")
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	switch format, _ := cmd.Flags().GetString("log-format"); format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}
