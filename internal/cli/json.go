package cli

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jacoelho/xmlbind"
)

var jsonCmd = &cobra.Command{
	Use:   "json <doc.xml>...",
	Short: "Convert XML documents to JSON",
	Long: `Json parses each document into its dynamic element form and prints it
as indented JSON. No type registrations are required.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runJSON,
}

func init() {
	rootCmd.AddCommand(jsonCmd)
}

func runJSON(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		value, err := xmlbind.ParseValue(data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		out, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	}
	return nil
}
