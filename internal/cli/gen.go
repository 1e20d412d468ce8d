package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/jacoelho/xmlbind/xsdgen"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] <schema.xsd>...",
	Short: "Generate binding registrations from XSD schemas",
	Long: `Gen parses XML Schema files and writes one Go source file per schema:
typed structs, enumeration constants, and init-time Register calls.

Includes and imports resolve against each schema's directory. Flags override
the configuration file.

Examples:
  xmlbind gen -c xmlbind.yaml order.xsd
  xmlbind gen -p invoices -o ./internal/invoices invoice.xsd credit.xsd`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGen,
}

func init() {
	genCmd.Flags().StringP("config", "c", "", "YAML configuration file")
	genCmd.Flags().StringP("output", "o", "", "Output directory (overrides config)")
	genCmd.Flags().StringP("package", "p", "", "Generated package name (overrides config)")
	genCmd.Flags().Bool("debug", false, "Dump the flattened schema model instead of generating")
	rootCmd.AddCommand(genCmd)
}

func runGen(cmd *cobra.Command, args []string) error {
	var cfg xsdgen.Config
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := xsdgen.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.Output = out
	}
	if pkg, _ := cmd.Flags().GetString("package"); pkg != "" {
		cfg.Package = pkg
	}
	cfg.Logger = log

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		for _, schema := range args {
			model, err := xsdgen.DebugModel(cfg, schema)
			if err != nil {
				return err
			}
			spew.Fdump(cmd.OutOrStdout(), model)
		}
		return nil
	}

	written, err := xsdgen.Generate(cfg, args...)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
