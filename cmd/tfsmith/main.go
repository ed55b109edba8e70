// Command tfsmith compiles a Terraform provider's machine-readable schema
// into ready-to-use module files. The typed inputs, resource body, and
// outputs are synthesized by a text-generation backend under strict literal
// instructions; the version pin is emitted deterministically.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tfsmith/internal/config"
	"tfsmith/internal/docs"
	"tfsmith/internal/llm"
	"tfsmith/internal/logging"
	"tfsmith/internal/pipeline"
	"tfsmith/internal/schema"
	"tfsmith/internal/writer"
)

var (
	// Global flags
	cfgPath string
	verbose bool

	// Provider identity flags; override the config file when set
	providerSupplier string
	providerName     string
	providerVersion  string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tfsmith",
	Short: "tfsmith - schema-accurate Terraform module generator",
	Long: `tfsmith turns a Terraform provider's exported schema into consistent,
ready-to-use modules: variables.tf, main.tf, outputs.tf, and a version pin,
one module directory per resource type.

The inputs, resource body, and outputs are synthesized by a text-generation
backend driven by strict, literal instructions; structural and naming
consistency across the three artifacts is validated before anything is
published.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(verbose); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if providerSupplier != "" {
			cfg.Provider.Supplier = providerSupplier
		}
		if providerName != "" {
			cfg.Provider.Name = providerName
		}
		if providerVersion != "" {
			cfg.Provider.Version = providerVersion
		}
		return cfg.Provider.Validate()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

var exportSchemaCmd = &cobra.Command{
	Use:   "export-schema",
	Short: "Export the provider schema document via the terraform CLI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := filepath.Join(cfg.Output.SchemasDir,
			schema.SchemaFileName(cfg.Provider.Name, cfg.Provider.Version))
		exporter := schema.NewExporter()
		if err := exporter.Export(cmd.Context(),
			cfg.Provider.Supplier, cfg.Provider.Name, cfg.Provider.Version, out); err != nil {
			fmt.Printf("❌ Schema export failed: %v\n", err)
			return err
		}
		fmt.Printf("✅ Schema export completed: %s\n", out)
		return nil
	},
}

var (
	schemaPath string
	noDocs     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <resource_type> [<resource_type>...]",
	Short: "Generate module directories for one or more resource types",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := schemaPath
		if path == "" {
			path = filepath.Join(cfg.Output.SchemasDir,
				schema.SchemaFileName(cfg.Provider.Name, cfg.Provider.Version))
		}
		doc, err := schema.LoadDocument(path)
		if err != nil {
			return err
		}

		client, err := llm.NewClient(cfg.LLM)
		if err != nil {
			return err
		}

		var fetcher pipeline.DocFetcher
		if !noDocs {
			fetcher = docs.NewFetcher()
		}

		p := pipeline.New(doc, cfg.Provider, client,
			fetcher, writer.New(cfg.Output.ModulesDir))

		results := p.RunAll(cmd.Context(), args, cfg.Concurrency)
		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
				fmt.Printf("❌ %s: %v\n", res.ResourceType, res.Err)
				continue
			}
			fmt.Printf("✅ %s: %s\n", res.ResourceType, res.Dir)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d resource types failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "tfsmith.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&providerSupplier, "supplier", "", "Provider registry namespace (e.g. hashicorp)")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "", "Provider name (e.g. azurerm)")
	rootCmd.PersistentFlags().StringVar(&providerVersion, "provider-version", "", "Provider version (e.g. 4.8.0)")

	generateCmd.Flags().StringVar(&schemaPath, "schema", "", "Path to an exported schema document (default: derived from config)")
	generateCmd.Flags().BoolVar(&noDocs, "no-docs", false, "Skip fetching reference documentation")

	rootCmd.AddCommand(exportSchemaCmd)
	rootCmd.AddCommand(generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
