package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpetrenko/docsort/internal/catalog"
)

// categoriesCmd groups catalog management commands
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage the category catalog",
}

var categoriesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a category catalog file",
	Long: `Validate loads the catalog exactly as a run would: names must be
unique and non-empty, rule weights positive, regex patterns must
compile, and centroid embeddings (when present) must cover every
category with one dimensionality.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("✓ Catalog is valid: %d categories (fingerprint %s)\n", len(cat.Categories), cat.Fingerprint)
		for _, c := range cat.Categories {
			marker := ""
			if c.HasCentroid() {
				marker = fmt.Sprintf(" [centroid dim=%d]", len(c.Centroid))
			}
			fmt.Printf("  %-40s %d rules%s\n", c.Name, len(c.Rules), marker)
		}
		return nil
	},
}

var categoriesInitCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Write a starter category catalog",
	Long: `Init writes a documented starter catalog with CTD-style document
categories (cover letters, product information, stability, toxicology,
clinical study reports, ...). Edit the category names and rules to fit
your corpus.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if err := catalog.WriteDefault(path); err != nil {
			return err
		}

		fmt.Printf("✓ Wrote starter catalog: %s\n", path)
		fmt.Printf("\nValidate it with:\n  docsort categories validate %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesValidateCmd)
	categoriesCmd.AddCommand(categoriesInitCmd)
}
