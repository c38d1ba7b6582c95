package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docuverify/fieldcheck/internal/schema"
)

var validateSchemaCmd = &cobra.Command{
	Use:   "validate-schema <schema.yaml>...",
	Short: "Fail-fast check document-class evaluation schemas",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			c, err := schema.Load(path)
			if err != nil {
				return err
			}
			fields := 0
			for _, s := range c.Sections {
				fields += len(s.Fields)
			}
			fmt.Printf("%s: class %q, %d section(s), %d top-level field(s)\n",
				path, c.Name, len(c.Sections), fields)
		}
		return nil
	},
}
