package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the ESG metric catalog",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the configured catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, reg, err := initEngine()
		if err != nil {
			return err
		}
		zap.L().Info("catalog: valid", zap.Int("metrics", reg.Len()))
		fmt.Printf("catalog valid: %d metrics\n", reg.Len())
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, reg, err := initEngine()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORY\tKIND\tPATTERNS\tDISPLAY NAME")
		for _, d := range reg.Defs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				d.ID, d.Category, d.ExpectedKind, len(d.Patterns), d.DisplayName)
		}
		return w.Flush()
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogListCmd)
	rootCmd.AddCommand(catalogCmd)
}
