package main

import (
	"os"
	"strings"

	"github.com/biocompute/kegg-pull/pkg/entryids"
	"github.com/spf13/cobra"
)

func newEntryIDsCmd() *cobra.Command {
	var flags restFlags

	entryIDsCmd := &cobra.Command{
		Use:   "entry-ids",
		Short: "Discover KEGG entry IDs without pulling the entries",
	}
	flags.register(entryIDsCmd)

	writeIDs := func(ids []string) error {
		body := strings.Join(ids, "\n") + "\n"
		if flags.output == "" {
			_, err := os.Stdout.WriteString(body)
			return err
		}
		return os.WriteFile(flags.output, []byte(body), 0o644)
	}

	fromDatabase := &cobra.Command{
		Use:   "from-database <database-name>",
		Short: "List every entry ID of a KEGG database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}
			ids, err := entryids.NewGetter(client).FromDatabase(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeIDs(ids)
		},
	}

	fromFile := &cobra.Command{
		Use:   "from-file <file-path>",
		Short: "Read entry IDs from a file, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := entryids.FromFile(args[0])
			if err != nil {
				return err
			}
			return writeIDs(ids)
		},
	}

	fromKeywords := &cobra.Command{
		Use:   "from-keywords <database-name> <keywords>",
		Short: "Search a database by comma-separated keywords",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}
			ids, err := entryids.NewGetter(client).FromKeywords(cmd.Context(), args[0], entryids.FromString(args[1]))
			if err != nil {
				return err
			}
			return writeIDs(ids)
		},
	}

	var formula string
	var exactMass, molecularWeight []float64
	fromMolecular := &cobra.Command{
		Use:   "from-molecular-attribute <database-name>",
		Short: "Search a database by chemical formula, exact mass, or molecular weight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}
			ids, err := entryids.NewGetter(client).FromMolecularAttribute(
				cmd.Context(), args[0], formula, exactMass, molecularWeight)
			if err != nil {
				return err
			}
			return writeIDs(ids)
		},
	}
	fromMolecular.Flags().StringVar(&formula, "formula", "", "chemical formula to search for")
	fromMolecular.Flags().Float64SliceVar(&exactMass, "exact-mass", nil, "exact mass to search for; twice for a range")
	fromMolecular.Flags().Float64SliceVar(&molecularWeight, "molecular-weight", nil, "molecular weight to search for; twice for a range")

	entryIDsCmd.AddCommand(fromDatabase, fromFile, fromKeywords, fromMolecular)
	return entryIDsCmd
}
