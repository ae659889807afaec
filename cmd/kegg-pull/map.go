package main

import (
	"os"

	"github.com/biocompute/kegg-pull/pkg/mapping"
	"github.com/spf13/cobra"
)

func newMapCmd() *cobra.Command {
	var flags restFlags
	var deduplicate, addGlycans, addDrugs bool

	writeMapping := func(m mapping.Mapping) error {
		if flags.output != "" {
			return m.Save(flags.output)
		}
		data, err := m.ToJSON()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	linkOptions := func() mapping.LinkOptions {
		return mapping.LinkOptions{
			Deduplicate: deduplicate,
			AddGlycans:  addGlycans,
			AddDrugs:    addDrugs,
		}
	}

	mapCmd := &cobra.Command{
		Use:   "map <source-database> [intermediate-database] <target-database>",
		Short: "Map entry IDs of one database to cross-referenced IDs of another",
		Long: "Maps the entry IDs of a source database to the IDs of cross-referenced entries " +
			"in a target database, as a JSON object of ID lists keyed by entry ID. " +
			"With three databases the mapping goes through the intermediate: source-to-intermediate " +
			"cross-references joined with intermediate-to-target ones.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}
			mapper := mapping.NewMapper(client)

			var m mapping.Mapping
			if len(args) == 3 {
				m, err = mapper.IndirectLink(cmd.Context(), args[0], args[1], args[2], linkOptions())
			} else {
				m, err = mapper.DatabaseLink(cmd.Context(), args[0], args[1], linkOptions())
			}
			if err != nil {
				return err
			}
			return writeMapping(m)
		},
	}
	flags.register(mapCmd)
	mapCmd.PersistentFlags().BoolVar(&deduplicate, "deduplicate", false, "drop pathway IDs without the path:map prefix; they duplicate the canonical entries")
	mapCmd.PersistentFlags().BoolVar(&addGlycans, "add-glycans", false, "add the compound IDs of equivalent glycan entries")
	mapCmd.PersistentFlags().BoolVar(&addDrugs, "add-drugs", false, "add the compound IDs of equivalent drug entries")

	var reverse bool
	entryIDs := &cobra.Command{
		Use:   "entry-ids <entry-ids> <target-database>",
		Short: "Map a comma-separated ID list (or stdin when \"-\") to a target database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := readEntryIDs(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			client, err := flags.client()
			if err != nil {
				return err
			}
			m, err := mapping.NewMapper(client).EntriesLink(cmd.Context(), ids, args[1], reverse)
			if err != nil {
				return err
			}
			return writeMapping(m)
		},
	}
	entryIDs.Flags().BoolVar(&reverse, "reverse", false, "reverse the mapping, turning targets into keys and sources into values")

	var convReverse bool
	conv := &cobra.Command{
		Use:   "conv <kegg-database> <outside-database>",
		Short: "Map KEGG entry IDs to their equivalents in an outside database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}
			m, err := mapping.NewMapper(client).DatabaseConv(cmd.Context(), args[0], args[1], convReverse)
			if err != nil {
				return err
			}
			return writeMapping(m)
		},
	}
	conv.Flags().BoolVar(&convReverse, "reverse", false, "reverse the mapping, turning targets into keys and sources into values")

	mapCmd.AddCommand(entryIDs, conv)
	return mapCmd
}
