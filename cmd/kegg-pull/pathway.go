package main

import (
	"os"

	"github.com/biocompute/kegg-pull/pkg/entryids"
	"github.com/biocompute/kegg-pull/pkg/pathway"
	"github.com/spf13/cobra"
)

func newPathwayOrganizerCmd() *cobra.Command {
	var flags restFlags
	var topLevelNodes, filterNodes string

	cmd := &cobra.Command{
		Use:   "pathway-organizer",
		Short: "Flatten the pathways Brite hierarchy into a JSON mapping of node keys to node info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}

			organizer := pathway.NewOrganizer(client)
			nodes, err := organizer.LoadFromKEGG(
				cmd.Context(), entryids.FromString(topLevelNodes), entryids.FromString(filterNodes))
			if err != nil {
				return err
			}

			if flags.output != "" {
				return nodes.Save(flags.output)
			}
			data, err := nodes.ToJSON()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&topLevelNodes, "top-level-nodes", "", "comma-separated names of top level nodes to select (all when empty)")
	cmd.Flags().StringVar(&filterNodes, "filter-nodes", "", "comma-separated names of nodes to exclude along with their children")

	return cmd
}
