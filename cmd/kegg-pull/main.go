// Command kegg-pull pulls KEGG entries in bulk through the KEGG REST
// API and exposes the individual API operations for scripting.
package main

import (
	"os"

	"github.com/biocompute/kegg-pull/pkg/logging"
	"github.com/spf13/cobra"
)

func main() {
	var logLevel string
	var pretty bool

	root := &cobra.Command{
		Use:           "kegg-pull",
		Short:         "Batch pull client for the KEGG REST API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Config{
				Level:  logging.LogLevel(logLevel),
				Pretty: pretty,
			})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&pretty, "pretty", false, "human-readable console logs instead of JSON")

	root.AddCommand(newPullCmd(), newRestCmd(), newEntryIDsCmd(), newMapCmd(), newPathwayOrganizerCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
