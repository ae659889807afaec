package main

import (
	"fmt"
	"os"
	"time"

	"github.com/biocompute/kegg-pull/pkg/entryids"
	"github.com/biocompute/kegg-pull/pkg/rest"
	"github.com/biocompute/kegg-pull/pkg/resturl"
	"github.com/spf13/cobra"
)

// restFlags holds the request tuning shared by the rest subcommands.
type restFlags struct {
	output    string
	nTries    int
	timeOut   int
	sleepTime float64
}

func (f *restFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.output, "output", "", "file to store the response body (prints to stdout when empty)")
	cmd.PersistentFlags().IntVar(&f.nTries, "n-tries", 3, "attempts per request before classifying it timed out")
	cmd.PersistentFlags().IntVar(&f.timeOut, "time-out", 60, "seconds to wait per request attempt")
	cmd.PersistentFlags().Float64Var(&f.sleepTime, "sleep-time", 5.0, "seconds to sleep after a timed-out attempt")
}

func (f *restFlags) client() (*rest.Client, error) {
	return rest.New(rest.Config{
		NTries:    f.nTries,
		Timeout:   time.Duration(f.timeOut) * time.Second,
		SleepTime: time.Duration(f.sleepTime * float64(time.Second)),
	})
}

// writeResponse persists or prints a successful response body.
// Unsuccessful classifications become errors here: a direct API call
// has no per-ID result to fall back on.
func (f *restFlags) writeResponse(resp *rest.Response, binary bool) error {
	switch resp.Status {
	case rest.StatusSuccess:
	case rest.StatusTimeout:
		return fmt.Errorf("request timed out: %s", resp.URL)
	default:
		return fmt.Errorf("request failed: %s", resp.URL)
	}

	if f.output == "" {
		_, err := os.Stdout.Write(resp.Body)
		return err
	}
	if binary {
		return os.WriteFile(f.output, resp.Body, 0o644)
	}
	return os.WriteFile(f.output, []byte(resp.Text), 0o644)
}

func newRestCmd() *cobra.Command {
	var flags restFlags

	restCmd := &cobra.Command{
		Use:   "rest",
		Short: "Execute individual KEGG REST API operations",
	}
	flags.register(restCmd)

	info := &cobra.Command{
		Use:   "info <database-name>",
		Short: "Pull information about a KEGG database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}
			resp, err := client.Info(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return flags.writeResponse(resp, false)
		},
	}

	list := &cobra.Command{
		Use:   "list <database-name>",
		Short: "Pull the entry IDs of a KEGG database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}
			resp, err := client.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return flags.writeResponse(resp, false)
		},
	}

	var entryField string
	get := &cobra.Command{
		Use:   "get <entry-ids>",
		Short: "Pull the entries of a comma-separated list of entry IDs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}
			resp, err := client.Get(cmd.Context(), entryids.FromString(args[0]), entryField)
			if err != nil {
				return err
			}
			return flags.writeResponse(resp, resturl.IsBinary(entryField))
		},
	}
	get.Flags().StringVar(&entryField, "entry-field", "", "entry field to pull instead of the default flat file")

	var formula string
	var exactMass, molecularWeight []float64
	find := &cobra.Command{
		Use:   "find <database-name> [keywords]",
		Short: "Search a database by comma-separated keywords or by one molecular attribute",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}

			var resp *rest.Response
			if len(args) == 2 {
				resp, err = client.KeywordsFind(cmd.Context(), args[0], entryids.FromString(args[1]))
			} else {
				resp, err = client.MolecularFind(cmd.Context(), args[0], formula, exactMass, molecularWeight)
			}
			if err != nil {
				return err
			}
			return flags.writeResponse(resp, false)
		},
	}
	find.Flags().StringVar(&formula, "formula", "", "chemical formula to search for")
	find.Flags().Float64SliceVar(&exactMass, "exact-mass", nil, "exact mass to search for; twice for a range")
	find.Flags().Float64SliceVar(&molecularWeight, "molecular-weight", nil, "molecular weight to search for; twice for a range")

	var convTarget string
	conv := &cobra.Command{
		Use:   "conv <kegg-database-name> <outside-database-name>",
		Short: "Convert entry IDs between KEGG and outside databases",
		Long:  "Converts all entry IDs between a KEGG database and an outside database, or, with --target, converts a comma-separated list of entry IDs given as the single argument.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}

			var resp *rest.Response
			if convTarget != "" {
				resp, err = client.EntriesConv(cmd.Context(), convTarget, entryids.FromString(args[0]))
			} else {
				if len(args) != 2 {
					return fmt.Errorf("conv requires two database names, or one entry ID list with --target")
				}
				resp, err = client.DatabaseConv(cmd.Context(), args[0], args[1])
			}
			if err != nil {
				return err
			}
			return flags.writeResponse(resp, false)
		},
	}
	conv.Flags().StringVar(&convTarget, "target", "", "target database for converting specific entry IDs")

	var linkTarget string
	link := &cobra.Command{
		Use:   "link <target-database-name> <source-database-name>",
		Short: "Find cross-references between databases or for specific entry IDs",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}

			var resp *rest.Response
			if linkTarget != "" {
				resp, err = client.EntriesLink(cmd.Context(), linkTarget, entryids.FromString(args[0]))
			} else {
				if len(args) != 2 {
					return fmt.Errorf("link requires two database names, or one entry ID list with --target")
				}
				resp, err = client.DatabaseLink(cmd.Context(), args[0], args[1])
			}
			if err != nil {
				return err
			}
			return flags.writeResponse(resp, false)
		},
	}
	link.Flags().StringVar(&linkTarget, "target", "", "target database for linking specific entry IDs")

	ddi := &cobra.Command{
		Use:   "ddi <drug-entry-ids>",
		Short: "Check drug-drug interactions for a comma-separated list of drug entry IDs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}
			resp, err := client.Ddi(cmd.Context(), entryids.FromString(args[0]))
			if err != nil {
				return err
			}
			return flags.writeResponse(resp, false)
		},
	}

	restCmd.AddCommand(info, list, get, find, conv, link, ddi)
	return restCmd
}
