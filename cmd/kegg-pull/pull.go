package main

import (
	"fmt"
	"io"
	"time"

	"github.com/biocompute/kegg-pull/pkg/cache"
	"github.com/biocompute/kegg-pull/pkg/entryids"
	"github.com/biocompute/kegg-pull/pkg/pull"
	"github.com/biocompute/kegg-pull/pkg/rest"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// pullFlags collects the tuning options shared by the pull
// subcommands.
type pullFlags struct {
	forceSingleEntry bool
	multiProcess     bool
	nWorkers         int
	output           string
	entryField       string
	nTries           int
	timeOut          int
	sleepTime        float64
	abortThreshold   float64
	redisAddr        string
}

func (f *pullFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.forceSingleEntry, "force-single-entry", false, "pull one entry per request (set automatically for the brite database)")
	cmd.Flags().BoolVar(&f.multiProcess, "multi-process", false, "pull batches concurrently across workers")
	cmd.Flags().IntVar(&f.nWorkers, "n-workers", 0, "worker count for --multi-process (default: number of CPUs)")
	cmd.Flags().StringVar(&f.output, "output", ".", "output directory, or a ZIP archive if it ends in .zip")
	cmd.Flags().StringVar(&f.entryField, "entry-field", "", "entry field to pull instead of the default flat file")
	cmd.Flags().IntVar(&f.nTries, "n-tries", 3, "attempts per request before classifying it timed out")
	cmd.Flags().IntVar(&f.timeOut, "time-out", 60, "seconds to wait per request attempt")
	cmd.Flags().Float64Var(&f.sleepTime, "sleep-time", 5.0, "seconds to sleep after a timed-out attempt")
	cmd.Flags().Float64Var(&f.abortThreshold, "abort-threshold", 0, "ratio of unsuccessful to total entry IDs at which the pull aborts (0 disables; valid values are between 0.0 and 1.0 non-inclusive)")
	cmd.Flags().StringVar(&f.redisAddr, "redis-addr", "", "Redis address for response caching (disabled when empty)")
}

func (f *pullFlags) restConfig() rest.Config {
	cfg := rest.Config{
		NTries:    f.nTries,
		Timeout:   time.Duration(f.timeOut) * time.Second,
		SleepTime: time.Duration(f.sleepTime * float64(time.Second)),
	}
	if f.redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: f.redisAddr})
		cfg.Cache = cache.NewManager(client, cache.DefaultTTL)
	}
	return cfg
}

func newPullCmd() *cobra.Command {
	pullCmd := &cobra.Command{
		Use:   "pull",
		Short: "Pull KEGG entries in bulk and save them to a directory or ZIP archive",
	}

	var dbFlags pullFlags
	database := &cobra.Command{
		Use:   "database <database-name>",
		Short: "Pull every entry of a KEGG database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseName := args[0]
			if databaseName == "brite" {
				dbFlags.forceSingleEntry = true
			}

			client, err := rest.New(dbFlags.restConfig())
			if err != nil {
				return err
			}
			ids, err := entryids.NewGetter(client).FromDatabase(cmd.Context(), databaseName)
			if err != nil {
				return err
			}
			return runPull(cmd, client, ids, &dbFlags)
		},
	}
	dbFlags.register(database)

	var idFlags pullFlags
	entryIDs := &cobra.Command{
		Use:   "entry-ids <entry-ids>",
		Short: "Pull entries from a comma-separated ID list, or from stdin when the argument is \"-\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := readEntryIDs(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			client, err := rest.New(idFlags.restConfig())
			if err != nil {
				return err
			}
			return runPull(cmd, client, ids, &idFlags)
		},
	}
	idFlags.register(entryIDs)

	pullCmd.AddCommand(database, entryIDs)
	return pullCmd
}

// readEntryIDs resolves the entry-ids argument: a comma-separated
// list, or one ID per line from stdin when the argument is "-".
func readEntryIDs(arg string, stdin io.Reader) ([]string, error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading entry IDs from stdin: %w", err)
		}
		ids := entryids.ParseList(string(data))
		if len(ids) == 0 {
			return nil, fmt.Errorf("no entry IDs received on stdin")
		}
		return ids, nil
	}

	ids := entryids.FromString(arg)
	if len(ids) == 0 {
		return nil, fmt.Errorf("no entry IDs in %q", arg)
	}
	return ids, nil
}

// runPull executes the multiple pull and writes the result summary.
// Remote failures surface in the summary, not the exit code; only
// configuration and output errors fail the command.
func runPull(cmd *cobra.Command, client *rest.Client, ids []string, flags *pullFlags) error {
	saver, err := pull.NewSaver(flags.output)
	if err != nil {
		return err
	}

	single := pull.NewSinglePull(client, saver, flags.entryField)
	opts := pull.Options{
		ForceSingleEntry: flags.forceSingleEntry,
		AbortThreshold:   flags.abortThreshold,
		NWorkers:         flags.nWorkers,
	}

	var outcome *pull.Outcome
	if flags.multiProcess {
		multiple, err := pull.NewParallelMultiplePull(single, opts)
		if err != nil {
			saver.Close()
			return err
		}
		outcome, err = multiple.Pull(cmd.Context(), ids)
		if err != nil {
			saver.Close()
			return err
		}
	} else {
		multiple, err := pull.NewSequentialMultiplePull(single, opts)
		if err != nil {
			saver.Close()
			return err
		}
		outcome, err = multiple.Pull(cmd.Context(), ids)
		if err != nil {
			saver.Close()
			return err
		}
	}

	if err := saver.Close(); err != nil {
		return err
	}
	return pull.NewSummary(outcome).Write(pull.SummaryFileName)
}
