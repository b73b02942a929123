/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/suparena/databridge"
	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/database"
	"github.com/suparena/databridge/dump"
)

var (
	dumpSource    string
	dumpDest      string
	dumpBatch     int
	dumpTableDone bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Copy every table from one configured database into another",
	Long: `Resolves the source and destination sections of the configuration
file and copies all source tables into the destination. The destination
must manage every table the source manages; extra destination tables are
left untouched.`,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVar(&dumpSource, "source", "", "configuration section of the source database")
	dumpCmd.Flags().StringVar(&dumpDest, "dest", "", "configuration section of the destination database")
	dumpCmd.Flags().IntVar(&dumpBatch, "batch", 0, "progress reporting interval in records (0 = default)")
	dumpCmd.Flags().BoolVar(&dumpTableDone, "table-done", false, "report a zero-remaining event when each table finishes")
	_ = dumpCmd.MarkFlagRequired("source")
	_ = dumpCmd.MarkFlagRequired("dest")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", configPath, err)
	}

	src, err := databridge.GetSection[database.Database](ctx, root, dumpSource)
	if err != nil {
		return fmt.Errorf("resolving source %q: %w", dumpSource, err)
	}
	defer src.Close()

	dst, err := databridge.GetSection[database.Database](ctx, root, dumpDest)
	if err != nil {
		return fmt.Errorf("resolving destination %q: %w", dumpDest, err)
	}
	defer dst.Close()

	opts := []dump.Option{
		dump.WithLogger(log.Logger),
		dump.WithProgress(func(p dump.Progress) {
			if p.Table == nil {
				return
			}
			log.Info().Str("table", p.Table.Name()).Int("remaining", p.Remaining).Msg("copying")
		}),
	}
	if dumpBatch > 0 {
		opts = append(opts, dump.WithBatchSize(dumpBatch))
	}
	if dumpTableDone {
		opts = append(opts, dump.WithTableDone(true))
	}

	job, err := databridge.Dump(ctx, src, dst, opts...)
	if err != nil {
		return err
	}
	log.Info().Str("job", job.ID().String()).Str("source", dumpSource).Str("dest", dumpDest).Msg("dump started")

	if err := job.Wait(ctx); err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	log.Info().Str("job", job.ID().String()).Msg("dump complete")
	return nil
}
