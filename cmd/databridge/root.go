/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	// Every backend registers itself on import so any configured
	// provider can be resolved.
	_ "github.com/suparena/databridge/database/ddb"
	_ "github.com/suparena/databridge/database/mapdb"
	_ "github.com/suparena/databridge/database/mysql"
	_ "github.com/suparena/databridge/database/postgres"
	_ "github.com/suparena/databridge/database/redisdb"
	_ "github.com/suparena/databridge/database/sqlite"

	_ "github.com/suparena/databridge/internal/tabledefs"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "databridge",
	Short: "Move data between databridge-managed databases",
	Long: `databridge resolves database handles from a YAML configuration file
and copies data between them. Backends: map, sqlite, mysql, postgres,
redis and dynamodb.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
		// Credentials for networked backends usually live in .env.
		if err := godotenv.Load(); err != nil {
			log.Debug().Msg("No .env file found, proceeding with environment variables")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "databridge.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
