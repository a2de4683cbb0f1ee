package cmd

import (
	"fmt"
	"os"

	"s3hive/core/bucket"
	"s3hive/core/config"
	"s3hive/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configDir is the directory the .env file is read from.
var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "s3hive",
	Short: "Manage S3 buckets and objects",
	Long: `s3hive creates and deletes buckets, lists buckets and objects, uploads,
downloads and deletes objects and generates presigned URLs on AWS S3 or any
S3-compatible service.

Connection settings are read from the environment (or a .env file):
STORAGE_ENDPOINT, STORAGE_REGION, STORAGE_ACCESS_KEY, STORAGE_SECRET_KEY.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// facadeFactory builds the bucket facade and logger for a command.
type facadeFactory func() (*bucket.Bucket, *zap.Logger, error)

// newFacade is replaced in tests to run commands against a stand-in service.
var newFacade facadeFactory = loadFacade

func loadFacade() (*bucket.Bucket, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return bucket.New(cfg.Storage, bucket.WithLogger(logg)), logg, nil
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with the development config gives readable timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing the .env file")
}
