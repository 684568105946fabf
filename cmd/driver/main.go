package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mvkv/pkg/config"
	"mvkv/pkg/db"
	"mvkv/pkg/txn"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "driver",
		Short: "Replay a sample transaction history against the MVCC engine",
		RunE:  run,
	}
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	conf := config.NewDefaultConfig()
	if configPath != "" {
		var err error
		if conf, err = config.Load(configPath); err != nil {
			return err
		}
	}

	level, err := zapcore.ParseLevel(conf.LogLevel)
	if err != nil {
		return err
	}
	zapConf := zap.NewDevelopmentConfig()
	zapConf.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapConf.Build()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	database := db.New(conf, txn.NewZapSink(logger))
	defer database.Stop()

	if err := database.Preload(map[string][]byte{
		"A": []byte("initA"),
		"B": []byte("initB"),
	}); err != nil {
		return err
	}

	t1, err := database.Begin()
	if err != nil {
		return err
	}
	readKey(logger, t1, "A")
	if err := t1.Set("A", []byte("100")); err != nil {
		return err
	}
	if err := t1.Commit(); err != nil {
		return err
	}

	t2, err := database.Begin()
	if err != nil {
		return err
	}
	readKey(logger, t2, "A")
	if err := t2.Set("A", []byte("200")); err != nil {
		return err
	}
	if err := t2.Commit(); err != nil {
		return err
	}

	t3, err := database.Begin()
	if err != nil {
		return err
	}
	readKey(logger, t3, "A")
	if err := t3.Rollback(); err != nil {
		return err
	}

	for _, ts := range []uint64{0, 1, 2, 3, 4} {
		val, ok, err := database.ReadAsOf("A", ts)
		if err != nil {
			return err
		}
		logger.Info("read as of",
			zap.String("key", "A"),
			zap.Uint64("ts", ts),
			zap.Bool("found", ok),
			zap.ByteString("value", val))
	}

	removed, err := database.Compact()
	if err != nil {
		return err
	}
	logger.Info("driver done", zap.Int("versionsReclaimed", removed))
	return nil
}

func readKey(logger *zap.Logger, t *txn.Txn, key string) {
	val, ok, err := t.Get(key)
	if err != nil {
		logger.Error("read failed", zap.String("key", key), zap.Error(err))
		return
	}
	logger.Info("txn read",
		zap.Uint64("id", t.ID()),
		zap.String("key", key),
		zap.Bool("found", ok),
		zap.ByteString("value", val))
}
