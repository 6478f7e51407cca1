// Package watchcmder provides the watch command for auto-ingesting PDFs
// written into a directory.
package watchcmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/app"
	"github.com/veridocai/veridoc/pkg/config"
	"github.com/veridocai/veridoc/pkg/logger"
	"github.com/veridocai/veridoc/pkg/segment"
	"github.com/veridocai/veridoc/pkg/watch"
)

type WatchCommander struct {
	vectorProvider string
	vectorTarget   string
	sqlitePath     string
	embedProvider  string
	embedTarget    string
	embedModel     string
	settle         time.Duration
	debug          bool
	logger         *zap.Logger
	config         *config.Config
}

const watchLongDesc string = `Watch a directory and ingest every PDF written into it.

Each ingested file's session id is printed to stdout. Files are re-ingested
when modified; identical content converges on the same session id.`

func NewWatchCmd() *cobra.Command {
	cmder := &WatchCommander{}
	fs := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and ingest PDFs as they appear",
		Long:  watchLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			configDir, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("could not get config flag: %v", err)
			}

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, fs, []string{
				config.FlagVectorStoreProv,
				config.FlagVectorStoreTgt,
				config.FlagSQLitePath,
				config.FlagEmbeddingProv,
				config.FlagEmbeddingTgt,
				config.FlagEmbeddingModel,
			})

			cmder.config, err = config.FromViper(v)
			return err
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return cmder.run(args[0])
		},
	}

	config.AddStringFlag(cmd, fs, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, fs, config.FlagVectorStoreTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, fs, config.FlagSQLitePath, &cmder.sqlitePath)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingProv, &cmder.embedProvider)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingModel, &cmder.embedModel)
	cmd.Flags().DurationVar(&cmder.settle, "settle", 500*time.Millisecond, "Wait this long after a write before ingesting")

	return cmd
}

func (c *WatchCommander) run(dir string) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	components, err := app.New(c.config, c.logger)
	if err != nil {
		return err
	}
	defer components.Close()

	watcher, err := watch.NewWatcher(c.logger)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, err := watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	c.logger.Info("watching directory", zap.String("dir", dir))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case sig := <-sigChan:
			c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
			return nil
		case path, ok := <-paths:
			if !ok {
				return nil
			}
			c.ingestFile(ctx, components, path)
		}
	}
}

// ingestFile reads and ingests one file. Failures are logged, not fatal;
// the watch loop keeps running.
func (c *WatchCommander) ingestFile(ctx context.Context, components *app.App, path string) {
	// Editors and downloads often write in bursts; wait for the file to
	// settle before reading it.
	time.Sleep(c.settle)

	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Warn("could not read file", zap.String("path", path), zap.Error(err))
		return
	}

	result, err := components.Pipeline.Ingest(ctx, segment.Document{
		Name:      filepath.Base(path),
		MediaType: segment.MediaTypePDF,
		Data:      data,
	})
	if err != nil {
		c.logger.Warn("ingestion failed", zap.String("path", path), zap.Error(err))
		return
	}

	fmt.Printf("%s\t%s\n", filepath.Base(path), result.Partition)
}
