// Package ingestcmder provides the ingest command for loading PDFs from the
// command line.
package ingestcmder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/app"
	"github.com/veridocai/veridoc/pkg/config"
	"github.com/veridocai/veridoc/pkg/logger"
	"github.com/veridocai/veridoc/pkg/segment"
)

type IngestCommander struct {
	vectorProvider string
	vectorTarget   string
	sqlitePath     string
	embedProvider  string
	embedTarget    string
	embedModel     string
	chunkSize      int
	chunkOverlap   int
	debug          bool
	logger         *zap.Logger
	config         *config.Config
}

const ingestLongDesc string = `Ingest a PDF document directly, without the HTTP server.

Prints the session id on success. Use it with "veridoc ask" or the
/ask-question/ endpoint.`

func NewIngestCmd() *cobra.Command {
	cmder := &IngestCommander{}
	fs := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "ingest <file.pdf>",
		Short: "Ingest a PDF document",
		Long:  ingestLongDesc,
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
				config.FlagChunkSize,
				config.FlagChunkOverlap,
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
	config.AddIntFlag(cmd, fs, config.FlagChunkSize, &cmder.chunkSize)
	config.AddIntFlag(cmd, fs, config.FlagChunkOverlap, &cmder.chunkOverlap)

	return cmd
}

func (c *IngestCommander) run(path string) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	components, err := app.New(c.config, c.logger)
	if err != nil {
		return err
	}
	defer components.Close()

	result, err := components.Pipeline.Ingest(context.Background(), segment.Document{
		Name:      filepath.Base(path),
		MediaType: segment.MediaTypePDF,
		Data:      data,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %s into %d chunks\nSession ID: %s\n",
		filepath.Base(path), result.Chunks, result.Partition)
	return nil
}
