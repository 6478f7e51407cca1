// Package servecmder provides the serve command for running the HTTP API.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veridocai/veridoc/api"
	"github.com/veridocai/veridoc/api/mcp"
	"github.com/veridocai/veridoc/pkg/app"
	"github.com/veridocai/veridoc/pkg/config"
	"github.com/veridocai/veridoc/pkg/logger"
)

type ServeCommander struct {
	listen         string
	vectorProvider string
	vectorTarget   string
	sqlitePath     string
	embedProvider  string
	embedTarget    string
	embedModel     string
	llmProvider    string
	llmTarget      string
	llmModel       string
	chunkSize      int
	chunkOverlap   int
	topK           int
	eventsProvider string
	debug          bool
	noMCP          bool
	logger         *zap.Logger
	config         *config.Config
}

const serveLongDesc string = `Run the VeriDoc HTTP API server.

Endpoints:
  POST /upload-whitepaper/   Ingest a PDF, returns a session id
  POST /ask-question/        Answer a question for a session id
  GET  /                     Liveness probe
  ALL  /mcp                  MCP surface with the ask_document tool`

const serveShortDesc string = "Run the HTTP API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}
	fs := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
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
				config.FlagAPIListen,
				config.FlagVectorStoreProv,
				config.FlagVectorStoreTgt,
				config.FlagSQLitePath,
				config.FlagEmbeddingProv,
				config.FlagEmbeddingTgt,
				config.FlagEmbeddingModel,
				config.FlagLLMProv,
				config.FlagLLMTgt,
				config.FlagLLMModel,
				config.FlagChunkSize,
				config.FlagChunkOverlap,
				config.FlagTopK,
				config.FlagEventsProv,
			})

			cmder.config, err = config.FromViper(v)
			return err
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, fs, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, fs, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, fs, config.FlagVectorStoreTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, fs, config.FlagSQLitePath, &cmder.sqlitePath)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingProv, &cmder.embedProvider)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingModel, &cmder.embedModel)
	config.AddStringFlag(cmd, fs, config.FlagLLMProv, &cmder.llmProvider)
	config.AddStringFlag(cmd, fs, config.FlagLLMTgt, &cmder.llmTarget)
	config.AddStringFlag(cmd, fs, config.FlagLLMModel, &cmder.llmModel)
	config.AddIntFlag(cmd, fs, config.FlagChunkSize, &cmder.chunkSize)
	config.AddIntFlag(cmd, fs, config.FlagChunkOverlap, &cmder.chunkOverlap)
	config.AddIntFlag(cmd, fs, config.FlagTopK, &cmder.topK)
	config.AddStringFlag(cmd, fs, config.FlagEventsProv, &cmder.eventsProvider)
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Disable the MCP surface")

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	components, err := app.New(c.config, c.logger)
	if err != nil {
		return err
	}
	defer components.Close()

	apiConfig := api.Config{
		ListenAddr:     c.config.API.Listen,
		MaxUploadBytes: c.config.API.MaxUploadBytes,
		AuthToken:      c.config.API.AuthToken,
	}
	apiServer := api.NewServer(apiConfig, components.Pipeline, components.Answerer, c.logger)

	mcpServer, err := mcp.NewServer(mcp.Config{
		Answerer: components.Answerer,
		Noop:     c.noMCP,
		Logger:   c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}
	if !c.noMCP {
		apiServer.MountMCP(mcpServer)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}
