// Package askcmder provides the ask command for querying an ingested
// document from the command line.
package askcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/app"
	"github.com/veridocai/veridoc/pkg/config"
	"github.com/veridocai/veridoc/pkg/logger"
)

type AskCommander struct {
	sessionID      string
	vectorProvider string
	vectorTarget   string
	sqlitePath     string
	embedProvider  string
	embedTarget    string
	embedModel     string
	llmProvider    string
	llmTarget      string
	llmModel       string
	topK           int
	debug          bool
	logger         *zap.Logger
	config         *config.Config
}

const askLongDesc string = `Ask a question about a previously ingested document.

The session id is printed by "veridoc ingest" or returned by the
/upload-whitepaper/ endpoint. Answers are grounded in that document alone.`

func NewAskCmd() *cobra.Command {
	cmder := &AskCommander{}
	fs := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about an ingested document",
		Long:  askLongDesc,
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
				config.FlagLLMProv,
				config.FlagLLMTgt,
				config.FlagLLMModel,
				config.FlagTopK,
			})

			cmder.config, err = config.FromViper(v)
			return err
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return cmder.run(args[0])
		},
	}

	cmd.Flags().StringVarP(&cmder.sessionID, "session", "s", "", "Session id of the ingested document (required)")
	cmd.MarkFlagRequired("session")

	config.AddStringFlag(cmd, fs, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, fs, config.FlagVectorStoreTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, fs, config.FlagSQLitePath, &cmder.sqlitePath)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingProv, &cmder.embedProvider)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingModel, &cmder.embedModel)
	config.AddStringFlag(cmd, fs, config.FlagLLMProv, &cmder.llmProvider)
	config.AddStringFlag(cmd, fs, config.FlagLLMTgt, &cmder.llmTarget)
	config.AddStringFlag(cmd, fs, config.FlagLLMModel, &cmder.llmModel)
	config.AddIntFlag(cmd, fs, config.FlagTopK, &cmder.topK)

	return cmd
}

func (c *AskCommander) run(question string) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	components, err := app.New(c.config, c.logger)
	if err != nil {
		return err
	}
	defer components.Close()

	response, err := components.Answerer.Answer(context.Background(), c.sessionID, question)
	if err != nil {
		return err
	}

	fmt.Println(response)
	return nil
}
