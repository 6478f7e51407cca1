// Package veridoccmder
package veridoccmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/veridocai/veridoc/cmd/veridoc/ask"
	ingestcmder "github.com/veridocai/veridoc/cmd/veridoc/ingest"
	servecmder "github.com/veridocai/veridoc/cmd/veridoc/serve"
	watchcmder "github.com/veridocai/veridoc/cmd/veridoc/watch"
	versioncmder "github.com/veridocai/veridoc/cmd/version"
)

const veridocLongDesc string = `VeriDoc answers questions about your documents, grounded in their content.

Upload a PDF and get back a session id; every question asked with that id is
answered from that document alone.

  veridoc serve     Run the HTTP API server
  veridoc ingest    Ingest a PDF from the command line
  veridoc ask       Ask a question about an ingested document
  veridoc watch     Watch a directory and ingest PDFs as they appear`

const veridocShortDesc string = "VeriDoc - Grounded document Q&A"

func NewVeridocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "veridoc",
		Short: veridocShortDesc,
		Long:  veridocLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Directory containing config.toml")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(watchcmder.NewWatchCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
