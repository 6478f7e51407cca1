package mcp_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veridocai/veridoc/api/mcp"
	"github.com/veridocai/veridoc/pkg/answer"
	veridoclogger "github.com/veridocai/veridoc/pkg/logger"
	testutils "github.com/veridocai/veridoc/pkg/utils/test"
)

var _ = Describe("MCP Server", func() {
	var answerer *answer.Answerer

	BeforeEach(func() {
		answerer = answer.NewAnswerer(
			testutils.NewMockEmbedder(),
			testutils.NewMockVectorDriver(),
			testutils.NewMockGenerator("answer"),
			veridoclogger.Nop(),
		)
	})

	Describe("NewServer", func() {
		It("creates a server with the ask_document tool", func() {
			server, err := mcp.NewServer(mcp.Config{
				Answerer: answerer,
				Logger:   veridoclogger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(server).NotTo(BeNil())
			Expect(server.Handler()).NotTo(BeNil())
		})

		It("returns an error when the answerer is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Logger: veridoclogger.Nop(),
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("answerer is required"))
		})

		It("returns an error when the logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Answerer: answerer,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("creates an empty server in noop mode without dependencies", func() {
			server, err := mcp.NewServer(mcp.Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(server).NotTo(BeNil())
		})
	})
})
