package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/answer"
)

var (
	askToolName    = "ask_document"
	askDescription = "Ask a question about a previously uploaded document. Requires the session id returned by the upload endpoint; answers are grounded in that document's content only."
)

// AskInput represents the input arguments for the ask_document tool.
type AskInput struct {
	SessionID string `json:"session_id" jsonschema:"the session id returned when the document was uploaded"`
	Question  string `json:"question" jsonschema:"the question to answer from the document"`
}

// AskOutput represents the output of the ask_document tool.
type AskOutput struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

// handleAsk processes an ask_document request.
func (s *Server) handleAsk(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP ask_document request",
		zap.String("session_id", input.SessionID),
	)

	response, err := s.config.Answerer.Answer(ctx, input.SessionID, input.Question)
	if err != nil {
		if errors.Is(err, answer.ErrInvalidRequest) || errors.Is(err, answer.ErrUnknownPartition) {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{
					&mcp.TextContent{Text: err.Error()},
				},
			}, AskOutput{}, nil
		}

		logger.Error("failed to answer question", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to answer question: %v", err)},
			},
		}, AskOutput{}, nil
	}

	output := AskOutput{
		SessionID: input.SessionID,
		Question:  input.Question,
		Answer:    response,
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal ask output", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize answer: %v", err)},
			},
		}, AskOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
