package api

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/answer"
	"github.com/veridocai/veridoc/pkg/embeddings"
	"github.com/veridocai/veridoc/pkg/llm"
	"github.com/veridocai/veridoc/pkg/segment"
	"github.com/veridocai/veridoc/pkg/vector"
)

// ErrorResponse is the JSON envelope for all error replies.
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// UploadResponse is returned after a successful document ingestion. The
// session id is the partition the document's chunks were stored under;
// clients present it on every subsequent question.
type UploadResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// AskRequest is the body of an ask-question call.
type AskRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// AskResponse carries a generated answer.
type AskResponse struct {
	Status string `json:"status"`
	Answer string `json:"answer"`
}

// handleLiveness returns a simple health check response.
func (s *Server) handleLiveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "VeriDoc API is alive!",
	})
}

// handleUploadWhitepaper accepts a multipart PDF upload, runs the full
// ingestion pipeline, and returns the session id for the document.
func (s *Server) handleUploadWhitepaper(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Status: "error",
			Error:  "multipart field 'file' is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Status: "error",
			Error:  "could not open uploaded file",
		})
	}
	defer file.Close()

	data := make([]byte, fileHeader.Size)
	if _, err := io.ReadFull(file, data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Status: "error",
			Error:  "could not read uploaded file",
		})
	}

	doc := segment.Document{
		Name:      fileHeader.Filename,
		MediaType: fileHeader.Header.Get(fiber.HeaderContentType),
		Data:      data,
	}

	result, err := s.pipeline.Ingest(c.Context(), doc)
	if err != nil {
		s.logger.Warn("ingestion failed",
			zap.String("name", doc.Name),
			zap.Error(err),
		)
		return s.errorReply(c, err)
	}

	return c.JSON(UploadResponse{
		Status:    "success",
		Message:   fmt.Sprintf("Document '%s' processed into %d chunks", doc.Name, result.Chunks),
		SessionID: result.Partition,
	})
}

// handleAskQuestion answers a question about a previously uploaded document.
func (s *Server) handleAskQuestion(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Status: "error",
			Error:  "request body must be JSON with session_id and query",
		})
	}

	response, err := s.answerer.Answer(c.Context(), req.SessionID, req.Query)
	if err != nil {
		return s.errorReply(c, err)
	}

	return c.JSON(AskResponse{
		Status: "success",
		Answer: response,
	})
}

// errorReply maps pipeline errors onto HTTP statuses. Client mistakes are
// 4xx; dependency outages surface as 502 so callers can tell them apart
// from bugs.
func (s *Server) errorReply(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, segment.ErrUnsupportedFormat),
		errors.Is(err, segment.ErrEmptyDocument),
		errors.Is(err, answer.ErrInvalidRequest):
		status = fiber.StatusBadRequest
	case errors.Is(err, segment.ErrExtractionFailed):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, answer.ErrUnknownPartition):
		status = fiber.StatusNotFound
	case errors.Is(err, embeddings.ErrUnavailable),
		errors.Is(err, vector.ErrUnavailable),
		errors.Is(err, llm.ErrUnavailable):
		status = fiber.StatusBadGateway
	}

	if status == fiber.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}

	return c.Status(status).JSON(ErrorResponse{
		Status: "error",
		Error:  err.Error(),
	})
}
