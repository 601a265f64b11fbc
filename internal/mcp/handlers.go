package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hpungsan/scout/internal/errors"
	"github.com/hpungsan/scout/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db      *sql.DB
	baseDir string
	logger  *zap.Logger
}

// NewHandlers creates a new Handlers instance. logger may be nil.
func NewHandlers(db *sql.DB, baseDir string, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{db: db, baseDir: baseDir, logger: logger}
}

// ListRequest represents the arguments for application_list.
type ListRequest struct {
	ReferrerID *int64 `json:"referrer_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// FetchRequest represents the arguments for application_fetch.
type FetchRequest struct {
	ID int64 `json:"id"`
}

// SetStatusRequest represents the arguments for application_set_status.
type SetStatusRequest struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// DeleteRequest represents the arguments for application_delete.
type DeleteRequest struct {
	ID      int64 `json:"id"`
	Confirm bool  `json:"confirm"`
}

// ExportRequest represents the arguments for application_export.
type ExportRequest struct {
	Path       string `json:"path,omitempty"`
	ReferrerID *int64 `json:"referrer_id,omitempty"`
}

// HandleList handles the application_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.db, ops.ListInput{
		ReferrerID: input.ReferrerID,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return h.fail("application_list", err), nil
	}
	return successResult(result)
}

// HandleFetch handles the application_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(ctx, h.db, ops.FetchInput{ID: input.ID})
	if err != nil {
		return h.fail("application_fetch", err), nil
	}
	return successResult(result)
}

// HandleSetStatus handles the application_set_status tool call.
func (h *Handlers) HandleSetStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SetStatusRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SetStatus(ctx, h.db, ops.SetStatusInput{ID: input.ID, Status: input.Status})
	if err != nil {
		return h.fail("application_set_status", err), nil
	}
	h.logger.Info("application status changed",
		zap.Int64("id", result.ID),
		zap.String("status", result.Status),
		zap.String("via", "mcp"),
	)
	return successResult(result)
}

// HandleDelete handles the application_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{ID: input.ID, Confirm: input.Confirm})
	if err != nil {
		return h.fail("application_delete", err), nil
	}
	h.logger.Info("application deleted", zap.Int64("id", result.ID), zap.String("via", "mcp"))
	return successResult(result)
}

// HandleExport handles the application_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, ops.ExportInput{
		Path:       input.Path,
		BaseDir:    h.baseDir,
		ReferrerID: input.ReferrerID,
	})
	if err != nil {
		return h.fail("application_export", err), nil
	}
	return successResult(result)
}

// fail logs unexpected errors before converting them to a tool result.
func (h *Handlers) fail(tool string, err error) *mcp.CallToolResult {
	var sErr *errors.ScoutError
	if !stderrors.As(err, &sErr) || sErr.Code == errors.ErrInternal {
		h.logger.Error("tool call failed", zap.String("tool", tool), zap.Error(err))
	}
	return errorResult(err)
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var sErr *errors.ScoutError
	if stderrors.As(err, &sErr) {
		message := sErr.Message
		// Keep wrapping context, minus the code prefix. Internal errors stay generic.
		if outer := err.Error(); outer != sErr.Error() && sErr.Code != errors.ErrInternal {
			message = strings.Replace(outer, string(sErr.Code)+": ", "", 1)
		}
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": message,
			"status":  sErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
