// Package mcpserver exposes outline extraction as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgallion1/docoutline/internal/eval"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// New returns a server with the outline tools registered.
func New(ex *pipeline.Extractor) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "docoutline", Version: Version}, nil)
	Register(srv, ex)
	return srv
}

// Register adds the outline tools to srv.
func Register(srv *mcp.Server, ex *pipeline.Extractor) {
	addTool(srv, &mcp.Tool{
		Name:        "extract_outline",
		Description: "Extract the title and H1/H2/H3 outline of a PDF file.",
		InputSchema: inputSchema(map[string]any{
			"path":   map[string]any{"type": "string", "description": "Path of the PDF file"},
			"format": map[string]any{"type": "string", "enum": []string{"json", "markdown"}, "description": "Output format, json by default"},
		}, []string{"path"}),
	}, func(ctx context.Context, raw json.RawMessage) (string, error) {
		var req struct {
			Path   string `json:"path"`
			Format string `json:"format"`
		}
		if err := decode(raw, &req); err != nil {
			return "", err
		}
		if req.Path == "" {
			return "", errors.New("invalid arguments: path is required")
		}
		ext, err := ex.ExtractFile(ctx, req.Path)
		if err != nil {
			return "", err
		}
		switch req.Format {
		case "", pipeline.FormatJSON:
			data, err := pipeline.EncodeJSON(ext.Result)
			return string(data), err
		case pipeline.FormatMarkdown:
			return ext.Result.Markdown(), nil
		}
		return "", fmt.Errorf("invalid arguments: unknown format %q", req.Format)
	})

	addTool(srv, &mcp.Tool{
		Name:        "score_outline",
		Description: "Extract a PDF outline and score it against a label file (json, md, html, docx, csv or txt).",
		InputSchema: inputSchema(map[string]any{
			"path":  map[string]any{"type": "string", "description": "Path of the PDF file"},
			"label": map[string]any{"type": "string", "description": "Path of the expected outline"},
		}, []string{"path", "label"}),
	}, func(ctx context.Context, raw json.RawMessage) (string, error) {
		var req struct {
			Path  string `json:"path"`
			Label string `json:"label"`
		}
		if err := decode(raw, &req); err != nil {
			return "", err
		}
		if req.Path == "" || req.Label == "" {
			return "", errors.New("invalid arguments: path and label are required")
		}
		expected, err := eval.LoadLabel(req.Label)
		if err != nil {
			return "", fmt.Errorf("load label: %w", err)
		}
		ext, err := ex.ExtractFile(ctx, req.Path)
		if err != nil {
			return "", err
		}
		data, err := json.Marshal(eval.Compare(req.Path, expected, ext.Result))
		return string(data), err
	})
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// addTool registers a text-returning handler. Handler errors become tool
// errors rather than protocol errors.
func addTool(srv *mcp.Server, tool *mcp.Tool, h func(context.Context, json.RawMessage) (string, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := h(ctx, req.Params.Arguments)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	})
}
