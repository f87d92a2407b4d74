package ragpipe

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/ragpipe/kit"
)

// RegisterMCP registers ragpipe tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerConvertTool(srv)
	p.registerConvertFileTool(srv)
	p.registerPageURLTool(srv)
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

// --- convert ---

type convertReq struct {
	HTML   string `json:"html"`
	Source string `json:"source"`
}

func (p *Pipeline) registerConvertTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "ragpipe_convert",
		Description: "Convert raw HTML into retrieval-ready records (noise filtering, markdown conversion, heading-aware chunking).",
		InputSchema: inputSchema(map[string]any{
			"html":   map[string]any{"type": "string", "description": "Raw HTML text"},
			"source": map[string]any{"type": "string", "description": "Source name used for record IDs"},
		}, []string{"html", "source"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*convertReq)
		return p.ConvertHTML(ctx, r.HTML, r.Source)
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r convertReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- convert_file ---

type convertFileReq struct {
	Path string `json:"path"`
}

func (p *Pipeline) registerConvertFileTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "ragpipe_convert_file",
		Description: "Convert one saved HTML file into retrieval-ready records.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "HTML file path"},
		}, []string{"path"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*convertFileReq)
		return p.ConvertFile(ctx, r.Path)
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r convertFileReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- page_url ---

type pageURLReq struct {
	HTML string `json:"html"`
}

func (p *Pipeline) registerPageURLTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "ragpipe_page_url",
		Description: "Extract the canonical page URL from HTML (canonical link, og:url, first absolute anchor).",
		InputSchema: inputSchema(map[string]any{
			"html": map[string]any{"type": "string", "description": "Raw HTML text"},
		}, []string{"html"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*pageURLReq)
		return map[string]any{"url": ExtractPageURL(r.HTML)}, nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r pageURLReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
