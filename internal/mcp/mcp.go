// Package mcp provides the zonememstat MCP server, registering the
// collection tools and publishing model instructions.
package mcp

import (
	_ "embed"

	"github.com/bahamat/zonememstat"
	"github.com/bahamat/zonememstat/internal/collector"
	"github.com/bahamat/zonememstat/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	engine *collector.Engine
	store  report.Store
}

// NewServer creates an MCP server with all zonememstat tools registered.
func NewServer(eng *collector.Engine, store report.Store) *mcp.Server {
	h := &handler{engine: eng, store: store}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "zonememstat", Version: zonememstat.Version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "zms_collect",
		Description: `Collect current per-zone memory statistics from zonememstat.

Runs the external zonememstat command once and returns one record per zone
(global zone first): RSS, cap (0 = unlimited), cap exceedances, paged-out
memory, and swap usage. The snapshot is stored for drill-down via zms_zone
and zms_snapshot.`,
	}, h.collectHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "zms_zone",
		Description: `Drill into one zone of a stored snapshot.

Identify the zone by zonename (UUID or "global") or by alias. Defaults to
the latest snapshot when no snapshot_id is given.`,
	}, h.zoneHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "zms_snapshot",
		Description: `Reload a stored snapshot as a full zone listing.

Defaults to the latest snapshot when no snapshot_id is given.`,
	}, h.snapshotHandler)

	return s
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
