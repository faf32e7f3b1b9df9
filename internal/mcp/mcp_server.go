// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/buildlens/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Buildlens MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.HistoryStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Buildlens Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: analyze_build ---
	s.AddTool(mcp.NewTool("analyze_build",
		mcp.WithDescription("Analyze a JSON build report against recorded history: baseline comparison, trends, anomalies and recommendations."),
		mcp.WithString("report", mcp.Description("The build report document as JSON."), mcp.Required()),
		mcp.WithString("repo", mcp.Description("Repository whose history to compare against (defaults to the repo named in the report).")),
		mcp.WithNumber("window", mcp.Description("Baseline window, the number of recent builds to average.")),
	), h.handleAnalyzeBuild)

	// --- 2. Tool: get_baseline ---
	s.AddTool(mcp.NewTool("get_baseline",
		mcp.WithDescription("Compute the rolling baseline (averages and p95 values) over the most recent recorded builds."),
		mcp.WithString("repo", mcp.Description("Repository to aggregate (all repositories when omitted).")),
		mcp.WithNumber("window", mcp.Description("Number of recent builds to aggregate.")),
	), h.handleGetBaseline)

	// --- 3. Tool: get_build_stats ---
	s.AddTool(mcp.NewTool("get_build_stats",
		mcp.WithDescription("Compute descriptive statistics (min, max, mean, median, stddev, p95, p99, outlier-adjusted mean) for one metric across recorded builds."),
		mcp.WithString("metric", mcp.Description("Metric to summarize. Defaults to 'total_duration'."), mcp.Enum("total_duration", "test_duration", "build_duration", "tests_run", "coverage")),
		mcp.WithString("repo", mcp.Description("Repository to summarize (all repositories when omitted).")),
		mcp.WithNumber("limit", mcp.Description("Number of recent builds to include.")),
	), h.handleGetBuildStats)

	// --- 4. Tool: list_recent_builds ---
	s.AddTool(mcp.NewTool("list_recent_builds",
		mcp.WithDescription("List recently recorded builds, newest first."),
		mcp.WithString("repo", mcp.Description("Filter to one repository (all repositories when omitted).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListRecentBuilds)

	return s
}

// StartMCPServer starts the Buildlens MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.HistoryStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
