package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/buildlens/core"
	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.HistoryStore
}

func (h *toolHandler) handleAnalyzeBuild(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if w := request.GetInt("window", 0); w > 0 {
		cfg.Analysis.BaselineWindow = w
	}

	report, err := schema.ParseBuildReport([]byte(request.GetString("report", "")))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report: %v", err)), nil
	}

	repo := request.GetString("repo", "")
	if repo == "" {
		repo = report.Build.Repo
	}

	history, err := core.LoadHistory(h.store, repo, max(cfg.HistoryLimit, cfg.Analysis.BaselineWindow))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	analysis := core.AnalyzeBuild(report, history, cfg.Analysis)
	jsonData, _ := json.MarshalIndent(analysis, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetBaseline(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if w := request.GetInt("window", 0); w > 0 {
		cfg.Analysis.BaselineWindow = w
	}
	repo := request.GetString("repo", "")

	history, err := core.LoadHistory(h.store, repo, max(cfg.HistoryLimit, cfg.Analysis.BaselineWindow))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	baseline := core.CalculateBaseline(history, cfg.Analysis.BaselineWindow)
	if baseline == nil {
		return mcp.NewToolResultError("no builds recorded yet"), nil
	}

	jsonData, _ := json.MarshalIndent(baseline, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetBuildStats(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.HistoryLimit = l
	}
	metric := schema.MetricName(request.GetString("metric", string(schema.MetricTotalDuration)))
	repo := request.GetString("repo", "")

	history, err := core.LoadHistory(h.store, repo, cfg.HistoryLimit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	samples := make([]float64, 0, len(history))
	for _, m := range history {
		samples = append(samples, m.Values()[metric])
	}

	summary, err := core.CalculateStats(string(metric), samples, cfg.Analysis)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRecentBuilds(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.HistoryLimit = l
	}
	repo := request.GetString("repo", "")

	records, err := core.LoadRecords(h.store, repo, cfg.HistoryLimit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

