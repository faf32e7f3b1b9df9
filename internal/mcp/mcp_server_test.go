package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/internal/history"
	mcp_internal "github.com/huangsam/buildlens/internal/mcp"
	"github.com/huangsam/buildlens/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) contract.HistoryStore {
	t.Helper()
	store, err := history.NewStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func baseConfig() *contract.Config {
	return &contract.Config{
		HistoryLimit: contract.DefaultHistoryLimit,
		Analysis:     schema.DefaultAnalysisOptions(),
	}
}

// seedBuilds records count builds with total durations rising by 100ms each.
func seedBuilds(t *testing.T, store contract.HistoryStore, count int) {
	t.Helper()
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	for i := range count {
		_, err := store.RecordBuild(schema.BuildRecord{
			Repo:     "acme/shop",
			Branch:   "main",
			Commit:   fmt.Sprintf("commit%02d", i+1),
			BuildNum: i + 1,
			Metrics: schema.BuildMetrics{
				TotalDuration: 2000 + float64(i)*100,
				TestDuration:  1200,
				BuildDuration: 700,
				TestsRun:      100,
				TestsPassed:   100,
				Coverage:      80,
			},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), newTestStore(t))
	ctx := context.Background()

	t.Run("analyze_build rejects malformed report", func(t *testing.T) {
		tool := s.GetTool("analyze_build")
		require.NotNil(t, tool, "Tool analyze_build should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "analyze_build",
				Arguments: map[string]any{
					"report": "not json",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid report")
	})

	t.Run("get_baseline with empty history", func(t *testing.T) {
		tool := s.GetTool("get_baseline")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "get_baseline",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "no builds recorded")
	})

	t.Run("get_build_stats with empty history", func(t *testing.T) {
		tool := s.GetTool("get_build_stats")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_build_stats",
				Arguments: map[string]any{
					"metric": "coverage",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "no samples provided")
	})
}

func TestMCPServerHandlers_WithHistory(t *testing.T) {
	store := newTestStore(t)
	seedBuilds(t, store, 6)
	s := mcp_internal.NewMCPServer(baseConfig(), store)
	ctx := context.Background()

	t.Run("list_recent_builds returns newest first", func(t *testing.T) {
		tool := s.GetTool("list_recent_builds")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "list_recent_builds",
				Arguments: map[string]any{
					"repo":  "acme/shop",
					"limit": 3.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var records []schema.BuildRecord
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &records))
		require.Len(t, records, 3)
		assert.Equal(t, 6, records[0].BuildNum)
		assert.Equal(t, 4, records[2].BuildNum)
	})

	t.Run("get_baseline aggregates the window", func(t *testing.T) {
		tool := s.GetTool("get_baseline")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_baseline",
				Arguments: map[string]any{
					"repo":   "acme/shop",
					"window": 5.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var baseline schema.Baseline
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &baseline))
		assert.Equal(t, 5, baseline.SampleSize)
		// Last five builds run 2100..2500ms
		assert.InDelta(t, 2300, baseline.AvgTotalDuration, 1e-9)
		assert.InDelta(t, 80, baseline.AvgCoverage, 1e-9)
	})

	t.Run("get_build_stats summarizes a metric", func(t *testing.T) {
		tool := s.GetTool("get_build_stats")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_build_stats",
				Arguments: map[string]any{
					"metric": "total_duration",
					"repo":   "acme/shop",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var summary schema.StatSummary
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &summary))
		assert.Equal(t, "total_duration", summary.Name)
		assert.Equal(t, 6, summary.SampleCount)
		assert.InDelta(t, 2000, summary.Min, 1e-9)
		assert.InDelta(t, 2500, summary.Max, 1e-9)
		assert.InDelta(t, 2250, summary.Mean, 1e-9)
	})

	t.Run("analyze_build flags a slow build", func(t *testing.T) {
		tool := s.GetTool("analyze_build")
		require.NotNil(t, tool)

		report := `{
			"build": {"repo": "acme/shop", "branch": "main", "commit": "deadbee", "build_num": 7},
			"metrics": {"total_duration": 5000, "test_duration": 1200, "build_duration": 700, "tests_run": 100, "tests_passed": 100, "coverage": 80}
		}`
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "analyze_build",
				Arguments: map[string]any{
					"report": report,
					"window": 5.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var analysis schema.BuildAnalysis
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &analysis))
		assert.True(t, analysis.Comparison.HasBaseline)
		assert.GreaterOrEqual(t, analysis.Comparison.Summary.Regressions, 1)
		assert.Contains(t, analysis.Comparison.Regressions, schema.MetricTotalDuration)
	})
}
