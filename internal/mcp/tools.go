package mcp

import (
	"context"

	"crimedash/internal/dashboard"
	"crimedash/internal/stats"
	"crimedash/internal/visuals"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// OptionsArgs takes no parameters.
type OptionsArgs struct{}

// ViewArgs selects the slice of incidents to aggregate.
type ViewArgs struct {
	Year     any    `json:"year,omitempty" jsonschema:"Calendar year of occurrence, or all"`
	Category string `json:"category,omitempty" jsonschema:"Crime category exactly as listed by crime_filter_options, or all"`
	Weapon   string `json:"weapon,omitempty" jsonschema:"Weapon description exactly as listed by crime_filter_options, or all"`
	Status   string `json:"status,omitempty" jsonschema:"SOLVED, UNSOLVED, UNKNOWN or all"`
	Apply    bool   `json:"apply,omitempty" jsonschema:"Make this the dashboard's current selection instead of a preview"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpSrv, &mcp.Tool{
		Name:        "crime_filter_options",
		Description: "List the years, crime categories, weapons and case statuses present in the loaded incident dataset. Call this first to learn valid filter values.",
	}, s.handleFilterOptions)

	mcp.AddTool(s.mcpSrv, &mcp.Tool{
		Name:        "crime_dashboard_view",
		Description: "Aggregate the incident dataset for a filter selection: solved/unsolved summary and rate, per-category and per-year breakdowns, and map markers per location. The per-year trend ignores the year and status filters.",
	}, s.handleDashboardView)
}

func (s *Server) handleFilterOptions(ctx context.Context, req *mcp.CallToolRequest, _ OptionsArgs) (*mcp.CallToolResult, any, error) {
	return formatResult(s.envelope(s.ctrl.Options())), nil, nil
}

func (s *Server) handleDashboardView(ctx context.Context, req *mcp.CallToolRequest, args ViewArgs) (*mcp.CallToolResult, any, error) {
	sel, err := stats.ParseSelection(stats.YearString(args.Year), args.Category, args.Weapon, args.Status)
	if err != nil {
		return errorResult(err), nil, nil
	}

	var v dashboard.View
	if args.Apply {
		v, err = s.ctrl.Select(sel)
		if err != nil {
			log.Warn().Err(err).Msg("Selection applied with adapter errors")
		}
	} else {
		v = s.ctrl.Preview(sel)
	}

	env := s.envelope(v)
	env.Selection = sel
	if s.opts.MermaidCharts {
		env.Charts = visuals.Charts(v)
	}
	return formatResult(env), nil, nil
}
