package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"crimedash/internal/dashboard"
	"crimedash/internal/incident"
	"crimedash/internal/stats"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func testController() *dashboard.Controller {
	at := func(y int) *time.Time {
		t := time.Date(y, time.July, 4, 0, 0, 0, 0, time.UTC)
		return &t
	}
	records := []incident.Record{
		{OccurredAt: at(2020), Category: "VANDALISM", Weapon: incident.NoWeapon, DispositionRaw: "Adult Other"},
		{OccurredAt: at(2020), Category: "VANDALISM", Weapon: incident.NoWeapon, DispositionRaw: "Invest Cont"},
		{OccurredAt: at(2024), Category: "ASSAULT", Weapon: "BOTTLE", DispositionRaw: "Invest Cont"},
	}
	return dashboard.NewController(incident.NewDataset("fixture.csv", records), nil, stats.DefaultYearDomain)
}

type decodedEnvelope struct {
	Data      json.RawMessage   `json:"data"`
	Selection *stats.Selection  `json:"selection"`
	Charts    map[string]string `json:"charts"`
	Warnings  []string          `json:"warnings"`
}

func decodeResult(t *testing.T, res *mcp.CallToolResult) decodedEnvelope {
	t.Helper()
	if res.IsError {
		t.Fatalf("Unexpected tool error: %v", res.Content)
	}
	if len(res.Content) != 1 {
		t.Fatalf("Expected 1 content block, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", res.Content[0])
	}
	var env decodedEnvelope
	if err := json.Unmarshal([]byte(text.Text), &env); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	return env
}

func TestHandleFilterOptions(t *testing.T) {
	s := NewServer(testController(), Options{})
	res, _, err := s.handleFilterOptions(context.Background(), nil, OptionsArgs{})
	if err != nil {
		t.Fatal(err)
	}

	env := decodeResult(t, res)
	var opts incident.FilterOptions
	if err := json.Unmarshal(env.Data, &opts); err != nil {
		t.Fatal(err)
	}
	if len(opts.Years) != 2 || opts.Years[0] != 2020 || opts.Years[1] != 2024 {
		t.Errorf("Expected years [2020 2024], got %v", opts.Years)
	}
	if len(opts.Statuses) != 3 {
		t.Errorf("Expected 3 statuses, got %v", opts.Statuses)
	}
	if len(env.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", env.Warnings)
	}
}

func TestHandleDashboardView(t *testing.T) {
	tests := []struct {
		name          string
		args          ViewArgs
		expectedTotal int
		expectedRate  float64
	}{
		{"everything", ViewArgs{}, 3, 33.33},
		{"numeric year", ViewArgs{Year: float64(2020)}, 2, 50},
		{"string year", ViewArgs{Year: "2024"}, 1, 0},
		{"lowercase status", ViewArgs{Status: "unsolved"}, 2, 0},
		{"category", ViewArgs{Category: "VANDALISM", Weapon: "all"}, 2, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(testController(), Options{})
			res, _, err := s.handleDashboardView(context.Background(), nil, tt.args)
			if err != nil {
				t.Fatal(err)
			}

			env := decodeResult(t, res)
			var v dashboard.View
			if err := json.Unmarshal(env.Data, &v); err != nil {
				t.Fatal(err)
			}
			if v.Summary.Total != tt.expectedTotal {
				t.Errorf("Expected total %d, got %d", tt.expectedTotal, v.Summary.Total)
			}
			if v.Summary.SolvedRate != tt.expectedRate {
				t.Errorf("Expected rate %v, got %v", tt.expectedRate, v.Summary.SolvedRate)
			}
			if env.Selection == nil {
				t.Error("Expected selection echoed in envelope")
			}
			if env.Charts != nil {
				t.Error("Expected no charts when disabled")
			}
		})
	}
}

func TestHandleDashboardView_InvalidSelection(t *testing.T) {
	s := NewServer(testController(), Options{})
	for _, args := range []ViewArgs{{Year: "soon"}, {Status: "CLOSED"}} {
		res, _, err := s.handleDashboardView(context.Background(), nil, args)
		if err != nil {
			t.Fatal(err)
		}
		if !res.IsError {
			t.Errorf("Expected tool error for %+v", args)
		}
	}
}

func TestHandleDashboardView_ApplyUpdatesController(t *testing.T) {
	ctrl := testController()
	s := NewServer(ctrl, Options{})

	if _, _, err := s.handleDashboardView(context.Background(), nil, ViewArgs{Category: "ASSAULT"}); err != nil {
		t.Fatal(err)
	}
	if !ctrl.Current().Selection.IsAll() {
		t.Error("Expected preview to leave selection untouched")
	}

	if _, _, err := s.handleDashboardView(context.Background(), nil, ViewArgs{Category: "ASSAULT", Apply: true}); err != nil {
		t.Fatal(err)
	}
	if ctrl.Current().Selection.Category != "ASSAULT" {
		t.Errorf("Expected applied selection, got %+v", ctrl.Current().Selection)
	}
}

func TestHandleDashboardView_MermaidCharts(t *testing.T) {
	s := NewServer(testController(), Options{MermaidCharts: true})
	res, _, err := s.handleDashboardView(context.Background(), nil, ViewArgs{})
	if err != nil {
		t.Fatal(err)
	}

	env := decodeResult(t, res)
	for _, key := range []string{"categories", "years", "outcomes"} {
		if !strings.Contains(env.Charts[key], "```mermaid") {
			t.Errorf("Expected mermaid block for %s, got %q", key, env.Charts[key])
		}
	}
}

func TestEnvelope_Warnings(t *testing.T) {
	empty := dashboard.NewController(nil, nil, stats.DefaultYearDomain)

	s := NewServer(empty, Options{})
	if w := s.envelope(nil).Warnings; len(w) != 1 || w[0] != "dataset is empty" {
		t.Errorf("Expected empty dataset warning, got %v", w)
	}

	s = NewServer(empty, Options{LoadErr: errors.New("timeout")})
	if w := s.envelope(nil).Warnings; len(w) != 1 || !strings.Contains(w[0], "timeout") {
		t.Errorf("Expected load error warning, got %v", w)
	}
}

func TestServer_InMemorySession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := NewServer(testController(), Options{})
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.Connect(ctx, serverTransport)
	if err != nil {
		t.Fatalf("Server connect failed: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("Client connect failed: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	if !names["crime_filter_options"] || !names["crime_dashboard_view"] {
		t.Errorf("Expected both tools registered, got %v", names)
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "crime_dashboard_view",
		Arguments: map[string]any{"year": 2020, "status": "SOLVED"},
	})
	if err != nil {
		t.Fatal(err)
	}
	env := decodeResult(t, res)
	var v dashboard.View
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatal(err)
	}
	if v.Summary.Total != 1 || v.Summary.Solved != 1 {
		t.Errorf("Expected one solved 2020 incident, got %+v", v.Summary)
	}
}
