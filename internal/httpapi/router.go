package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crimedash/internal/dashboard"
	"crimedash/internal/stats"
	"crimedash/internal/visuals"

	"github.com/gin-gonic/gin"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
)

// maxBodyBytes caps a selection request body.
const maxBodyBytes = 4 << 10

// selectionBody is the JSON accepted by PUT /api/selection. Values follow
// the filter controls: "" or "all" leaves a predicate unset.
type selectionBody struct {
	Year     any    `json:"year,omitempty"`
	Category string `json:"category,omitempty"`
	Weapon   string `json:"weapon,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Options configures the router.
type Options struct {
	// LoadErr is reported by /api/health when the dataset failed to load.
	LoadErr error
}

// Router serves the dashboard page and its JSON API.
type Router struct {
	ctrl    *dashboard.Controller
	page    []byte
	schema  *jsonschema.Resolved
	loadErr error
}

// NewRouter wires the HTTP handlers over ctrl.
func NewRouter(ctrl *dashboard.Controller, opts Options) (*gin.Engine, error) {
	page, err := buildPage()
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard page: %w", err)
	}
	schema, err := selectionSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to build selection schema: %w", err)
	}

	r := &Router{
		ctrl:    ctrl,
		page:    page,
		schema:  schema,
		loadErr: opts.LoadErr,
	}

	router := gin.New()
	router.Use(requestLogger(), gin.Recovery())

	router.GET("/", r.index)

	api := router.Group("/api")
	{
		api.GET("/health", r.health)
		api.GET("/options", r.options)
		api.GET("/view", r.view)
		api.PUT("/selection", r.putSelection)
		api.GET("/charts/:name", r.chart)
	}

	return router, nil
}

func selectionSchema() (*jsonschema.Resolved, error) {
	schema, err := jsonschema.For[selectionBody](nil)
	if err != nil {
		return nil, err
	}
	schema.Properties["year"] = &jsonschema.Schema{
		Description: "Calendar year, or \"all\"",
		Types:       []string{"integer", "string", "null"},
	}
	schema.Properties["status"].Description = "SOLVED, UNSOLVED, UNKNOWN or \"all\""
	return schema.Resolve(nil)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("HTTP request")
	}
}

func (r *Router) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", r.page)
}

func (r *Router) health(c *gin.Context) {
	ds := r.ctrl.Dataset()
	resp := gin.H{
		"status":  "ok",
		"source":  ds.Source(),
		"records": ds.Len(),
	}
	if r.loadErr != nil {
		resp["status"] = "degraded"
		resp["error"] = r.loadErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (r *Router) options(c *gin.Context) {
	c.JSON(http.StatusOK, r.ctrl.Options())
}

// view returns the current view, or a preview when filter query
// parameters are present.
func (r *Router) view(c *gin.Context) {
	if !hasSelectionQuery(c) {
		c.JSON(http.StatusOK, r.ctrl.Current())
		return
	}
	sel, err := selectionFromQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, r.ctrl.Preview(sel))
}

func (r *Router) putSelection(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		badRequest(c, err)
		return
	}
	sel, err := r.decodeSelection(raw)
	if err != nil {
		badRequest(c, err)
		return
	}

	v, err := r.ctrl.Select(sel)
	if err != nil {
		// The view is current; only a renderer failed.
		log.Warn().Err(err).Msg("Selection applied with adapter errors")
	}
	c.JSON(http.StatusOK, v)
}

func (r *Router) decodeSelection(raw []byte) (stats.Selection, error) {
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return stats.Selection{}, fmt.Errorf("%w: %v", stats.ErrInvalidSelection, err)
	}
	if err := r.schema.Validate(instance); err != nil {
		return stats.Selection{}, fmt.Errorf("%w: %v", stats.ErrInvalidSelection, err)
	}

	var body selectionBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return stats.Selection{}, fmt.Errorf("%w: %v", stats.ErrInvalidSelection, err)
	}
	return stats.ParseSelection(stats.YearString(body.Year), body.Category, body.Weapon, body.Status)
}

func (r *Router) chart(c *gin.Context) {
	sel, err := selectionFromQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	v := r.ctrl.Preview(sel)

	var p *plot.Plot
	switch c.Param("name") {
	case "categories.png":
		p, err = visuals.CategoryPlot(v.Categories)
	case "years.png":
		p, err = visuals.TrendPlot(v.Years)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown chart " + c.Param("name")})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if err := visuals.WritePNG(c.Writer, p); err != nil {
		log.Error().Err(err).Str("chart", c.Param("name")).Msg("Failed to render chart")
	}
}

func hasSelectionQuery(c *gin.Context) bool {
	q := c.Request.URL.Query()
	for _, k := range []string{"year", "category", "weapon", "status"} {
		if q.Has(k) {
			return true
		}
	}
	return false
}

func selectionFromQuery(c *gin.Context) (stats.Selection, error) {
	return stats.ParseSelection(c.Query("year"), c.Query("category"), c.Query("weapon"), c.Query("status"))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
