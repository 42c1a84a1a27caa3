// Package api provides the REST API server for lyrewrite
package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/lyrewrite/pkg/config"
	"github.com/james-see/lyrewrite/pkg/converter"
	"github.com/james-see/lyrewrite/pkg/edit"
	"github.com/james-see/lyrewrite/pkg/metrics"
	"github.com/james-see/lyrewrite/pkg/pitch"
	"github.com/james-see/lyrewrite/pkg/rewrite"
	"github.com/james-see/lyrewrite/pkg/tokenize"
)

// @title lyrewrite API
// @version 1.0
// @description API for rewriting LilyPond source: relative and absolute octaves, transposition and pitch-name translation
// @host localhost:8080
// @BasePath /api/v1

// RewriteRequest is the body of the rewrite, tokens and sketch endpoints
type RewriteRequest struct {
	Source      string `json:"source" binding:"required"`
	Start       int    `json:"start"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Language    string `json:"language,omitempty"`
	AddLanguage bool   `json:"add_language,omitempty"`
}

// Edit is one replacement made by a pass
type Edit struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// RewriteResponse is the result of a rewrite
type RewriteResponse struct {
	Result         string `json:"result"`
	Edits          []Edit `json:"edits"`
	IncludeChanged bool   `json:"include_changed"`
}

// TokenResponse describes one token
type TokenResponse struct {
	Kind   string `json:"kind"`
	Text   string `json:"text"`
	Offset int    `json:"offset"`
	Format string `json:"format,omitempty"`
}

// PassInfo describes a pass
type PassInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type server struct {
	cfg     *config.Config
	metrics *metrics.SentryMetrics
}

// NewRouter builds the gin engine with all routes
func NewRouter(cfg *config.Config, m *metrics.SentryMetrics) *gin.Engine {
	s := &server{cfg: cfg, metrics: m}

	r := gin.New()
	r.Use(gin.Logger())
	if m.Enabled() {
		r.Use(sentryMiddleware())
	} else {
		r.Use(gin.Recovery())
	}

	// CORS middleware
	r.Use(corsMiddleware())
	if cfg.Server.MaxBodySize > 0 {
		r.Use(bodyLimit(cfg.Server.MaxBodySize))
	}

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/passes", listPasses)
		v1.GET("/languages", s.listLanguages)
		v1.POST("/rewrite/:pass", s.handleRewrite)
		v1.POST("/tokens", s.handleTokens)
		v1.POST("/sketch", s.handleSketch)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server with the given settings
func StartServer(cfg *config.Config) error {
	gin.SetMode(cfg.Server.Mode)

	enabled, err := metrics.Init(cfg.Sentry.DSN, cfg.Sentry.Environment, cfg.Sentry.TracesSampleRate)
	if err != nil {
		return err
	}
	if enabled {
		defer metrics.Flush()
		log.Printf("sentry enabled (environment %s)", cfg.Sentry.Environment)
	}

	r := NewRouter(cfg, metrics.NewSentryMetrics(enabled))
	return r.Run(fmt.Sprintf(":%d", cfg.Server.Port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func bodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// sentryMiddleware starts a transaction per request and reports panics
func sentryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.CurrentHub().Clone()
		ctx := sentry.SetHubOnContext(c.Request.Context(), hub)
		transaction := sentry.StartTransaction(ctx,
			fmt.Sprintf("%s %s", c.Request.Method, c.FullPath()),
			sentry.WithOpName("http.server"))
		defer transaction.Finish()
		c.Request = c.Request.WithContext(transaction.Context())

		defer func() {
			if err := recover(); err != nil {
				hub.RecoverWithContext(ctx, err)
				transaction.Status = sentry.SpanStatusInternalError
				log.Printf("panic serving %s: %v", c.Request.URL.Path, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
		}()

		c.Next()
		transaction.Status = sentry.HTTPtoSpanStatus(c.Writer.Status())
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "lyrewrite",
	})
}

// listPasses godoc
// @Summary List passes
// @Description Returns the rewriting passes
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]PassInfo
// @Router /api/v1/passes [get]
func listPasses(c *gin.Context) {
	var passes []PassInfo
	for _, name := range converter.GetSupportedPasses() {
		var p converter.Pass
		switch name {
		case converter.PassTranspose:
			p = converter.Transpose{}
		case converter.PassTranslate:
			p = converter.Translate{}
		default:
			p, _ = converter.NewPass(name, converter.Options{})
		}
		passes = append(passes, PassInfo{Name: p.Name(), Description: p.Description()})
	}
	c.JSON(http.StatusOK, gin.H{"passes": passes})
}

// listLanguages godoc
// @Summary List pitch languages
// @Description Returns the pitch-name languages and the default one
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/languages [get]
func (s *server) listLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"languages": pitch.Languages(),
		"default":   s.cfg.Language,
	})
}

// handleRewrite godoc
// @Summary Rewrite LilyPond source
// @Description Runs rel2abs, abs2rel, transpose (from, to) or translate (language) over the source
// @Tags rewrite
// @Accept json
// @Produce json
// @Param pass path string true "Pass name"
// @Param request body RewriteRequest true "Source and options"
// @Success 200 {object} RewriteResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/rewrite/{pass} [post]
func (s *server) handleRewrite(c *gin.Context) {
	var req RewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passName := c.Param("pass")
	addLanguage := req.AddLanguage || s.cfg.AddLanguage
	pass, err := converter.NewPass(passName, converter.Options{
		From:        req.From,
		To:          req.To,
		Language:    req.Language,
		AddLanguage: addLanguage,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if req.Start < 0 || req.Start > len(req.Source) {
		writeError(c, fmt.Errorf("%w: start offset %d outside source", converter.ErrBadArgument, req.Start))
		return
	}

	span := s.metrics.StartPass(c.Request.Context(), passName, len(req.Source))
	var (
		changes        *edit.List
		includeChanged bool
	)
	if tr, ok := pass.(converter.Translate); ok {
		changes, includeChanged, err = tr.ApplyReport(req.Source, req.Start, edit.New())
	} else {
		changes, err = pass.Apply(req.Source, req.Start, edit.New())
	}
	if err != nil {
		span.Finish(0, err)
		writeError(c, err)
		return
	}
	span.Finish(changes.Len(), nil)

	resp := RewriteResponse{
		Result:         changes.Apply(req.Source),
		Edits:          []Edit{},
		IncludeChanged: includeChanged,
	}
	for _, e := range changes.Entries() {
		resp.Edits = append(resp.Edits, Edit{Start: e.A, End: e.B, Text: e.Text})
	}
	c.JSON(http.StatusOK, resp)
}

// handleTokens godoc
// @Summary Tokenize LilyPond source
// @Description Returns the tokens of the source with their highlighting format
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body RewriteRequest true "Source; language sets the initial pitch language"
// @Success 200 {object} map[string][]TokenResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/tokens [post]
func (s *server) handleTokens(c *gin.Context) {
	var req RewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	language := req.Language
	if language == "" {
		language = s.cfg.Language
	}
	if _, ok := pitch.Lookup(language); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown pitch language %q", language)})
		return
	}

	t := tokenize.New()
	t.SetLanguage(language)
	sc := t.Tokens(req.Source)
	tokens := []TokenResponse{}
	for {
		tok, ok := sc.Next()
		if !ok {
			break
		}
		tokens = append(tokens, TokenResponse{
			Kind:   tok.Kind.String(),
			Text:   tok.Text,
			Offset: tok.Offset,
			Format: string(tokenize.FormatOf(tok.Kind)),
		})
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// handleSketch godoc
// @Summary Render a MIDI pitch sketch
// @Description Resolves relative music and renders every note or chord as a sixteenth
// @Tags analysis
// @Accept json
// @Produce audio/midi
// @Param request body RewriteRequest true "Source"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/sketch [post]
func (s *server) handleSketch(c *gin.Context) {
	var req RewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv := converter.New(nil)
	conv.SetEncoding(s.cfg.FileEncoding())
	data, err := conv.SketchMIDI(req.Source)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=sketch.mid")
	c.Data(http.StatusOK, "audio/midi", data)
}

// writeError maps pass errors to status codes: bad options are the
// client's fault, music that cannot be rewritten is unprocessable
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var qt *pitch.QuarterToneAlterationUnavailable
	switch {
	case errors.Is(err, converter.ErrBadArgument):
		status = http.StatusBadRequest
	case errors.As(err, &qt), errors.Is(err, rewrite.ErrNoExpressionFound):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
