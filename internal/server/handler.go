package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/dotcommander/preflight/internal/artwork"
	"github.com/dotcommander/preflight/internal/feedback"
	"github.com/dotcommander/preflight/internal/manifest"
	"github.com/dotcommander/preflight/internal/scoring"
	"github.com/dotcommander/preflight/internal/specs"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// Handler serves the preflight API.
type Handler struct {
	registry *specs.Registry
	strategy scoring.Scorer
	metrics  *Metrics
	log      *slog.Logger
	parsers  sync.Pool
}

// NewHandler creates a handler. strategy is used by /v1/feedback when the
// request names none.
func NewHandler(registry *specs.Registry, strategy scoring.Scorer, metrics *Metrics, log *slog.Logger) *Handler {
	if registry == nil {
		registry = specs.Default()
	}
	if strategy == nil {
		strategy = scoring.NewDeductionStrategy()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		registry: registry,
		strategy: strategy,
		metrics:  metrics,
		log:      log,
		parsers:  sync.Pool{New: func() any { return manifest.NewParser() }},
	}
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/preflight", h.Preflight)
		r.Post("/score", h.Score)
		r.Post("/print-ready", h.PrintReady)
		r.Post("/feedback", h.Feedback)
		r.Get("/specs", h.ListSpecs)
		r.Get("/specs/{productType}", h.GetSpec)
		r.Get("/grades/{score}", h.GetGrade)
	})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Preflight runs the deduction model.
func (h *Handler) Preflight(w http.ResponseWriter, r *http.Request) {
	m, productType, ok := h.decode(w, r)
	if !ok {
		return
	}
	result := scoring.ValidateAgainst(m.Metadata, h.registry.Get(productType))
	result.ProductType = productType
	h.metrics.ObserveAssessment(scoring.StrategyDeduction, result.Score, result.IsValid)
	writeJSON(w, http.StatusOK, result)
}

type scoreResponse struct {
	ProductType string                  `json:"productType"`
	Preflight   scoring.PreflightResult `json:"preflight"`
	Detailed    scoring.DetailedScore   `json:"detailed"`
}

// Score returns the weighted-factor breakdown alongside the preflight result
// it was computed from.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	m, productType, ok := h.decode(w, r)
	if !ok {
		return
	}
	spec := h.registry.Get(productType)
	result := scoring.ValidateAgainst(m.Metadata, spec)
	result.ProductType = productType
	detailed := scoring.CalculateDetailedScore(result, spec)
	h.metrics.ObserveAssessment(scoring.StrategyWeighted, detailed.Overall, detailed.ReadyToPrint)
	writeJSON(w, http.StatusOK, scoreResponse{ProductType: productType, Preflight: result, Detailed: detailed})
}

// PrintReady runs the discrete points model and its named checks.
func (h *Handler) PrintReady(w http.ResponseWriter, r *http.Request) {
	m, _, ok := h.decode(w, r)
	if !ok {
		return
	}
	result := scoring.GeneratePreFlightResult(artwork.SpecsFromMetadata(m.Metadata))
	h.metrics.ObserveAssessment(scoring.StrategyPrintReady, result.Score.Score, result.CanProceed)
	writeJSON(w, http.StatusOK, result)
}

type feedbackResponse struct {
	ProductType string                      `json:"productType"`
	Assessment  scoring.Assessment          `json:"assessment"`
	Feedback    feedback.PrintReadyFeedback `json:"feedback"`
}

// Feedback assesses with ?strategy= (or the server default) and returns the
// customer-facing summary.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	strategy := h.strategy
	if name := r.URL.Query().Get("strategy"); name != "" {
		s, err := scoring.StrategyByName(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		strategy = s
	}

	m, productType, ok := h.decode(w, r)
	if !ok {
		return
	}
	a := strategy.Assess(m.Metadata, h.registry.Get(productType))
	h.metrics.ObserveAssessment(a.Strategy, a.Score, a.ReadyToPrint)
	writeJSON(w, http.StatusOK, feedbackResponse{
		ProductType: productType,
		Assessment:  a,
		Feedback:    feedback.FromAssessment(a),
	})
}

// ListSpecs returns every product specification keyed by product type.
func (h *Handler) ListSpecs(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]specs.PrintSpecification)
	for _, name := range h.registry.Names() {
		out[name] = h.registry.Get(name)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetSpec returns one product specification. Unknown keys are 404 rather
// than the custom fallback.
func (h *Handler) GetSpec(w http.ResponseWriter, r *http.Request) {
	productType := chi.URLParam(r, "productType")
	if !h.registry.Has(productType) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown product type %q", productType))
		return
	}
	writeJSON(w, http.StatusOK, h.registry.Get(productType))
}

type gradeResponse struct {
	Score      int            `json:"score"`
	Grade      scoring.Grade  `json:"grade"`
	ScoreLabel string         `json:"scoreLabel"`
	Status     scoring.Status `json:"status"`
	Tips       []string       `json:"tips"`
}

// GetGrade maps a 0-100 score to its letter grade, label and tips.
func (h *Handler) GetGrade(w http.ResponseWriter, r *http.Request) {
	score, err := strconv.Atoi(chi.URLParam(r, "score"))
	if err != nil || score < 0 || score > 100 {
		writeError(w, http.StatusBadRequest, "score must be an integer between 0 and 100")
		return
	}
	writeJSON(w, http.StatusOK, gradeResponse{
		Score:      score,
		Grade:      scoring.GetScoreGrade(score),
		ScoreLabel: scoring.ScoreLabel(score),
		Status:     scoring.StatusFor(score, false),
		Tips:       scoring.GetScoreTips(score),
	})
}

// decode reads a manifest body and resolves its product type from
// ?product=, then the body's productType, then custom. It writes the error
// response itself and reports whether the caller should continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*manifest.Manifest, string, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, "", false
	}
	if len(body) > MaxBodyBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return nil, "", false
	}

	p := h.parsers.Get().(*manifest.Parser)
	defer h.parsers.Put(p)

	m, err := p.Parse(body, "")
	if err != nil {
		var schemaErr *manifest.SchemaError
		if errors.As(err, &schemaErr) {
			h.log.Debug("manifest rejected", "request_id", RequestIDFrom(r.Context()), "error", err)
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, "", false
	}

	productType := r.URL.Query().Get("product")
	if productType == "" {
		productType = m.ProductType
	}
	return m, h.registry.Resolve(productType), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
