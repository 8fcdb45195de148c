package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/liamcoop/churnform/artifact"
	"github.com/liamcoop/churnform/churn"
	"github.com/liamcoop/churnform/form"
	"github.com/liamcoop/churnform/internal/config"
	"github.com/liamcoop/churnform/internal/logger"
	"github.com/liamcoop/churnform/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// kinded is implemented by artifacts loaded from disk
type kinded interface {
	Kind() string
}

// featureNamer is implemented by preprocessors that can name their outputs
type featureNamer interface {
	FeatureNames() []string
}

type Server struct {
	predictor    *form.Predictor
	preprocessor artifact.Preprocessor
	classifier   artifact.Classifier
	metrics      *metrics.Metrics
	pages        *template.Template
	router       *chi.Mux
}

func NewServer(pre artifact.Preprocessor, clf artifact.Classifier, m *metrics.Metrics) (*Server, error) {
	if pre == nil || clf == nil {
		return nil, errors.New("preprocessor and classifier are required")
	}

	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	if m == nil {
		m = metrics.New()
	}

	s := &Server{
		predictor:    form.NewPredictor(pre, clf),
		preprocessor: pre,
		classifier:   clf,
		metrics:      m,
		pages:        pages,
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Form
	r.Get("/", s.handleIndex)
	r.Post("/predict", s.handlePredict)
	r.Get("/features", s.handleFeatures)

	// Operations
	r.Get("/api/v1/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not found", nil)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Prediction tab with default widget values
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, PageData{
		Title:   pageTitle,
		Tab:     tabPredict,
		Widgets: widgetsFor(churn.DefaultRecord()),
	})
}

// Predict button handler
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, PageData{
			Title:   pageTitle,
			Tab:     tabPredict,
			Widgets: widgetsFor(churn.DefaultRecord()),
			Error:   "Could not read the submitted form.",
		})
		return
	}

	submissionID := uuid.NewString()
	page := PageData{
		Title:        pageTitle,
		Tab:          tabPredict,
		SubmissionID: submissionID,
	}

	rec, err := form.RecordFromValues(r.PostForm)
	page.Widgets = widgetsFor(rec)
	if err != nil {
		var fieldErr *form.FieldError
		if errors.As(err, &fieldErr) {
			logger.Warn("rejected form value",
				"submission", submissionID,
				"field", fieldErr.Field,
				"value", fieldErr.Value)
		}
		page.Error = err.Error()
		s.render(w, http.StatusBadRequest, page)
		return
	}

	start := time.Now()
	verdict, err := s.predictor.SubmitPrediction(rec)
	took := time.Since(start)

	if err != nil {
		stage := "unknown"
		var infErr *form.InferenceError
		if errors.As(err, &infErr) {
			stage = infErr.Stage
		}
		s.metrics.ObserveError(stage, took)
		logger.Error("prediction failed",
			"submission", submissionID,
			"request_id", middleware.GetReqID(r.Context()),
			"stage", stage,
			"error", err)

		page.Error = fmt.Sprintf("Prediction failed: %v", err)
		s.render(w, http.StatusInternalServerError, page)
		return
	}

	s.metrics.ObservePrediction(verdict.Label.String(), took)
	logger.Debug("prediction served",
		"submission", submissionID,
		"verdict", verdict.Label.String(),
		"duration", took)

	page.Verdict = &verdict
	s.render(w, http.StatusOK, page)
}

// Feature explanations tab
func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, PageData{
		Title:  pageTitle,
		Tab:    tabFeatures,
		Fields: churn.Fields,
	})
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "healthy",
		Columns: churn.Columns,
	}
	if k, ok := s.preprocessor.(kinded); ok {
		resp.Preprocessor = k.Kind()
	}
	if k, ok := s.classifier.(kinded); ok {
		resp.Classifier = k.Kind()
	}
	if n, ok := s.preprocessor.(featureNamer); ok {
		resp.Features = len(n.FeatureNames())
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) render(w http.ResponseWriter, status int, page PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, "index.html", page); err != nil {
		logger.Error("failed to render page", "tab", page.Tab, "error", err)
	}
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := ErrorResponse{Error: message}
	if err != nil {
		response.Details = err.Error()
	}
	respondJSON(w, status, response)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat, cfg.ErrorSampleRate); err != nil {
		logger.Fatal("invalid logging configuration", "error", err)
	}

	// Artifacts are loaded once, before any request is served
	bundle, err := artifact.Load(artifact.Paths{
		Preprocessor: cfg.PreprocessorPath,
		Classifier:   cfg.ModelPath,
	})
	if err != nil {
		logger.Fatal("failed to load artifacts", "error", err)
	}
	logger.Info("artifacts loaded",
		"preprocessor", cfg.PreprocessorPath,
		"classifier", cfg.ModelPath,
		"kind", bundle.Classifier.Kind(),
		"features", bundle.Preprocessor.OutputWidth())

	m := metrics.New()
	m.SetArtifact("preprocessor", bundle.Preprocessor.Kind())
	m.SetArtifact("classifier", bundle.Classifier.Kind())

	server, err := NewServer(bundle.Preprocessor, bundle.Classifier, m)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("server starting", "addr", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server", "timeout", cfg.ShutdownTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
