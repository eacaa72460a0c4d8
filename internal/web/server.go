// Package web serves the dashboard over HTTP.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/dyike/SageDesk/internal/prompt"
	"github.com/dyike/SageDesk/internal/trading"
	"github.com/dyike/SageDesk/models"
)

//go:embed templates/*.html
var templateFiles embed.FS

// APIKeyHeader lets API clients supply their own LLM key.
const APIKeyHeader = "X-LLM-API-Key"

// Server is the HTTP dashboard server.
type Server struct {
	router  chi.Router
	session *trading.Session
	log     zerolog.Logger
	tmpl    *template.Template
	timeout time.Duration
}

// APIResponse wraps every JSON reply.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type pageData struct {
	Ticker string
	Error  string
	Report *models.Report
}

// NewServer builds the router around session. timeout bounds one request.
func NewServer(session *trading.Session, log zerolog.Logger, timeout time.Duration) (*Server, error) {
	tmpl, err := template.New("dashboard.html").Funcs(templateFuncs).ParseFS(templateFiles, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		session: session,
		log:     log,
		tmpl:    tmpl,
		timeout: timeout,
	}
	s.router = s.buildRouter()
	return s, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("dashboard listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(s.log))
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Post("/analyze", s.handleAnalyzeForm)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", APIKeyHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
		r.Get("/health", s.handleHealth)
		r.Get("/analyze/{ticker}", s.handleAnalyzeAPI)
	})

	return r
}

// requestLogger tags the request logger with chi's request id and logs the
// outcome of every request.
func requestLogger(next http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			log := zerolog.Ctx(r.Context()).With().Str("request_id", id).Logger()
			r = r.WithContext(log.WithContext(r.Context()))
		}
		access(next).ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]string{"status": "ok"},
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageData{})
}

func (s *Server) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, pageData{Error: "invalid form"})
		return
	}
	ticker := strings.TrimSpace(r.PostFormValue("ticker"))
	page := pageData{Ticker: strings.ToUpper(ticker)}

	report, status, err := s.analyze(r.Context(), ticker, r.PostFormValue("api_key"))
	if err != nil {
		page.Error = err.Error()
		s.render(w, r, status, page)
		return
	}
	page.Report = report
	s.render(w, r, http.StatusOK, page)
}

func (s *Server) handleAnalyzeAPI(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	report, status, err := s.analyze(r.Context(), ticker, r.Header.Get(APIKeyHeader))
	if err != nil {
		writeError(r.Context(), w, status, err.Error())
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, APIResponse{Success: true, Data: report})
}

func (s *Server) analyze(ctx context.Context, ticker, apiKey string) (*models.Report, int, error) {
	session, err := s.session.WithAPIKey(ctx, apiKey)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	report, err := session.Run(ctx, ticker)
	if err != nil {
		if errors.Is(err, models.ErrInvalidSymbol) {
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusInternalServerError, err
	}
	return report, http.StatusOK, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page pageData) {
	var buf strings.Builder
	if err := s.tmpl.Execute(&buf, page); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to render dashboard")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to write JSON response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, w, status, APIResponse{Success: false, Error: msg})
}

var templateFuncs = template.FuncMap{
	"fundamentalKeys": func() []string { return models.FundamentalKeys },
	"indicatorNames":  func() []string { return prompt.IndicatorNames },
	"ratio": func(key string, f models.Fundamentals) string {
		return prompt.FormatRatio(key, f.Ratios[key])
	},
	"indicator": func(name string, set models.IndicatorSet) string {
		return prompt.FormatIndicator(name, set)
	},
	"dataErrors": func(r *models.Report) []string {
		var errs []string
		errs = append(errs, r.Fundamentals.Errors...)
		errs = append(errs, r.News.Errors...)
		return append(errs, r.DataErrors...)
	},
	"panelClass": func(v models.AgentVerdict) string {
		if v.Failed() {
			return "error"
		}
		return strings.ToLower(string(v.Sentiment))
	},
	"lower": func(v any) string { return strings.ToLower(fmt.Sprint(v)) },
}
