package handler

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/text/message"

	"shotchart/internal/domain"
	"shotchart/internal/service"
	"shotchart/internal/session"
	"shotchart/internal/view"
)

//go:embed static
var staticFS embed.FS

// Players is the player service as seen by the handlers
type Players interface {
	SearchPlayers(ctx context.Context, query string, limit int) ([]domain.Player, error)
	GetPlayerInfo(ctx context.Context, id int) (domain.Player, error)
	GetPlayerShots(ctx context.Context, id int, season, seasonType string) ([]domain.Shot, error)
	GetPlayerStats(ctx context.Context, id int, season string) (service.PlayerStats, error)
	ResolvePlayer(ctx context.Context, id int, season string) (domain.Player, error)
	AvailableSeasons(ctx context.Context) []string
	ClearPlayerCache(ctx context.Context, id int) (int, error)
	Ready(ctx context.Context) error
	CacheReady(ctx context.Context) error
}

// Config holds handler settings
type Config struct {
	// Debug adds error details to responses and fallback panels.
	Debug         bool
	CORSOrigins   []string
	DefaultSeason string
	Printer       *message.Printer
	Version       string
	Environment   string
}

// Handler serves pages and the JSON API
type Handler struct {
	players  Players
	sessions *session.Manager
	cfg      Config
	now      func() time.Time
}

// New creates a new handler
func New(players Players, sessions *session.Manager, cfg Config) *Handler {
	if cfg.DefaultSeason == "" {
		cfg.DefaultSeason = domain.DefaultSeason
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	return &Handler{
		players:  players,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Routes builds the router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger)
	r.Use(h.Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request", "HX-Target", "HX-Trigger", "HX-Current-URL"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed for this endpoint", nil)
	})

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/health", h.Health)

	// Pages
	r.Group(func(r chi.Router) {
		r.Use(h.sessions.Middleware)
		r.Get("/", h.Index)
		r.Get("/search", h.Search)
		r.Post("/select", h.Select)
		r.Post("/filters", h.Filters)
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Get("/test", h.Test)
		r.Get("/seasons", h.GetSeasons)
		r.With(h.sessions.Middleware).Get("/session", h.GetSession)

		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.Health)
			r.Get("/ready", h.Ready)
			r.Get("/live", h.Live)
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/search", h.SearchPlayers)
			r.Get("/{id}", h.GetPlayer)
			r.Get("/{id}/shots", h.GetPlayerShots)
			r.Get("/{id}/stats", h.GetPlayerStats)
			r.Delete("/{id}/cache", h.ClearPlayerCache)
		})
	})

	return r
}

// deps returns the render dependencies for one request
func (h *Handler) deps(ctx context.Context) view.Deps {
	return view.Deps{
		Shots:   h.players,
		Seasons: h.players.AvailableSeasons(ctx),
		Printer: h.cfg.Printer,
		Debug:   h.cfg.Debug,
	}
}

// ============================================================================
// Response helpers
// ============================================================================

// ErrorBody is the payload of the error envelope
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorResponse is the error envelope
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON", "error", err)
	}
}

// writeError writes the error envelope. cause is only exposed in debug mode.
func (h *Handler) writeError(w http.ResponseWriter, statusCode int, code, message string, cause error) {
	body := ErrorBody{Code: code, Message: message}
	if h.cfg.Debug && cause != nil {
		body.Details = cause.Error()
	}
	h.writeJSON(w, ErrorResponse{Error: body}, statusCode)
}

// writeServiceError maps a service error to a response. Validation errors
// and unknown players keep their own codes; anything else is reported with
// code and message.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	if ve, ok := domain.AsValidation(err); ok {
		h.writeError(w, http.StatusBadRequest, ve.Code, ve.Message, nil)
		return
	}
	if errors.Is(err, domain.ErrPlayerNotFound) {
		h.writeError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", "Player not found", nil)
		return
	}
	slog.ErrorContext(r.Context(), message, "error", err, "path", r.URL.Path)
	h.writeError(w, http.StatusInternalServerError, code, message, err)
}

// render writes a component with a status code
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}

// isHTMX reports whether the request was issued by htmx
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// playerID parses the {id} path parameter
func playerID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, &domain.ValidationError{Code: domain.CodeInvalidPlayerID, Message: "Player ID must be a positive integer"}
	}
	if err := domain.ValidatePlayerID(id); err != nil {
		return 0, err
	}
	return id, nil
}
