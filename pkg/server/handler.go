package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/pizzalog/eventgen/pkg/config"
	"github.com/pizzalog/eventgen/pkg/export"
	"github.com/pizzalog/eventgen/pkg/logger"
	"github.com/pizzalog/eventgen/pkg/simulation"
)

const MaxBodyBytes = 1 << 20

// DefaultMaxCases caps the generated cases of a single request
const DefaultMaxCases = 10000

type Handler struct {
	catalog  []config.MenuItem
	maxCases int
	logger   *logger.Logger
}

func NewHandler(catalog []config.MenuItem, maxCases int, log *logger.Logger) *Handler {
	if maxCases <= 0 {
		maxCases = DefaultMaxCases
	}
	if log == nil {
		log = logger.NewWithWriter(logger.DefaultConfig(), io.Discard)
	}
	return &Handler{
		catalog:  catalog,
		maxCases: maxCases,
		logger:   log.WithComponent("server"),
	}
}

// NewRouter mounts the handler with request id and panic recovery middleware
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)
	r.Get("/menu", h.ListMenu)
	r.Post("/generate", h.Generate)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"items": h.catalog,
	})
}

// Generate runs one generation. The JSON body overrides the default
// configuration field by field; an empty body generates with defaults.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	log := h.logger.WithRun(runID).WithContext("request_id", middleware.GetReqID(r.Context()))

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := config.Default()
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := cfg.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The multiplier scales the peak share, so the cap applies to generated cases
	if total := simulation.TotalCases(cfg.NumberOfCases, cfg.PeakHourMultiplier); total > h.maxCases {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("request generates %d cases; generated cases must not exceed %d", total, h.maxCases))
		return
	}

	items := h.catalog
	if len(cfg.Menu) > 0 {
		items = cfg.Menu
	}

	sim, err := simulation.NewSimulator(&cfg, items, simulation.WithLogger(log.Logger))
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) || errors.Is(err, simulation.ErrEmptyCatalog) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("cannot create simulator", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not create simulator")
		return
	}

	if err := sim.Run(r.Context()); err != nil {
		log.Warn("generation aborted", "error", err)
		respondError(w, http.StatusServiceUnavailable, "Generation aborted")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Run-Id", runID)
	if format == export.FormatCSV {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.DefaultCSVFile))
	}
	w.WriteHeader(http.StatusOK)

	if err := export.Write(w, format, runID, sim.GetEvents()); err != nil {
		log.Error("cannot write event log", "error", err)
	}
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"error": message})
}
