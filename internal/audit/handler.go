package audit

import (
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	recorder *Recorder
	logger   apt.Logger
	config   *apt.Config
	tlm      *telemetry.HTTP
}

func NewHandler(recorder *Recorder, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		recorder: recorder,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/audit-history", h.ListHistory)
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListHistory")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	entityType := r.URL.Query().Get("entity_type")

	entries, err := h.recorder.List(ctx, entityType)
	if err != nil {
		log.Error("cannot list audit history", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve audit history")
		return
	}

	apt.RespondCollection(w, entries, "audit-entry")
}
