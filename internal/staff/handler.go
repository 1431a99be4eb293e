package staff

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zaikaclub/zaika/internal/audit"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	repo     StaffRepo
	recorder *audit.Recorder
	logger   apt.Logger
	config   *apt.Config
	tlm      *telemetry.HTTP
}

func NewHandler(repo StaffRepo, recorder *audit.Recorder, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		repo:     repo,
		recorder: recorder,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/staff", func(r chi.Router) {
		r.Post("/", h.CreateStaff)
		r.Get("/", h.ListStaff)
		r.Get("/{id}", h.GetStaff)
		r.Put("/{id}", h.UpdateStaff)
		r.Delete("/{id}", h.DeleteStaff)
	})
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

// record appends an audit entry for a staff mutation. The mutation already
// committed, so a failed write is logged and the response proceeds.
func (h *Handler) record(ctx context.Context, log apt.Logger, action string, member *Staff) {
	if h.recorder == nil {
		return
	}
	_, err := h.recorder.Record(ctx, action, audit.EntityStaff, member.ID.String(), map[string]interface{}{
		"name": member.Name,
		"role": member.Role,
	})
	if err != nil {
		log.Error("cannot record audit entry", "error", err, "action", action, "staff_id", member.ID.String())
	}
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateStaff")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	member, ok := h.decodeStaffPayload(w, r, log)
	if !ok {
		return
	}

	if errs := ValidateStaff(member); len(errs) > 0 {
		h.respondValidationErrors(w, errs)
		return
	}

	member.BeforeCreate()

	if err := h.repo.Create(ctx, member); err != nil {
		log.Error("cannot create staff member", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create staff member")
		return
	}

	h.record(ctx, log, audit.ActionStaffCreated, member)

	links := apt.RESTfulLinksFor(member)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, member, links...)
}

func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetStaff")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	member, err := h.repo.Get(ctx, id)
	if err != nil {
		log.Error("error loading staff member", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve staff member")
		return
	}

	if member == nil {
		apt.RespondError(w, http.StatusNotFound, "Staff member not found")
		return
	}

	links := apt.RESTfulLinksFor(member)
	apt.RespondSuccess(w, member, links...)
}

func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListStaff")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	members, err := h.repo.List(ctx)
	if err != nil {
		log.Error("error retrieving staff", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve staff")
		return
	}

	apt.RespondCollection(w, members, "staff")
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateStaff")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	existing, err := h.repo.Get(ctx, id)
	if err != nil || existing == nil {
		apt.RespondError(w, http.StatusNotFound, "Staff member not found")
		return
	}

	member, ok := h.decodeStaffPayload(w, r, log)
	if !ok {
		return
	}

	member.ID = existing.ID
	member.CreatedAt = existing.CreatedAt

	if errs := ValidateStaff(member); len(errs) > 0 {
		h.respondValidationErrors(w, errs)
		return
	}

	member.BeforeUpdate()

	if err := h.repo.Save(ctx, member); err != nil {
		log.Error("cannot update staff member", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not update staff member")
		return
	}

	h.record(ctx, log, audit.ActionStaffUpdated, member)

	links := apt.RESTfulLinksFor(member)
	apt.RespondSuccess(w, member, links...)
}

func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteStaff")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	member, err := h.repo.Get(ctx, id)
	if err != nil {
		log.Error("error loading staff member", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete staff member")
		return
	}
	if member == nil {
		apt.RespondError(w, http.StatusNotFound, "Staff member not found")
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		log.Error("cannot delete staff member", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete staff member")
		return
	}

	h.record(ctx, log, audit.ActionStaffDeleted, member)

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"deleted": id.String(),
	}, nil)
}

func (h *Handler) respondValidationErrors(w http.ResponseWriter, errs []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "Validation failed",
		"errors": errs,
	})
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decodeStaffPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (*Staff, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return nil, false
	}

	var member Staff
	if err := json.Unmarshal(body, &member); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return nil, false
	}

	return &member, true
}
