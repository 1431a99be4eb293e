package booking

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zaikaclub/zaika/pkg/enums/bookingstatus"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	lifecycle *Lifecycle
	prep      *PrepAggregator
	logger    apt.Logger
	config    *apt.Config
	tlm       *telemetry.HTTP
}

func NewHandler(lifecycle *Lifecycle, prep *PrepAggregator, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		lifecycle: lifecycle,
		prep:      prep,
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", h.CreateBooking)
		r.Get("/", h.ListBookings)
		r.Get("/{id}", h.GetBooking)
		r.Patch("/{id}", h.PatchBooking)
		r.Delete("/{id}", h.DeleteBooking)
		r.Patch("/{id}/confirm", h.ConfirmBooking)
		r.Patch("/{id}/complete", h.CompleteBooking)
		r.Patch("/{id}/cancel", h.CancelBooking)
		r.Post("/{id}/staff", h.AssignStaff)
		r.Delete("/{id}/staff/{staffID}", h.UnassignStaff)
	})
	r.Get("/preparation-report", h.PreparationReport)
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateBooking")
	defer finish()

	log := h.log(r)

	var req CreateBookingRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	res, err := h.lifecycle.Create(r.Context(), req)
	if err != nil {
		h.respondDomainError(w, log, err, "Could not create booking")
		return
	}

	links := apt.RESTfulLinksFor(res.Booking)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, res.Booking, links...)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetBooking")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log, "id")
	if !ok {
		return
	}

	b, err := h.lifecycle.Get(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, log, err, "Could not retrieve booking")
		return
	}

	links := apt.RESTfulLinksFor(b)
	apt.RespondSuccess(w, b, links...)
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListBookings")
	defer finish()

	log := h.log(r)
	q := r.URL.Query()

	filter := Filter{Query: q.Get("q")}

	if status := q.Get("status"); status != "" {
		if bookingstatus.ByName(status) == nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter.Status = status
	}
	if from := q.Get("date_from"); from != "" {
		day, err := ParseEventDate(from)
		if err != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid date_from, expected YYYY-MM-DD")
			return
		}
		filter.DateFrom = day
	}
	if to := q.Get("date_to"); to != "" {
		day, err := ParseEventDate(to)
		if err != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid date_to, expected YYYY-MM-DD")
			return
		}
		filter.DateTo = day
	}

	bookings, err := h.lifecycle.List(r.Context(), filter)
	if err != nil {
		log.Error("error retrieving bookings", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve bookings")
		return
	}

	apt.RespondCollection(w, bookings, "booking")
}

func (h *Handler) PatchBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PatchBooking")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log, "id")
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	res, err := h.lifecycle.Patch(r.Context(), id, req)
	if err != nil {
		h.respondDomainError(w, log, err, "Could not update booking")
		return
	}

	links := apt.RESTfulLinksFor(res.Booking)
	apt.RespondSuccess(w, res.Booking, links...)
}

func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteBooking")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log, "id")
	if !ok {
		return
	}

	if _, err := h.lifecycle.Delete(r.Context(), id); err != nil {
		h.respondDomainError(w, log, err, "Could not delete booking")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmBooking")
	defer finish()
	h.transition(w, r, bookingstatus.Statuses.Confirmed.Code())
}

func (h *Handler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CompleteBooking")
	defer finish()
	h.transition(w, r, bookingstatus.Statuses.Completed.Code())
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelBooking")
	defer finish()
	h.transition(w, r, bookingstatus.Statuses.Cancelled.Code())
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, to string) {
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log, "id")
	if !ok {
		return
	}

	force := r.URL.Query().Get("force") == "true"

	res, err := h.lifecycle.Transition(r.Context(), id, to, force)
	if err != nil {
		h.respondDomainError(w, log, err, "Could not update booking status")
		return
	}

	links := apt.RESTfulLinksFor(res.Booking)
	apt.RespondSuccess(w, res.Booking, links...)
}

func (h *Handler) AssignStaff(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AssignStaff")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log, "id")
	if !ok {
		return
	}

	var req AssignStaffRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	staffIDs := make([]uuid.UUID, 0, len(req.StaffIDs))
	for _, raw := range req.StaffIDs {
		staffID, err := uuid.Parse(raw)
		if err != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid staff_ids format")
			return
		}
		staffIDs = append(staffIDs, staffID)
	}

	res, err := h.lifecycle.AssignStaff(r.Context(), id, staffIDs)
	if err != nil {
		h.respondDomainError(w, log, err, "Could not assign staff")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"booking":      res.Booking,
		"understaffed": res.Understaffed,
	}, nil)
}

func (h *Handler) UnassignStaff(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UnassignStaff")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log, "id")
	if !ok {
		return
	}
	staffID, ok := h.parseIDParam(w, r, log, "staffID")
	if !ok {
		return
	}

	res, err := h.lifecycle.UnassignStaff(r.Context(), id, staffID)
	if err != nil {
		h.respondDomainError(w, log, err, "Could not unassign staff")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"booking":      res.Booking,
		"understaffed": res.Understaffed,
	}, nil)
}

func (h *Handler) PreparationReport(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PreparationReport")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		day, err := ParseEventDate(dateStr)
		if err != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}

		report, err := h.prep.ReportForDate(ctx, day)
		if err != nil {
			log.Error("error building preparation report", "error", err, "date", dateStr)
			apt.RespondError(w, http.StatusInternalServerError, "Could not build preparation report")
			return
		}

		apt.RespondSuccess(w, report)
		return
	}

	days := 0
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			apt.RespondError(w, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = parsed
	}

	reports, err := h.prep.UpcomingReports(ctx, time.Now().UTC().Truncate(24*time.Hour), days)
	if err != nil {
		log.Error("error building upcoming preparation reports", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not build preparation reports")
		return
	}

	apt.RespondCollection(w, reports, "preparation-report")
}

func (h *Handler) respondDomainError(w http.ResponseWriter, log apt.Logger, err error, fallback string) {
	var verrs ValidationErrors
	var transition *InvalidTransitionError
	var duplicate *DuplicateAssignmentError

	switch {
	case errors.As(err, &verrs):
		h.respondValidationErrors(w, verrs)
	case errors.Is(err, ErrNotFound):
		apt.RespondError(w, http.StatusNotFound, "Booking not found")
	case errors.As(err, &transition):
		apt.RespondError(w, http.StatusConflict, transition.Error())
	case errors.As(err, &duplicate):
		apt.RespondError(w, http.StatusConflict, duplicate.Error())
	default:
		log.Error("booking operation failed", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, fallback)
	}
}

func (h *Handler) respondValidationErrors(w http.ResponseWriter, errs ValidationErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "Validation failed",
		"errors": errs,
	})
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger, name string) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, name)
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "param", name, "value", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log apt.Logger, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}

	return true
}
