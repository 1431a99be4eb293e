package catalog

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
	repo     FoodItemRepo
	bookings ReferenceChecker
	recorder *audit.Recorder
	logger   apt.Logger
	config   *apt.Config
	tlm      *telemetry.HTTP
}

func NewHandler(repo FoodItemRepo, bookings ReferenceChecker, recorder *audit.Recorder, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		repo:     repo,
		bookings: bookings,
		recorder: recorder,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/food-items", func(r chi.Router) {
		r.Post("/", h.CreateFoodItem)
		r.Get("/", h.ListFoodItems)
		r.Get("/{id}", h.GetFoodItem)
		r.Put("/{id}", h.UpdateFoodItem)
		r.Delete("/{id}", h.DeleteFoodItem)
	})
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

// record appends an audit entry for a catalog mutation. The mutation already
// committed, so a failed write is logged and the response proceeds.
func (h *Handler) record(ctx context.Context, log apt.Logger, action string, item *FoodItem) {
	if h.recorder == nil {
		return
	}
	_, err := h.recorder.Record(ctx, action, audit.EntityFoodItem, item.ID.String(), map[string]interface{}{
		"name":     item.Name,
		"category": item.Category,
	})
	if err != nil {
		log.Error("cannot record audit entry", "error", err, "action", action, "food_item_id", item.ID.String())
	}
}

func (h *Handler) CreateFoodItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateFoodItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	item, ok := h.decodeFoodItemPayload(w, r, log)
	if !ok {
		return
	}

	if errs := ValidateFoodItem(item); len(errs) > 0 {
		h.respondValidationErrors(w, errs)
		return
	}

	item.BeforeCreate()

	if err := h.repo.Create(ctx, item); err != nil {
		log.Error("cannot create food item", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create food item")
		return
	}

	h.record(ctx, log, audit.ActionFoodItemCreated, item)

	links := apt.RESTfulLinksFor(item)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, item, links...)
}

func (h *Handler) GetFoodItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetFoodItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, err := h.repo.Get(ctx, id)
	if err != nil {
		log.Error("error loading food item", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve food item")
		return
	}

	if item == nil {
		apt.RespondError(w, http.StatusNotFound, "Food item not found")
		return
	}

	links := apt.RESTfulLinksFor(item)
	apt.RespondSuccess(w, item, links...)
}

func (h *Handler) ListFoodItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListFoodItems")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var items []*FoodItem
	var err error

	if r.URL.Query().Get("active") == "true" {
		items, err = h.repo.ListActive(ctx)
	} else {
		items, err = h.repo.List(ctx)
	}

	if err != nil {
		log.Error("error retrieving food items", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve food items")
		return
	}

	apt.RespondCollection(w, items, "food-item")
}

func (h *Handler) UpdateFoodItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateFoodItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	existing, err := h.repo.Get(ctx, id)
	if err != nil || existing == nil {
		apt.RespondError(w, http.StatusNotFound, "Food item not found")
		return
	}

	item, ok := h.decodeFoodItemPayload(w, r, log)
	if !ok {
		return
	}

	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt

	if errs := ValidateFoodItem(item); len(errs) > 0 {
		h.respondValidationErrors(w, errs)
		return
	}

	item.BeforeUpdate()

	if err := h.repo.Save(ctx, item); err != nil {
		log.Error("cannot update food item", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not update food item")
		return
	}

	h.record(ctx, log, audit.ActionFoodItemUpdated, item)

	links := apt.RESTfulLinksFor(item)
	apt.RespondSuccess(w, item, links...)
}

func (h *Handler) DeleteFoodItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteFoodItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, err := h.repo.Get(ctx, id)
	if err != nil {
		log.Error("error loading food item", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete food item")
		return
	}
	if item == nil {
		apt.RespondError(w, http.StatusNotFound, "Food item not found")
		return
	}

	// Dishes referenced by a booking line stay in the catalog.
	if h.bookings != nil {
		referenced, err := h.bookings.ExistsWithFoodItem(ctx, id)
		if err != nil {
			log.Error("cannot check food item references", "error", err, "id", id.String())
			apt.RespondError(w, http.StatusInternalServerError, "Could not check food item references")
			return
		}
		if referenced {
			apt.RespondError(w, http.StatusConflict, "Food item is referenced by existing bookings")
			return
		}
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		log.Error("cannot delete food item", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete food item")
		return
	}

	h.record(ctx, log, audit.ActionFoodItemDeleted, item)

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

func (h *Handler) decodeFoodItemPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (*FoodItem, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return nil, false
	}

	var item FoodItem
	if err := json.Unmarshal(body, &item); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return nil, false
	}

	return &item, true
}
