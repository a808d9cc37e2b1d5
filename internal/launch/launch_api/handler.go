package launch_api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"ms-event-setup/internal/logger"
	"ms-event-setup/internal/models"
	"ms-event-setup/internal/utils"

	"github.com/go-chi/chi/v5"
)

// Reader is the read side of the launched-events store. The slug lookup
// serves the public URL stamped into every launch result.
type Reader interface {
	GetLaunchedEvent(ctx context.Context, id string) (*models.LaunchedEvent, error)
	GetLaunchedEventBySlug(ctx context.Context, slug string) (*models.LaunchedEvent, error)
	ListLaunchedEvents(ctx context.Context) ([]models.LaunchedEvent, error)
}

type Handler struct {
	Store  Reader
	Logger *logger.Logger
}

func NewHandler(store Reader, log *logger.Logger) *Handler {
	return &Handler{Store: store, Logger: log}
}

// RegisterRoutes mounts the public launched-event reads. Consumers hit
// /events/{slug} from the QR code; /api/events is the by-ID surface.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events", h.ListEvents)
	r.Get("/events/{slug}", h.GetEventBySlug)
	r.Get("/api/events/{eventId}", h.GetEvent)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Store.ListLaunchedEvents(r.Context())
	if err != nil {
		h.logError("listing launched events", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to list events", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Events retrieved", events))
}

func (h *Handler) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	ev, err := h.Store.GetLaunchedEventBySlug(r.Context(), slug)
	if err != nil {
		h.writeLookupError(w, "slug "+slug, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event retrieved", ev))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventId")

	ev, err := h.Store.GetLaunchedEvent(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, "id "+id, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event retrieved", ev))
}

func (h *Handler) writeLookupError(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", what))
		return
	}
	h.logError("fetching launched event by "+what, err)
	utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch event", err.Error()))
}

func (h *Handler) logError(action string, err error) {
	if h.Logger != nil {
		h.Logger.Error("LAUNCH", fmt.Sprintf("error %s: %v", action, err))
	}
}
