package wizard_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ms-event-setup/internal/addons"
	"ms-event-setup/internal/logger"
	"ms-event-setup/internal/models"
	"ms-event-setup/internal/schedule"
	"ms-event-setup/internal/tickets"
	"ms-event-setup/internal/utils"
	"ms-event-setup/internal/wizard"
	"ms-event-setup/internal/wizard/session"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Sessions        session.Store
	Launcher        wizard.Launcher
	Logger          *logger.Logger
	MaxScheduleDays int
}

func NewHandler(sessions session.Store, launcher wizard.Launcher, log *logger.Logger, maxScheduleDays int) *Handler {
	return &Handler{
		Sessions:        sessions,
		Launcher:        launcher,
		Logger:          log,
		MaxScheduleDays: maxScheduleDays,
	}
}

// RegisterRoutes mounts the wizard API under /api/wizard.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/wizard", func(r chi.Router) {
		r.Post("/", h.CreateSession)

		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.DiscardSession)

			r.Post("/slots", h.AddSlot)
			r.Put("/slots/{slotId}", h.UpdateSlot)
			r.Delete("/slots/{slotId}", h.RemoveSlot)
			r.Get("/dates", h.GetDates)

			r.Post("/tickets", h.AddTicket)
			r.Put("/tickets/{ticketId}", h.UpdateTicket)
			r.Delete("/tickets/{ticketId}", h.RemoveTicket)

			r.Post("/addons", h.AddAddon)
			r.Put("/addons/{addonId}", h.UpdateAddon)
			r.Delete("/addons/{addonId}", h.RemoveAddon)
			r.Post("/addons/{addonId}/clear", h.ClearAddon)
			r.Post("/addons/{addonId}/eligibility", h.ToggleEligibility)

			r.Get("/status", h.GetStatus)
			r.Get("/summary", h.GetSummary)
			r.Post("/next", h.Next)
			r.Post("/back", h.Back)
			r.Post("/launch", h.Launch)
		})
	})
}

// statusForError maps the domain's sentinel errors onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, wizard.ErrSlotNotFound),
		errors.Is(err, tickets.ErrTicketNotFound),
		errors.Is(err, addons.ErrAddonNotFound):
		return http.StatusNotFound
	case errors.Is(err, tickets.ErrDuplicateTicketName),
		errors.Is(err, wizard.ErrCannotRemoveLastSlot),
		errors.Is(err, tickets.ErrCannotRemoveLastTicket),
		errors.Is(err, addons.ErrCannotRemoveLastAddon),
		errors.Is(err, wizard.ErrStepIncomplete),
		errors.Is(err, wizard.ErrNotAtConfirmation),
		errors.Is(err, wizard.ErrAlreadyAtFirstStep):
		return http.StatusConflict
	case errors.Is(err, schedule.ErrScheduleRangeTooLarge),
		errors.Is(err, schedule.ErrSlotEndsBeforeStart),
		errors.Is(err, tickets.ErrSaleWindowEndsBeforeStart),
		errors.Is(err, addons.ErrUnknownTicketName):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// withController loads the session, rebuilds its controller and runs op.
// The mutated state is saved back before the response is written, so a
// success response always means the change was persisted.
func (h *Handler) withController(w http.ResponseWriter, r *http.Request, op func(c *wizard.Controller) (int, utils.APIResponse, error)) {
	sessionID := chi.URLParam(r, "sessionId")

	state, err := h.Sessions.Load(r.Context(), sessionID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("session %s: %v", sessionID, err))
		utils.WriteJSON(w, statusForError(err), utils.ErrorResponse("Session not found", err.Error()))
		return
	}

	c := wizard.Restore(*state, h.MaxScheduleDays, h.Launcher, h.Logger)
	status, resp, err := op(c)
	if err != nil {
		utils.WriteJSON(w, statusForError(err), utils.ErrorResponse("Request failed", err.Error()))
		return
	}

	if err := h.Sessions.Save(r.Context(), c.State()); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to save session %s: %v", sessionID, err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to save session", err.Error()))
		return
	}

	utils.WriteJSON(w, status, resp)
}

// ---------------- SESSIONS ----------------

type createSessionRequest struct {
	Mode  models.EventMode    `json:"mode"`
	Event models.EventDetails `json:"event"`
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if req.Mode == "" {
		req.Mode = models.ModePaid
	}
	if req.Mode != models.ModePaid && req.Mode != models.ModeFree {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid event mode", fmt.Sprintf("unknown mode %q", req.Mode)))
		return
	}

	c := wizard.New(req.Mode, req.Event, h.MaxScheduleDays, h.Launcher, h.Logger)
	if err := h.Sessions.Save(r.Context(), c.State()); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to save session", err.Error()))
		return
	}

	h.Logger.LogWizard(c.SessionID(), string(c.CurrentStep()), "session created")
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Wizard session created", c.State()))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	state, err := h.Sessions.Load(r.Context(), sessionID)
	if err != nil {
		utils.WriteJSON(w, statusForError(err), utils.ErrorResponse("Session not found", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Wizard session", state))
}

func (h *Handler) DiscardSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if err := h.Sessions.Delete(r.Context(), sessionID); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to discard session", err.Error()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------- SCHEDULE ----------------

func (h *Handler) AddSlot(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		slot := c.AddSlot()
		return http.StatusCreated, utils.SuccessResponse("Time slot added", slot), nil
	})
}

type slotPatchRequest struct {
	Start    *time.Time `json:"start"`
	End      *time.Time `json:"end"`
	ClearEnd bool       `json:"clear_end"`
	IsLate   *bool      `json:"is_late"`
}

func (h *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	var req slotPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		slot, err := c.UpdateSlot(chi.URLParam(r, "slotId"), wizard.SlotPatch{
			Start:    req.Start,
			End:      req.End,
			ClearEnd: req.ClearEnd,
			IsLate:   req.IsLate,
		})
		if err != nil {
			return 0, utils.APIResponse{}, err
		}
		return http.StatusOK, utils.SuccessResponse("Time slot updated", slot), nil
	})
}

func (h *Handler) RemoveSlot(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		if err := c.RemoveSlot(chi.URLParam(r, "slotId")); err != nil {
			return 0, utils.APIResponse{}, err
		}
		return http.StatusOK, utils.SuccessResponse("Time slot removed", c.Slots()), nil
	})
}

func (h *Handler) GetDates(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		return http.StatusOK, utils.SuccessResponse("Materialized event dates", c.MaterializedDates()), nil
	})
}

// ---------------- TICKETS ----------------

func (h *Handler) AddTicket(w http.ResponseWriter, r *http.Request) {
	var draft models.TicketType
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		ticket, err := c.Tickets.Add(draft)
		if err != nil {
			return 0, utils.APIResponse{}, err
		}
		return http.StatusCreated, utils.SuccessResponse("Ticket type added", ticket), nil
	})
}

type ticketPatchRequest struct {
	Name                *string            `json:"name"`
	Kind                *models.TicketKind `json:"kind"`
	BasePrice           *float64           `json:"base_price"`
	DealDiscountPercent *float64           `json:"deal_discount_percent"`
	Quantity            *int               `json:"quantity"`
	MaxPerOrder         *int               `json:"max_per_order"`
	GroupSize           *int               `json:"group_size"`
	IsVisible           *bool              `json:"is_visible"`
	IsSoldOut           *bool              `json:"is_sold_out"`
	SaleStart           *time.Time         `json:"sale_start"`
	SaleEnd             *time.Time         `json:"sale_end"`
	SelectedDates       []models.Date      `json:"selected_dates"`
}

func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	var req ticketPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		ticket, err := c.Tickets.ApplyPatch(chi.URLParam(r, "ticketId"), tickets.Patch{
			Name:                req.Name,
			Kind:                req.Kind,
			BasePrice:           req.BasePrice,
			DealDiscountPercent: req.DealDiscountPercent,
			Quantity:            req.Quantity,
			MaxPerOrder:         req.MaxPerOrder,
			GroupSize:           req.GroupSize,
			IsVisible:           req.IsVisible,
			IsSoldOut:           req.IsSoldOut,
			SaleStart:           req.SaleStart,
			SaleEnd:             req.SaleEnd,
			SelectedDates:       req.SelectedDates,
		})
		if err != nil {
			return 0, utils.APIResponse{}, err
		}
		return http.StatusOK, utils.SuccessResponse("Ticket type updated", ticket), nil
	})
}

func (h *Handler) RemoveTicket(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		if err := c.Tickets.Remove(chi.URLParam(r, "ticketId")); err != nil {
			return 0, utils.APIResponse{}, err
		}
		return http.StatusOK, utils.SuccessResponse("Ticket type removed", c.Tickets.List()), nil
	})
}

// ---------------- ADDONS ----------------

func (h *Handler) AddAddon(w http.ResponseWriter, r *http.Request) {
	var draft models.Addon
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		addon, err := c.Addons.Add(draft)
		if err != nil {
			return 0, utils.APIResponse{}, err
		}
		return http.StatusCreated, utils.SuccessResponse("Addon added", addon), nil
	})
}

type addonPatchRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	IsVisible   *bool    `json:"is_visible"`
}

func (h *Handler) UpdateAddon(w http.ResponseWriter, r *http.Request) {
	var req addonPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		addon, err := c.Addons.ApplyPatch(chi.URLParam(r, "addonId"), addons.Patch{
			Name:        req.Name,
			Price:       req.Price,
			Description: req.Description,
			IsVisible:   req.IsVisible,
		})
		if err != nil {
			return 0, utils.APIResponse{}, err
		}
		return http.StatusOK, utils.SuccessResponse("Addon updated", addon), nil
	})
}

func (h *Handler) RemoveAddon(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		if err := c.Addons.Remove(chi.URLParam(r, "addonId")); err != nil {
			return 0, utils.APIResponse{}, err
		}
		return http.StatusOK, utils.SuccessResponse("Addon removed", c.Addons.List()), nil
	})
}

func (h *Handler) ClearAddon(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		if err := c.Addons.Clear(chi.URLParam(r, "addonId")); err != nil {
			return 0, utils.APIResponse{}, err
		}
		return http.StatusOK, utils.SuccessResponse("Addon cleared", c.Addons.List()), nil
	})
}

type eligibilityRequest struct {
	TicketName string `json:"ticket_name"`
}

func (h *Handler) ToggleEligibility(w http.ResponseWriter, r *http.Request) {
	var req eligibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		addon, err := c.Addons.ToggleEligibility(chi.URLParam(r, "addonId"), req.TicketName)
		if err != nil {
			return 0, utils.APIResponse{}, err
		}
		return http.StatusOK, utils.SuccessResponse("Addon eligibility updated", addon), nil
	})
}

// ---------------- NAVIGATION ----------------

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		payload := map[string]interface{}{
			"current_step": c.CurrentStep(),
			"steps": []models.StepStatus{
				c.StepStatus(models.StepSchedule),
				c.StepStatus(models.StepTickets),
				c.StepStatus(models.StepAddons),
				c.StepStatus(models.StepConfirmation),
			},
		}
		return http.StatusOK, utils.SuccessResponse("Wizard step status", payload), nil
	})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		return http.StatusOK, utils.SuccessResponse("Confirmation summary", c.Summary()), nil
	})
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		if err := c.Next(); err != nil {
			return 0, utils.APIResponse{}, err
		}
		return http.StatusOK, utils.SuccessResponse("Advanced to next step", map[string]interface{}{
			"current_step": c.CurrentStep(),
		}), nil
	})
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.withController(w, r, func(c *wizard.Controller) (int, utils.APIResponse, error) {
		if err := c.Back(); err != nil {
			return 0, utils.APIResponse{}, err
		}
		return http.StatusOK, utils.SuccessResponse("Navigated to previous step", map[string]interface{}{
			"current_step": c.CurrentStep(),
		}), nil
	})
}

// Launch publishes the event. On success the session is deleted; on a
// retryable failure the session stays at confirmation so the organizer
// can try again; on cancellation the saved state lands back on the
// add-ons step.
func (h *Handler) Launch(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	state, err := h.Sessions.Load(r.Context(), sessionID)
	if err != nil {
		utils.WriteJSON(w, statusForError(err), utils.ErrorResponse("Session not found", err.Error()))
		return
	}

	c := wizard.Restore(*state, h.MaxScheduleDays, h.Launcher, h.Logger)
	result, err := c.Launch(r.Context())
	if err != nil {
		// The request context may already be cancelled when the launch
		// was aborted; the step rollback must still reach the store.
		if saveErr := h.Sessions.Save(context.WithoutCancel(r.Context()), c.State()); saveErr != nil {
			h.Logger.Error("API", fmt.Sprintf("failed to save session %s after launch error: %v", sessionID, saveErr))
		}
		utils.WriteJSON(w, statusForError(err), utils.ErrorResponse("Launch failed", err.Error()))
		return
	}

	if err := h.Sessions.Delete(r.Context(), sessionID); err != nil {
		h.Logger.Warn("API", fmt.Sprintf("failed to delete session %s after launch: %v", sessionID, err))
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Event launched", result))
}
