package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"demoride/internal/sessions/service"
	apperrors "demoride/pkg/errors"
	"demoride/pkg/httputil"
	"demoride/pkg/logger"
	"demoride/pkg/model"
)

type SessionHandler struct {
	service service.SessionService
	log     *logger.Logger
}

func NewSessionHandler(service service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log,
	}
}

func (h *SessionHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/sessions/:id", h.GetByID)
	router.PATCH("/api/v1/sessions/:id/capacity", h.AdjustCapacity)
	router.GET("/api/v1/events/:id/sessions", h.GetByEvent)
	router.GET("/api/v1/events/:id/day-sheet", h.DaySheet)
}

func (h *SessionHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	session, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, session); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *SessionHandler) GetByEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByEvent", "error", writeErr)
		}
		return
	}

	sessions, total, err := h.service.GetByEvent(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByEvent", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, sessions, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByEvent", "error", err)
	}
}

func (h *SessionHandler) AdjustCapacity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var adjustment model.CapacityAdjustment
	if err := json.NewDecoder(r.Body).Decode(&adjustment); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AdjustCapacity", "error", writeErr)
		}
		return
	}

	session, err := h.service.AdjustCapacity(r.Context(), ps.ByName("id"), &adjustment)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AdjustCapacity", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, session); err != nil {
		h.log.Error("failed to write success response", "handler", "AdjustCapacity", "error", err)
	}
}

// DaySheet serves the on-site check-in view for one calendar day, one row per
// start time with both groups merged.
func (h *SessionHandler) DaySheet(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("date query parameter is required (YYYY-MM-DD)")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DaySheet", "error", writeErr)
		}
		return
	}

	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid date parameter: "+dateStr)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DaySheet", "error", writeErr)
		}
		return
	}

	slots, err := h.service.DaySheet(r.Context(), ps.ByName("id"), day)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DaySheet", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "DaySheet", "error", err)
	}
}
