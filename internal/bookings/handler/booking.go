package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"demoride/internal/bookings/service"
	"demoride/pkg/httputil"
	"demoride/pkg/logger"
	"demoride/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/:id", h.GetByID)
	router.GET("/api/v1/events/:id/bookings", h.GetByEvent)
	router.GET("/api/v1/sessions/:id/bookings", h.GetBySession)
	router.GET("/api/v1/motorcycles/:id/bookings", h.GetByMotorcycle)

	router.POST("/api/v1/bookings/:id/confirm", h.transition("Confirm", h.service.Confirm))
	router.POST("/api/v1/bookings/:id/ready", h.transition("MarkReady", h.service.MarkReady))
	router.POST("/api/v1/bookings/:id/start", h.transition("Start", h.service.Start))
	router.POST("/api/v1/bookings/:id/complete", h.transition("Complete", h.service.Complete))
	router.POST("/api/v1/bookings/:id/cancel", h.transition("Cancel", h.service.Cancel))
	router.POST("/api/v1/bookings/:id/no-show", h.transition("NoShow", h.service.NoShow))

	router.PATCH("/api/v1/bookings/:id/documents", h.UpdateDocuments)

	router.POST("/api/v1/sessions/:id/start", h.group("StartGroup", h.service.StartGroup))
	router.POST("/api/v1/sessions/:id/complete", h.group("CompleteGroup", h.service.CompleteGroup))
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) GetByEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByEvent", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.GetByEvent(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByEvent", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByEvent", "error", err)
	}
}

func (h *BookingHandler) GetBySession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.GetBySession(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBySession", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBySession", "error", err)
	}
}

func (h *BookingHandler) GetByMotorcycle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.GetByMotorcycle(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByMotorcycle", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByMotorcycle", "error", err)
	}
}

func (h *BookingHandler) UpdateDocuments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.DocumentUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateDocuments", "error", writeErr)
		}
		return
	}

	booking, err := h.service.UpdateDocuments(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateDocuments", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateDocuments", "error", err)
	}
}

// transition adapts a single-booking state change to an HTTP handler. The
// AlreadyTerminal outcome carries HTTP 200 through WriteError, keeping
// retried cancels idempotent at the wire level.
func (h *BookingHandler) transition(
	name string,
	fn func(ctx context.Context, id string) (*model.Booking, error),
) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		booking, err := fn(r.Context(), ps.ByName("id"))
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", name, "error", writeErr)
			}
			return
		}

		if err := httputil.WriteSuccess(w, booking); err != nil {
			h.log.Error("failed to write success response", "handler", name, "error", err)
		}
	}
}

func (h *BookingHandler) group(
	name string,
	fn func(ctx context.Context, sessionID string) (*model.BatchResult, error),
) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		result, err := fn(r.Context(), ps.ByName("id"))
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", name, "error", writeErr)
			}
			return
		}

		if err := httputil.WriteSuccess(w, result); err != nil {
			h.log.Error("failed to write success response", "handler", name, "error", err)
		}
	}
}
