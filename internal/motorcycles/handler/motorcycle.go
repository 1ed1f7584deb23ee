package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"demoride/internal/motorcycles/service"
	"demoride/pkg/httputil"
	"demoride/pkg/logger"
	"demoride/pkg/middleware"
	"demoride/pkg/model"
)

type MotorcycleHandler struct {
	service service.MotorcycleService
	log     *logger.Logger
}

func NewMotorcycleHandler(service service.MotorcycleService, log *logger.Logger) *MotorcycleHandler {
	return &MotorcycleHandler{
		service: service,
		log:     log,
	}
}

func (h *MotorcycleHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/motorcycles", h.Create)
	router.GET("/api/v1/motorcycles", h.GetAll)
	router.GET("/api/v1/motorcycles/:id", h.GetByID)
	router.PATCH("/api/v1/motorcycles/:id", h.Update)
	router.DELETE("/api/v1/motorcycles/:id", h.Delete)
	router.PUT("/api/v1/motorcycles/:id/events/:event_id", h.AssignToEvent)
	router.DELETE("/api/v1/motorcycles/:id/events/:event_id", h.UnassignFromEvent)
	router.POST("/api/v1/motorcycles/:id/breakdown", h.ReportBreakdown)
}

func (h *MotorcycleHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var motorcycle model.Motorcycle
	if err := json.NewDecoder(r.Body).Decode(&motorcycle); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &motorcycle); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, motorcycle); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *MotorcycleHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	motorcycle, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, motorcycle); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *MotorcycleHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	motorcycles, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, motorcycles, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *MotorcycleHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.MotorcycleUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *MotorcycleHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *MotorcycleHandler) AssignToEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.AssignToEvent(r.Context(), ps.ByName("id"), ps.ByName("event_id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AssignToEvent", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *MotorcycleHandler) UnassignFromEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.UnassignFromEvent(r.Context(), ps.ByName("id"), ps.ByName("event_id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UnassignFromEvent", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *MotorcycleHandler) ReportBreakdown(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var report model.BreakdownReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "ReportBreakdown", "error", writeErr)
		}
		return
	}

	report.MotorcycleID = ps.ByName("id")
	report.ReportedBy = middleware.StaffID(r.Context())

	result, err := h.service.ReportBreakdown(r.Context(), &report)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ReportBreakdown", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "ReportBreakdown", "error", err)
	}
}
