package handler

import (
	"encoding/json"
	"net/http"

	"slotify/internal/exceptions/service"
	apperrors "slotify/pkg/errors"
	httputil "slotify/pkg/http"
	"slotify/pkg/logger"
	"slotify/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ExceptionHandler struct {
	service service.ExceptionService
	log     *logger.Logger
}

func NewExceptionHandler(service service.ExceptionService, log *logger.Logger) *ExceptionHandler {
	return &ExceptionHandler{
		service: service,
		log:     log,
	}
}

func (h *ExceptionHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var exception model.AvailabilityException
	if err := json.NewDecoder(r.Body).Decode(&exception); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &exception); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, exception)
}

func (h *ExceptionHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	exception, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, exception)
}

// GetByProvider lists a provider's exceptions; with a date parameter it
// returns the single exception for that date.
func (h *ExceptionHandler) GetByProvider(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	providerID := query.Get("provider_id")
	if providerID == "" {
		httputil.WriteError(w, apperrors.InvalidInput("'provider_id' query parameter is required"))
		return
	}

	if date := query.Get("date"); date != "" {
		exception, err := h.service.GetByProviderAndDate(r.Context(), providerID, date)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteSuccess(w, exception)
		return
	}

	exceptions, err := h.service.GetByProvider(r.Context(), providerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, exceptions)
}

func (h *ExceptionHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.AvailabilityExceptionUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	exception, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, exception)
}

func (h *ExceptionHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ExceptionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/exceptions", h.Create)
	router.GET("/api/v1/exceptions", h.GetByProvider)
	router.GET("/api/v1/exceptions/id/:id", h.GetByID)
	router.PATCH("/api/v1/exceptions/id/:id", h.Update)
	router.DELETE("/api/v1/exceptions/id/:id", h.Delete)
}
