package handler

import (
	"encoding/json"
	"net/http"

	"slotify/internal/rules/service"
	apperrors "slotify/pkg/errors"
	httputil "slotify/pkg/http"
	"slotify/pkg/logger"
	"slotify/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RuleHandler struct {
	service service.RuleService
	log     *logger.Logger
}

func NewRuleHandler(service service.RuleService, log *logger.Logger) *RuleHandler {
	return &RuleHandler{
		service: service,
		log:     log,
	}
}

func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var rule model.AvailabilityRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &rule); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, rule)
}

func (h *RuleHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rule, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, rule)
}

func (h *RuleHandler) GetByProvider(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := r.URL.Query().Get("provider_id")
	if providerID == "" {
		httputil.WriteError(w, apperrors.InvalidInput("'provider_id' query parameter is required"))
		return
	}

	rules, err := h.service.GetByProvider(r.Context(), providerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, rules)
}

func (h *RuleHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.AvailabilityRuleUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	rule, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, rule)
}

func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RuleHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/rules", h.Create)
	router.GET("/api/v1/rules", h.GetByProvider)
	router.GET("/api/v1/rules/id/:id", h.GetByID)
	router.PATCH("/api/v1/rules/id/:id", h.Update)
	router.DELETE("/api/v1/rules/id/:id", h.Delete)
}
