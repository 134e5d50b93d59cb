package availability

import (
	"net/http"
	"strconv"
	"time"

	"slotify/pkg/config"
	apperrors "slotify/pkg/errors"
	httputil "slotify/pkg/http"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	generator *Generator
	cfg       *config.Config
}

func NewHandler(generator *Generator, cfg *config.Config) *Handler {
	return &Handler{
		generator: generator,
		cfg:       cfg,
	}
}

// Slots returns the free slots for a provider on one date.
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := r.URL.Query().Get("provider_id")
	if providerID == "" {
		httputil.WriteError(w, apperrors.InvalidInput("'provider_id' query parameter is required"))
		return
	}

	date, err := httputil.ExtractDate(r, "date")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	slots, err := h.generator.AvailableSlots(r.Context(), providerID, date)
	if err != nil {
		httputil.WriteError(w, apperrors.Internal("Failed to compute available slots", err))
		return
	}

	httputil.WriteSuccess(w, slots)
}

// Days returns the upcoming dates that still have at least one free slot.
// 'from' defaults to today (UTC); 'days' defaults to and is capped by the
// configured lookahead limit.
func (h *Handler) Days(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	providerID := query.Get("provider_id")
	if providerID == "" {
		httputil.WriteError(w, apperrors.InvalidInput("'provider_id' query parameter is required"))
		return
	}

	from := query.Get("from")
	if from == "" {
		from = time.Now().UTC().Format(time.DateOnly)
	} else {
		var err error
		from, err = httputil.ExtractDate(r, "from")
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	days := h.cfg.DaysAheadLimit
	if s := query.Get("days"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			httputil.WriteError(w, apperrors.InvalidInput("'days' must be a positive integer"))
			return
		}
		if v < days {
			days = v
		}
	}

	available, err := h.generator.AvailableDays(r.Context(), providerID, from, days)
	if err != nil {
		httputil.WriteError(w, apperrors.Internal("Failed to compute available days", err))
		return
	}

	httputil.WriteSuccess(w, available)
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability/slots", h.Slots)
	router.GET("/api/v1/availability/days", h.Days)
}
