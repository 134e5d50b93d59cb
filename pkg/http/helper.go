package http

import (
	"net/http"
	"slotify/pkg/config"
	apperrors "slotify/pkg/errors"
	"strconv"
	"time"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractDate reads a required YYYY-MM-DD query parameter.
func ExtractDate(r *http.Request, param string) (string, error) {
	s := r.URL.Query().Get(param)
	if s == "" {
		return "", apperrors.InvalidInput("missing required parameter: " + param)
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return "", apperrors.InvalidInput("parameter " + param + " must be a YYYY-MM-DD date: " + s)
	}
	return s, nil
}
