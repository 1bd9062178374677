package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// ParseJSON decodes the request body into dest.
func ParseJSON(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// ParseJSONOrError decodes the request body into dest, writing a 400 and
// returning false when the body is not valid JSON.
func ParseJSONOrError(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := ParseJSON(r, dest); err != nil {
		WriteBadRequest(w, err.Error())
		return false
	}
	return true
}

// ParsePathString returns the named mux path variable, which must be
// non-empty.
func ParsePathString(r *http.Request, key string) (string, error) {
	str := mux.Vars(r)[key]
	if str == "" {
		return "", fmt.Errorf("missing path parameter: %s", key)
	}
	return str, nil
}

// ParsePathStringOrError is ParsePathString with a 400 on failure.
func ParsePathStringOrError(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	val, err := ParsePathString(r, key)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return "", false
	}
	return val, true
}

// ParseQueryInt returns the named query parameter as an int, or defaultVal
// when absent.
func ParseQueryInt(r *http.Request, key string, defaultVal int) (int, error) {
	str := r.URL.Query().Get(key)
	if str == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for query param %s: %s", key, str)
	}
	return val, nil
}

// ParseQueryString returns the named query parameter, or defaultVal when
// absent.
func ParseQueryString(r *http.Request, key string, defaultVal string) string {
	if val := r.URL.Query().Get(key); val != "" {
		return val
	}
	return defaultVal
}

// Pagination holds the limit and offset parsed from a list request.
type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset query parameters, applying the
// default and clamping limit to maxLimit. Zero or negative values are
// rejected rather than silently corrected.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) (Pagination, error) {
	limit, err := ParseQueryInt(r, "limit", defaultLimit)
	if err != nil {
		return Pagination{}, err
	}
	offset, err := ParseQueryInt(r, "offset", 0)
	if err != nil {
		return Pagination{}, err
	}
	if limit <= 0 || offset < 0 {
		return Pagination{}, fmt.Errorf("limit must be positive and offset non-negative")
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Limit: limit, Offset: offset}, nil
}
