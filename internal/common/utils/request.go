// internal/common/utils/request.go
// Path and query parameter helpers

package utils

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/gymmatch/gymmatch-backend/internal/common/errs"
)

// PathID parses a positive integer route variable.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Invalid("invalid %s", name)
	}
	return id, nil
}

// QueryInt parses an optional integer query parameter.
func QueryInt(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.Invalid("invalid %s", name)
	}
	return v, nil
}
