package httpapi

import (
	"net/http"
	"time"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// dateLayout is the wire format for all date parameters.
const dateLayout = "2006-01-02"

// parseAsOf reads the as_of query parameter, defaulting to today.
func parseAsOf(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Now().UTC(), true
	}
	asOf, err := time.Parse(dateLayout, raw)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "as_of must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return asOf, true
}

// parseWindow reads optional from/to query parameters. Zero values
// leave the corresponding bound open.
func parseWindow(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	var from, to time.Time
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = time.Parse(dateLayout, raw); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "from must be YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = time.Parse(dateLayout, raw); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "to must be YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
	}
	return from, to, true
}

// parseRequiredWindow reads mandatory from/to query parameters.
func parseRequiredWindow(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, to, ok := parseWindow(w, r)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if from.IsZero() || to.IsZero() {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "from and to are required (YYYY-MM-DD)")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
