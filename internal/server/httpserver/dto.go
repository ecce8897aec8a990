package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/linkfeed/internal/common"
	"github.com/dmitrijs2005/linkfeed/internal/server/feed"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type linkRequest struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty request body", common.ErrValidation)
		}
		return fmt.Errorf("%w: malformed request body: %s", common.ErrValidation, err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func linkID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid link id", common.ErrValidation)
	}
	return id, nil
}

// feedQuery reads filter, skip, take and orderBy from the query string.
// A filter parameter that is present but empty is kept: it matches every
// link. orderBy may repeat and may hold comma-separated terms.
func feedQuery(r *http.Request) (feed.Query, error) {
	values := r.URL.Query()
	var q feed.Query

	if f, ok := values["filter"]; ok && len(f) > 0 {
		filter := f[0]
		q.Filter = &filter
	}

	for _, name := range []string{"skip", "take"} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return feed.Query{}, fmt.Errorf("%w: %s must be an integer", common.ErrValidation, name)
		}
		if name == "skip" {
			q.Skip = &n
		} else {
			q.Take = &n
		}
	}

	for _, v := range values["orderBy"] {
		for _, term := range strings.Split(v, ",") {
			if strings.TrimSpace(term) == "" {
				continue
			}
			q.OrderBy = append(q.OrderBy, feed.ParseOrderBy(term))
		}
	}

	return q, nil
}
