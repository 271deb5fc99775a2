package request

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/edvin/mabruk/internal/query"
)

// ParsePagination reads page and pageSize. Missing values take the defaults;
// out-of-range values are clamped. Non-numeric values are an error.
func ParsePagination(r *http.Request) (query.Params, error) {
	page, err := intParam(r, "page", query.DefaultPage)
	if err != nil {
		return query.Params{}, err
	}
	pageSize, err := intParam(r, "pageSize", query.DefaultPageSize)
	if err != nil {
		return query.Params{}, err
	}
	return query.NewParams(page, pageSize), nil
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return v, nil
}

func optionalID(r *http.Request, name string) (*int64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, s)
	}
	return &v, nil
}
