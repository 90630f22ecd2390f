package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/normalize"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
)

var errEmptyPayload = errors.New("payload is required")

// Resource is a direct passthrough to one REST collection. No retries, no
// caching; upstream failures are returned unchanged.
type Resource[T domain.Keyed] struct {
	api  ports.APIClient
	name string
	path string
}

func NewResource[T domain.Keyed](api ports.APIClient, name, path string) *Resource[T] {
	return &Resource[T]{
		api:  api,
		name: name,
		path: strings.Trim(path, "/"),
	}
}

func (r *Resource[T]) Name() string { return r.name }
func (r *Resource[T]) Path() string { return r.path }

func (r *Resource[T]) List(ctx context.Context, params domain.ListParams) (domain.PagedResult[T], error) {
	return r.list(ctx, params, false)
}

func (r *Resource[T]) list(ctx context.Context, params domain.ListParams, bestEffort bool) (domain.PagedResult[T], error) {
	raw, err := r.api.Do(ctx, ports.Request{
		Method:     http.MethodGet,
		Path:       r.path,
		Route:      r.path,
		Query:      listQuery(params),
		BestEffort: bestEffort,
	})
	if err != nil {
		return domain.PagedResult[T]{}, fmt.Errorf("list %s: %w", r.name, err)
	}
	return normalize.Page[T](raw, params.Page, params.Limit)
}

func (r *Resource[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	if id == "" {
		return zero, domain.ErrInvalidID
	}
	raw, err := r.api.Do(ctx, ports.Request{
		Method: http.MethodGet,
		Path:   r.itemPath(id),
		Route:  r.path + "/:id",
	})
	if err != nil {
		return zero, fmt.Errorf("get %s %s: %w", r.name, id, err)
	}
	return normalize.One[T](raw)
}

// Create validates input and POSTs it. An answer without a record yields the
// zero value and no error.
func (r *Resource[T]) Create(ctx context.Context, input any) (T, error) {
	var zero T
	if err := validateInput(input); err != nil {
		return zero, err
	}
	raw, err := r.api.Do(ctx, ports.Request{
		Method: http.MethodPost,
		Path:   r.path,
		Route:  r.path,
		Body:   input,
	})
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", r.name, err)
	}
	return oneOrZero[T](raw)
}

// Update PUTs a partial payload to path/:id. The identifier travels only in
// the URL; "id" and "_id" are stripped from the body.
func (r *Resource[T]) Update(ctx context.Context, id string, fields map[string]any) (T, error) {
	var zero T
	if id == "" {
		return zero, domain.ErrInvalidID
	}
	raw, err := r.api.Do(ctx, ports.Request{
		Method: http.MethodPut,
		Path:   r.itemPath(id),
		Route:  r.path + "/:id",
		Body:   withoutID(fields),
	})
	if err != nil {
		return zero, fmt.Errorf("update %s %s: %w", r.name, id, err)
	}
	return oneOrZero[T](raw)
}

// Delete removes a record. hard=true is sent only when requested.
func (r *Resource[T]) Delete(ctx context.Context, id string, hard bool) error {
	if id == "" {
		return domain.ErrInvalidID
	}
	var query url.Values
	if hard {
		query = url.Values{"hard": {"true"}}
	}
	_, err := r.api.Do(ctx, ports.Request{
		Method: http.MethodDelete,
		Path:   r.itemPath(id),
		Route:  r.path + "/:id",
		Query:  query,
	})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", r.name, id, err)
	}
	return nil
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func listQuery(p domain.ListParams) url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Q != "" {
		q.Set("q", p.Q)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	for k, v := range p.Extra {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

func withoutID(fields map[string]any) map[string]any {
	body := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "id" || k == "_id" {
			continue
		}
		body[k] = v
	}
	return body
}

func oneOrZero[T any](raw []byte) (T, error) {
	v, err := normalize.One[T](raw)
	if errors.Is(err, domain.ErrNotFound) {
		var zero T
		return zero, nil
	}
	return v, err
}
