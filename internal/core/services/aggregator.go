package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/normalize"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/logging"
)

// MaxPageSize is the server's hard limit for a single list request.
const MaxPageSize = 500

// Filter narrows a society-wide listing. Status and Q are applied after the
// per-building results have been merged.
type Filter struct {
	Q      string
	Status string
	Page   int
	Limit  int
}

// BuildingLister fetches one building's records of a given entity type.
type BuildingLister[T any] func(ctx context.Context, buildingID string, limit int) ([]T, error)

// MatchFunc reports whether an item passes the filter.
type MatchFunc[T any] func(item T, f Filter) bool

// Aggregator resolves a society to its buildings and fans out per building.
type Aggregator struct {
	api     ports.APIClient
	metrics ports.Metrics
	log     *logrus.Entry
}

func NewAggregator(api ports.APIClient, metrics ports.Metrics) *Aggregator {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Aggregator{
		api:     api,
		metrics: metrics,
		log:     logging.For("aggregator"),
	}
}

// BuildingIDs returns the identifiers of every building in the society,
// accepting "_id" or "id" and dropping records without either.
func (a *Aggregator) BuildingIDs(ctx context.Context, societyID string) ([]string, error) {
	raw, err := a.api.Do(ctx, ports.Request{
		Method: http.MethodGet,
		Path:   "building-details/" + url.PathEscape(societyID),
		Route:  "building-details/:societyId",
	})
	if err != nil {
		return nil, fmt.Errorf("list buildings for society %s: %w", societyID, err)
	}

	records := normalize.Records(raw)
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if id := normalize.IDOf(rec); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Aggregate lists entity records across every building of the session's
// society. A failing building contributes no records instead of failing the
// whole call. Records are de-duplicated by key; a later building's record
// replaces an earlier one with the same key but keeps its position.
func Aggregate[T domain.Keyed](
	ctx context.Context,
	a *Aggregator,
	session domain.Session,
	entity string,
	f Filter,
	list BuildingLister[T],
	match MatchFunc[T],
) (domain.PagedResult[T], error) {
	if !session.HasSociety() {
		return domain.PagedResult[T]{}, domain.ErrMissingSociety
	}

	page := f.Page
	if page <= 0 {
		page = 1
	}
	limit := f.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	buildingIDs, err := a.BuildingIDs(ctx, session.SocietyID)
	if err != nil {
		return domain.PagedResult[T]{}, err
	}
	if len(buildingIDs) == 0 {
		return domain.PagedResult[T]{Items: []T{}, Total: 0, Page: page, Limit: limit}, nil
	}

	start := time.Now()
	batches := make([][]T, len(buildingIDs))
	failed := make([]bool, len(buildingIDs))

	var g errgroup.Group
	for i, buildingID := range buildingIDs {
		g.Go(func() error {
			items, err := list(ctx, buildingID, limit)
			if err != nil {
				a.log.WithFields(logrus.Fields{
					"entity":      entity,
					"building_id": buildingID,
				}).WithError(err).Warn("building request failed, continuing without it")
				failed[i] = true
				return nil
			}
			batches[i] = items
			return nil
		})
	}
	_ = g.Wait()

	failures := 0
	for _, bad := range failed {
		if bad {
			failures++
		}
	}
	a.metrics.ObserveFanOut(entity, len(buildingIDs), failures, time.Since(start))

	merged := mergeByKey(batches)

	filtered := make([]T, 0, len(merged))
	for _, item := range merged {
		if match == nil || match(item, f) {
			filtered = append(filtered, item)
		}
	}

	return domain.PagedResult[T]{
		Items: filtered,
		Total: len(filtered),
		Page:  page,
		Limit: limit,
	}, nil
}

func mergeByKey[T domain.Keyed](batches [][]T) []T {
	var merged []T
	position := make(map[string]int)
	for _, batch := range batches {
		for _, item := range batch {
			key := item.Key()
			if key == "" {
				merged = append(merged, item)
				continue
			}
			if i, seen := position[key]; seen {
				merged[i] = item
				continue
			}
			position[key] = len(merged)
			merged = append(merged, item)
		}
	}
	return merged
}

// SearchableMatch applies the status filter and a case-insensitive substring
// match over the entity's search fields.
func SearchableMatch[T domain.Searchable](item T, f Filter) bool {
	if f.Status != "" && item.StatusValue() != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Q))
	if q == "" {
		return true
	}
	for _, text := range item.SearchText() {
		if strings.Contains(strings.ToLower(text), q) {
			return true
		}
	}
	return false
}
