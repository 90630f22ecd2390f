package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/services"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/logging"
)

// CRUD is the entity module an EntitySlice drives. services.Resource and
// services.SocietyScoped satisfy it.
type CRUD[T any] interface {
	List(ctx context.Context, params domain.ListParams) (domain.PagedResult[T], error)
	GetByID(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, input any) (T, error)
	Update(ctx context.Context, id string, fields map[string]any) (T, error)
	Delete(ctx context.Context, id string, hard bool) error
}

// SocietyLister lists records across all buildings of the session's society.
type SocietyLister[T any] func(ctx context.Context, session domain.Session, f services.Filter) (domain.PagedResult[T], error)

// Query is a list request as received from the dashboard.
type Query struct {
	Page       int
	Limit      int
	Q          string
	Status     string
	BuildingID string
	Extra      map[string]string
}

// Slice is the entity-agnostic view of an EntitySlice used by HTTP handlers.
type Slice interface {
	Entity() string
	State() any
	List(ctx context.Context, session domain.Session, q Query) (any, error)
	Get(ctx context.Context, session domain.Session, id string) (any, error)
	Create(ctx context.Context, session domain.Session, body json.RawMessage) (any, error)
	Update(ctx context.Context, session domain.Session, id string, fields map[string]any) (any, error)
	Delete(ctx context.Context, session domain.Session, id string, hard bool) error
	Reset()
}

// SliceConfig describes one entity.
type SliceConfig[T domain.Keyed] struct {
	Entity string
	CRUD   CRUD[T]

	// BySociety, when set, serves unfiltered-by-building lists through the
	// society aggregator.
	BySociety SocietyLister[T]

	// SocietyParam adds the selected society as this query parameter on
	// plain list calls.
	SocietyParam string

	// NewInput returns a pointer to the create payload type.
	NewInput func() any

	Recorder ports.ChangeRecorder
	Metrics  ports.Metrics
}

// EntitySlice binds a container, its effects and an entity module.
type EntitySlice[T domain.Keyed] struct {
	cfg       SliceConfig[T]
	container *Container[T]
	effects   *Effects[T]
	log       *logrus.Entry
	now       func() time.Time
}

var _ Slice = (*EntitySlice[domain.Amenity])(nil)

func NewEntitySlice[T domain.Keyed](cfg SliceConfig[T]) *EntitySlice[T] {
	container := NewContainer[T]()
	return &EntitySlice[T]{
		cfg:       cfg,
		container: container,
		effects:   NewEffects(cfg.Entity, container, cfg.Metrics),
		log:       logging.For("store").WithField("entity", cfg.Entity),
		now:       time.Now,
	}
}

func (s *EntitySlice[T]) Entity() string { return s.cfg.Entity }
func (s *EntitySlice[T]) State() any     { return s.container.Snapshot() }
func (s *EntitySlice[T]) Reset()         { s.container.Reset() }

func (s *EntitySlice[T]) Snapshot() State[T] {
	return s.container.Snapshot()
}

func (s *EntitySlice[T]) List(ctx context.Context, session domain.Session, q Query) (any, error) {
	c := s.effects.Run(ctx, ActionList, func(ctx context.Context) (Outcome[T], error) {
		page, err := s.list(ctx, session, q)
		return Outcome[T]{Page: page}, err
	})
	return c.Outcome.Page, c.Err
}

func (s *EntitySlice[T]) list(ctx context.Context, session domain.Session, q Query) (domain.PagedResult[T], error) {
	if s.cfg.BySociety != nil && q.BuildingID == "" {
		return s.cfg.BySociety(ctx, session, services.Filter{
			Q:      q.Q,
			Status: q.Status,
			Page:   q.Page,
			Limit:  q.Limit,
		})
	}

	extra := make(map[string]string, len(q.Extra)+2)
	for k, v := range q.Extra {
		extra[k] = v
	}
	if q.BuildingID != "" {
		extra["buildingId"] = q.BuildingID
	}
	if s.cfg.SocietyParam != "" && session.HasSociety() {
		extra[s.cfg.SocietyParam] = session.SocietyID
	}
	return s.cfg.CRUD.List(ctx, domain.ListParams{
		Page:   q.Page,
		Limit:  q.Limit,
		Q:      q.Q,
		Status: q.Status,
		Extra:  extra,
	})
}

func (s *EntitySlice[T]) Get(ctx context.Context, session domain.Session, id string) (any, error) {
	c := s.effects.Run(ctx, ActionGet, func(ctx context.Context) (Outcome[T], error) {
		item, err := s.cfg.CRUD.GetByID(ctx, id)
		return Outcome[T]{Item: item}, err
	})
	return c.Outcome.Item, c.Err
}

func (s *EntitySlice[T]) Create(ctx context.Context, session domain.Session, body json.RawMessage) (any, error) {
	input, err := s.decodeInput(body)
	if err != nil {
		return nil, err
	}
	c := s.effects.Run(ctx, ActionCreate, func(ctx context.Context) (Outcome[T], error) {
		item, err := s.cfg.CRUD.Create(ctx, input)
		if err == nil {
			s.record(ctx, session, ports.ActionCreated, item.Key(), false)
		}
		return Outcome[T]{Item: item}, err
	})
	return c.Outcome.Item, c.Err
}

func (s *EntitySlice[T]) Update(ctx context.Context, session domain.Session, id string, fields map[string]any) (any, error) {
	item, err := s.Mutate(ctx, session, ActionUpdate, id, func(ctx context.Context) (T, error) {
		return s.cfg.CRUD.Update(ctx, id, fields)
	})
	return item, err
}

func (s *EntitySlice[T]) Delete(ctx context.Context, session domain.Session, id string, hard bool) error {
	c := s.effects.Run(ctx, ActionDelete, func(ctx context.Context) (Outcome[T], error) {
		if err := s.cfg.CRUD.Delete(ctx, id, hard); err != nil {
			return Outcome[T]{}, err
		}
		s.record(ctx, session, ports.ActionDeleted, id, hard)
		return Outcome[T]{DeletedID: id}, nil
	})
	return c.Err
}

// Mutate runs an entity-specific update (approve, mark paid, status change)
// through the update action and records the change.
func (s *EntitySlice[T]) Mutate(
	ctx context.Context,
	session domain.Session,
	kind ActionKind,
	id string,
	call func(ctx context.Context) (T, error),
) (T, error) {
	c := s.effects.Run(ctx, kind, func(ctx context.Context) (Outcome[T], error) {
		item, err := call(ctx)
		if err != nil {
			return Outcome[T]{}, err
		}
		action := ports.ActionUpdated
		if kind == ActionCreate {
			action = ports.ActionCreated
		}
		s.record(ctx, session, action, firstNonEmpty(item.Key(), id), false)
		return Outcome[T]{Item: item}, nil
	})
	return c.Outcome.Item, c.Err
}

func (s *EntitySlice[T]) decodeInput(body json.RawMessage) (any, error) {
	if len(body) == 0 {
		return nil, &domain.ValidationError{Err: fmt.Errorf("empty body")}
	}
	if s.cfg.NewInput == nil {
		var fields map[string]any
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, &domain.ValidationError{Err: err}
		}
		return fields, nil
	}
	input := s.cfg.NewInput()
	if err := json.Unmarshal(body, input); err != nil {
		return nil, &domain.ValidationError{Err: err}
	}
	return input, nil
}

// record stores a change event. Failures are logged; they never fail the
// mutation that already succeeded upstream.
func (s *EntitySlice[T]) record(ctx context.Context, session domain.Session, action ports.ChangeAction, entityID string, hard bool) {
	if s.cfg.Recorder == nil {
		return
	}
	evt := ports.EntityChangedEvent{
		ID:         uuid.NewString(),
		Entity:     s.cfg.Entity,
		EntityID:   entityID,
		Action:     action,
		Hard:       hard,
		SocietyID:  session.SocietyID,
		ActorID:    session.UserID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.cfg.Recorder.RecordChange(ctx, evt); err != nil {
		s.log.WithFields(logrus.Fields{
			"action":    action,
			"entity_id": entityID,
		}).WithError(err).Error("failed to record change")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
