package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/services"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/logging"
)

const societyParam = "societyId"

// Dashboard is one user's set of entity slices.
type Dashboard struct {
	slices map[string]Slice
}

func NewDashboard(catalog *services.Catalog, recorder ports.ChangeRecorder, metrics ports.Metrics) *Dashboard {
	d := &Dashboard{slices: make(map[string]Slice)}

	add(d, SliceConfig[domain.Society]{
		Entity:   "societies",
		CRUD:     catalog.Societies,
		NewInput: func() any { return &domain.SocietyInput{} },
	}, recorder, metrics)

	add(d, SliceConfig[domain.Block]{
		Entity:    "blocks",
		CRUD:      catalog.Blocks,
		BySociety: catalog.Blocks.ListBySociety,
		NewInput:  func() any { return &domain.BlockInput{} },
	}, recorder, metrics)

	add(d, SliceConfig[domain.Amenity]{
		Entity:    "amenities",
		CRUD:      catalog.Amenities,
		BySociety: catalog.Amenities.ListBySociety,
		NewInput:  func() any { return &domain.AmenityInput{} },
	}, recorder, metrics)

	add(d, SliceConfig[domain.Parking]{
		Entity:    "parkings",
		CRUD:      catalog.Parkings,
		BySociety: catalog.Parkings.ListBySociety,
		NewInput:  func() any { return &domain.ParkingInput{} },
	}, recorder, metrics)

	add(d, SliceConfig[domain.Notice]{
		Entity:       "notices",
		CRUD:         catalog.Notices,
		SocietyParam: societyParam,
		NewInput:     func() any { return &domain.NoticeInput{} },
	}, recorder, metrics)

	add(d, SliceConfig[domain.Bill]{
		Entity:       "bills",
		CRUD:         catalog.Bills,
		SocietyParam: societyParam,
		NewInput:     func() any { return &domain.BillInput{} },
	}, recorder, metrics)

	add(d, SliceConfig[domain.Member]{
		Entity:       "members",
		CRUD:         catalog.Members,
		SocietyParam: societyParam,
		NewInput:     func() any { return &domain.MemberInput{} },
	}, recorder, metrics)

	add(d, SliceConfig[domain.CommitteeMember]{
		Entity:       "committee",
		CRUD:         catalog.Committee,
		SocietyParam: societyParam,
		NewInput:     func() any { return &domain.CommitteeMemberInput{} },
	}, recorder, metrics)

	add(d, SliceConfig[domain.Employee]{
		Entity:       "employees",
		CRUD:         catalog.Employees,
		SocietyParam: societyParam,
		NewInput:     func() any { return &domain.EmployeeInput{} },
	}, recorder, metrics)

	add(d, SliceConfig[domain.Complaint]{
		Entity:       "complaints",
		CRUD:         catalog.Complaints,
		SocietyParam: societyParam,
		NewInput:     func() any { return &domain.ComplaintInput{} },
	}, recorder, metrics)

	// Registrations are created through a multipart form, not a JSON body.
	add(d, SliceConfig[domain.Registration]{
		Entity:       "registrations",
		CRUD:         catalog.Registrations,
		SocietyParam: societyParam,
		NewInput:     func() any { return &domain.RegistrationInput{} },
	}, recorder, metrics)

	return d
}

func add[T domain.Keyed](d *Dashboard, cfg SliceConfig[T], recorder ports.ChangeRecorder, metrics ports.Metrics) {
	cfg.Recorder = recorder
	cfg.Metrics = metrics
	d.slices[cfg.Entity] = NewEntitySlice(cfg)
}

func (d *Dashboard) Slice(entity string) (Slice, error) {
	s, ok := d.slices[entity]
	if !ok {
		return nil, domain.ErrUnknownEntity
	}
	return s, nil
}

// Entities lists the registered entity names in sorted order.
func (d *Dashboard) Entities() []string {
	names := make([]string, 0, len(d.slices))
	for name := range d.slices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset returns every slice to idle, used when the selected society changes.
func (d *Dashboard) Reset() {
	for _, s := range d.slices {
		s.Reset()
	}
}

// SliceOf returns the typed slice for entity.
func SliceOf[T domain.Keyed](d *Dashboard, entity string) (*EntitySlice[T], error) {
	s, err := d.Slice(entity)
	if err != nil {
		return nil, err
	}
	typed, ok := s.(*EntitySlice[T])
	if !ok {
		return nil, domain.ErrUnknownEntity
	}
	return typed, nil
}

// Registry keeps one dashboard per user. Dashboards untouched for longer
// than the session TTL are evicted by RunEviction.
type Registry struct {
	mu         sync.Mutex
	dashboards map[string]*registryEntry
	build      func() *Dashboard
	now        func() time.Time
	log        *logrus.Entry
}

type registryEntry struct {
	dashboard *Dashboard
	lastUsed  time.Time
}

func NewRegistry(build func() *Dashboard) *Registry {
	return &Registry{
		dashboards: make(map[string]*registryEntry),
		build:      build,
		now:        time.Now,
		log:        logging.For("store"),
	}
}

func (r *Registry) For(userID string) *Dashboard {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.dashboards[userID]
	if !ok {
		e = &registryEntry{dashboard: r.build()}
		r.dashboards[userID] = e
	}
	e.lastUsed = r.now()
	return e.dashboard
}

// Reset clears a user's dashboard state without dropping it.
func (r *Registry) Reset(userID string) {
	r.mu.Lock()
	e, ok := r.dashboards[userID]
	r.mu.Unlock()
	if ok {
		e.dashboard.Reset()
	}
}

// Drop forgets a user's dashboard entirely.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.dashboards, userID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dashboards)
}

// EvictIdle drops every dashboard not handed out within ttl and returns how
// many were dropped.
func (r *Registry) EvictIdle(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-ttl)
	evicted := 0
	for userID, e := range r.dashboards {
		if e.lastUsed.Before(cutoff) {
			delete(r.dashboards, userID)
			evicted++
		}
	}
	return evicted
}

// RunEviction calls EvictIdle every ttl/4 until ctx is done.
func (r *Registry) RunEviction(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(evictionInterval(ttl))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(ttl); n > 0 {
				r.log.WithFields(logrus.Fields{
					"evicted":   n,
					"remaining": r.Len(),
				}).Info("evicted idle dashboards")
			}
		}
	}
}

func evictionInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}
