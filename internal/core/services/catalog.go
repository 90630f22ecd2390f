package services

import (
	"context"
	"time"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
)

// buildingParam is the query parameter scoping a list request to a building.
const buildingParam = "buildingId"

// SocietyScoped lists a building-scoped entity across a whole society.
type SocietyScoped[T domain.Searchable] struct {
	*Resource[T]
	agg *Aggregator
}

func NewSocietyScoped[T domain.Searchable](res *Resource[T], agg *Aggregator) *SocietyScoped[T] {
	return &SocietyScoped[T]{Resource: res, agg: agg}
}

// ListByBuilding lists one building's records, capped at MaxPageSize. The
// aggregation skips a failing building, so the call is best effort.
func (s *SocietyScoped[T]) ListByBuilding(ctx context.Context, buildingID string, limit int) ([]T, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	page, err := s.list(ctx, domain.ListParams{
		Page:  1,
		Limit: limit,
		Extra: map[string]string{buildingParam: buildingID},
	}, true)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *SocietyScoped[T]) ListBySociety(ctx context.Context, session domain.Session, f Filter) (domain.PagedResult[T], error) {
	return Aggregate[T](ctx, s.agg, session, s.Name(), f, s.ListByBuilding, SearchableMatch[T])
}

// Bills adds the payment transition to the bill collection.
type Bills struct {
	*Resource[domain.Bill]
	now func() time.Time
}

func (b *Bills) MarkPaid(ctx context.Context, id string) (domain.Bill, error) {
	return b.Update(ctx, id, map[string]any{
		"status": domain.BillPaid,
		"paidAt": b.now().UTC().Format(time.RFC3339),
	})
}

// Complaints adds the status transition to the complaint collection.
type Complaints struct {
	*Resource[domain.Complaint]
}

func (c *Complaints) UpdateStatus(ctx context.Context, id, status, resolution string) (domain.Complaint, error) {
	if err := validateVar(status, "required,oneof=open in_progress resolved closed"); err != nil {
		return domain.Complaint{}, err
	}
	fields := map[string]any{"status": status}
	if resolution != "" {
		fields["resolution"] = resolution
	}
	return c.Update(ctx, id, fields)
}

// Catalog wires every entity module against one API client.
type Catalog struct {
	Aggregator *Aggregator

	Societies     *Resource[domain.Society]
	Blocks        *SocietyScoped[domain.Block]
	Amenities     *SocietyScoped[domain.Amenity]
	Parkings      *SocietyScoped[domain.Parking]
	Notices       *Resource[domain.Notice]
	Bills         *Bills
	Members       *Resource[domain.Member]
	Committee     *Resource[domain.CommitteeMember]
	Employees     *Resource[domain.Employee]
	Complaints    *Complaints
	Registrations *RegistrationService
}

func NewCatalog(api ports.APIClient, metrics ports.Metrics) *Catalog {
	agg := NewAggregator(api, metrics)
	return &Catalog{
		Aggregator:    agg,
		Societies:     NewResource[domain.Society](api, "societies", "society"),
		Blocks:        NewSocietyScoped(NewResource[domain.Block](api, "blocks", "blocks"), agg),
		Amenities:     NewSocietyScoped(NewResource[domain.Amenity](api, "amenities", "amenities"), agg),
		Parkings:      NewSocietyScoped(NewResource[domain.Parking](api, "parkings", "parkings"), agg),
		Notices:       NewResource[domain.Notice](api, "notices", "notices"),
		Bills:         &Bills{Resource: NewResource[domain.Bill](api, "bills", "manager/bills"), now: time.Now},
		Members:       NewResource[domain.Member](api, "members", "members"),
		Committee:     NewResource[domain.CommitteeMember](api, "committee", "committee"),
		Employees:     NewResource[domain.Employee](api, "employees", "employees"),
		Complaints:    &Complaints{Resource: NewResource[domain.Complaint](api, "complaints", "manager/complaints")},
		Registrations: NewRegistrationService(api),
	}
}
