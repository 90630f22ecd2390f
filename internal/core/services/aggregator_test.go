package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/mocks"
)

var societySession = domain.Session{UserID: "u1", Role: domain.RoleManager, SocietyID: "s1"}

// byBuilding answers a list call with the body registered for its buildingId.
func byBuilding(bodies map[string]string, failing ...string) mocks.Responder {
	return func(req ports.Request) (json.RawMessage, error) {
		id := req.Query.Get(buildingParam)
		for _, f := range failing {
			if f == id {
				return nil, &domain.APIError{StatusCode: http.StatusInternalServerError}
			}
		}
		body, ok := bodies[id]
		if !ok {
			body = `{"data":{"items":[]}}`
		}
		return json.RawMessage(body), nil
	}
}

func newAmenities(api ports.APIClient) *SocietyScoped[domain.Amenity] {
	return NewSocietyScoped(NewResource[domain.Amenity](api, "amenities", "amenities"), NewAggregator(api, nil))
}

func TestAggregate_ZeroBuildingsYieldsEmptyPage(t *testing.T) {
	api := mocks.NewMockAPIClient().
		Reply(http.MethodGet, "building-details/s1", `{"data":[]}`)

	got, err := newAmenities(api).ListBySociety(context.Background(), societySession, Filter{})
	require.NoError(t, err)
	assert.Equal(t, domain.PagedResult[domain.Amenity]{Items: []domain.Amenity{}, Total: 0, Page: 1, Limit: 500}, got)
	assert.Equal(t, 1, api.CallCount())
}

func TestAggregate_FailingBuildingIsSkipped(t *testing.T) {
	api := mocks.NewMockAPIClient().
		Reply(http.MethodGet, "building-details/s1", `{"data":[{"_id":"b1"}]}`).
		On(http.MethodGet, "amenities", byBuilding(nil, "b1"))

	got, err := newAmenities(api).ListBySociety(context.Background(), societySession, Filter{})
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.NotNil(t, got.Items)
	assert.Equal(t, 0, got.Total)
}

func TestAggregate_PartialFailureKeepsOtherBuildings(t *testing.T) {
	api := mocks.NewMockAPIClient().
		Reply(http.MethodGet, "building-details/s1", `[{"_id":"b1"},{"id":"b2"},{"name":"no id"}]`).
		On(http.MethodGet, "amenities", byBuilding(map[string]string{
			"b2": `{"data":{"items":[{"_id":"a2","name":"Gym"}],"total":1}}`,
		}, "b1"))

	got, err := newAmenities(api).ListBySociety(context.Background(), societySession, Filter{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "a2", got.Items[0].Key())

	// the record without an identifier is not queried
	assert.Len(t, api.CallsTo(http.MethodGet, "amenities"), 2)
}

func TestAggregate_NumericIdentifiersDoNotDropBuilding(t *testing.T) {
	api := mocks.NewMockAPIClient().
		Reply(http.MethodGet, "building-details/s1", `{"data":[{"id":7}]}`).
		On(http.MethodGet, "amenities", byBuilding(map[string]string{
			"7": `[{"id":11,"name":"Gym"},{"_id":"a2","name":"Pool"}]`,
		}))

	got, err := newAmenities(api).ListBySociety(context.Background(), societySession, Filter{})
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "11", got.Items[0].Key())
	assert.Equal(t, "a2", got.Items[1].Key())
	assert.Equal(t, 2, got.Total)
}

func TestAggregate_OnlyPerBuildingCallsAreBestEffort(t *testing.T) {
	api := mocks.NewMockAPIClient().
		Reply(http.MethodGet, "building-details/s1", `[{"_id":"b1"},{"_id":"b2"}]`).
		On(http.MethodGet, "amenities", byBuilding(nil, "b2"))

	_, err := newAmenities(api).ListBySociety(context.Background(), societySession, Filter{})
	require.NoError(t, err)

	lookups := api.CallsTo(http.MethodGet, "building-details/s1")
	require.Len(t, lookups, 1)
	assert.False(t, lookups[0].BestEffort)

	calls := api.CallsTo(http.MethodGet, "amenities")
	require.Len(t, calls, 2)
	for _, c := range calls {
		assert.True(t, c.BestEffort, "building %s", c.Query.Get(buildingParam))
	}
}

func TestAggregate_DeduplicatesKeepingFirstPositionLastValue(t *testing.T) {
	api := mocks.NewMockAPIClient().
		Reply(http.MethodGet, "building-details/s1", `{"data":[{"_id":"b1"},{"_id":"b2"}]}`).
		On(http.MethodGet, "amenities", byBuilding(map[string]string{
			"b1": `{"data":{"items":[{"_id":"e1","name":"Pool"},{"_id":"e2","name":"Gym"}]}}`,
			"b2": `{"data":{"items":[{"_id":"e1","name":"Pool (renovated)"},{"_id":"e3","name":"Court"}]}}`,
		}))

	got, err := newAmenities(api).ListBySociety(context.Background(), societySession, Filter{})
	require.NoError(t, err)

	keys := make([]string, 0, len(got.Items))
	for _, a := range got.Items {
		keys = append(keys, a.Key())
	}
	assert.Equal(t, []string{"e1", "e2", "e3"}, keys)
	assert.Equal(t, "Pool (renovated)", got.Items[0].Name)
	assert.Equal(t, 3, got.Total)
}

func TestAggregate_AppliesFilters(t *testing.T) {
	bodies := map[string]string{
		"b1": `[{"_id":"a1","name":"Swimming Pool","status":"active"},{"_id":"a2","name":"Gym","status":"inactive"}]`,
		"b2": `[{"_id":"a3","name":"Kids pool","status":"active"},{"_id":"a4","name":"Library","status":"active"}]`,
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "status only", filter: Filter{Status: "active"}, want: []string{"a1", "a3", "a4"}},
		{name: "query is case-insensitive", filter: Filter{Q: "POOL"}, want: []string{"a1", "a3"}},
		{name: "status and query", filter: Filter{Q: "gym", Status: "active"}, want: []string{}},
		{name: "no filter", filter: Filter{}, want: []string{"a1", "a2", "a3", "a4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := mocks.NewMockAPIClient().
				Reply(http.MethodGet, "building-details/s1", `[{"_id":"b1"},{"_id":"b2"}]`).
				On(http.MethodGet, "amenities", byBuilding(bodies))

			got, err := newAmenities(api).ListBySociety(context.Background(), societySession, tt.filter)
			require.NoError(t, err)

			keys := []string{}
			for _, a := range got.Items {
				keys = append(keys, a.Key())
			}
			assert.Equal(t, tt.want, keys)
			assert.Equal(t, len(tt.want), got.Total)
		})
	}
}

func TestAggregate_MissingSocietyMakesNoCalls(t *testing.T) {
	api := mocks.NewMockAPIClient()

	_, err := newAmenities(api).ListBySociety(context.Background(), domain.Session{UserID: "u1"}, Filter{})
	assert.ErrorIs(t, err, domain.ErrMissingSociety)
	assert.Zero(t, api.CallCount())
}

func TestAggregate_BuildingLookupFailurePropagates(t *testing.T) {
	boom := errors.New("connection refused")
	api := mocks.NewMockAPIClient().Fail(http.MethodGet, "building-details/s1", boom)

	_, err := newAmenities(api).ListBySociety(context.Background(), societySession, Filter{})
	assert.ErrorIs(t, err, boom)
}

func TestAggregate_LimitIsCappedPerBuilding(t *testing.T) {
	api := mocks.NewMockAPIClient().
		Reply(http.MethodGet, "building-details/s1", `[{"_id":"b1"}]`).
		On(http.MethodGet, "amenities", byBuilding(nil))

	got, err := newAmenities(api).ListBySociety(context.Background(), societySession, Filter{Page: 3, Limit: 2000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, got.Limit)
	assert.Equal(t, 3, got.Page)

	calls := api.CallsTo(http.MethodGet, "amenities")
	require.Len(t, calls, 1)
	assert.Equal(t, "500", calls[0].Query.Get("limit"))
	assert.Equal(t, "1", calls[0].Query.Get("page"))
}

func TestMergeByKey_KeepsRecordsWithoutKey(t *testing.T) {
	merged := mergeByKey([][]domain.Block{
		{{Name: "draft"}, {Base: domain.Base{ID: "x"}, Name: "old"}},
		{{Name: "draft"}, {Base: domain.Base{AltID: "x"}, Name: "new"}},
	})

	require.Len(t, merged, 3)
	assert.Equal(t, "new", merged[1].Name)
}
