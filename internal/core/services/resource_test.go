package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/mocks"
)

func TestResource_UpdateStripsIdentifierFromBody(t *testing.T) {
	api := mocks.NewMockAPIClient().
		Reply(http.MethodPut, "amenities/1", `{"data":{"_id":"1","name":"Pool"}}`)
	res := NewResource[domain.Amenity](api, "amenities", "amenities")

	got, err := res.Update(context.Background(), "1", map[string]any{
		"id":   "1",
		"_id":  "1",
		"name": "Pool",
	})
	require.NoError(t, err)
	assert.Equal(t, "1", got.Key())
	assert.Equal(t, "Pool", got.Name)

	calls := api.CallsTo(http.MethodPut, "amenities/1")
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{"name": "Pool"}, calls[0].Body)
	assert.Equal(t, "amenities/:id", calls[0].Route)
}

func TestResource_Delete(t *testing.T) {
	tests := []struct {
		name      string
		hard      bool
		wantQuery string
	}{
		{name: "soft delete sends no flag", hard: false, wantQuery: ""},
		{name: "hard delete sends hard=true", hard: true, wantQuery: "hard=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := mocks.NewMockAPIClient().
				Reply(http.MethodDelete, "parkings/p1", `{"message":"deleted"}`)
			res := NewResource[domain.Parking](api, "parkings", "parkings")

			require.NoError(t, res.Delete(context.Background(), "p1", tt.hard))

			calls := api.CallsTo(http.MethodDelete, "parkings/p1")
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantQuery, calls[0].Query.Encode())
		})
	}
}

func TestResource_EmptyIDIsRejectedLocally(t *testing.T) {
	api := mocks.NewMockAPIClient()
	res := NewResource[domain.Block](api, "blocks", "blocks")
	ctx := context.Background()

	_, err := res.GetByID(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	_, err = res.Update(ctx, "", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	assert.ErrorIs(t, res.Delete(ctx, "", true), domain.ErrInvalidID)

	assert.Zero(t, api.CallCount())
}

func TestResource_CreateValidatesBeforeCalling(t *testing.T) {
	api := mocks.NewMockAPIClient().
		Reply(http.MethodPost, "blocks", `{"data":{"_id":"b9","name":"Tower A"}}`)
	res := NewResource[domain.Block](api, "blocks", "blocks")

	_, err := res.Create(context.Background(), &domain.BlockInput{Building: "bld1"})
	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Error(), "name")
	assert.Zero(t, api.CallCount())

	got, err := res.Create(context.Background(), &domain.BlockInput{Name: "Tower A", Building: "bld1"})
	require.NoError(t, err)
	assert.Equal(t, "b9", got.Key())
}

func TestResource_CreateWithoutRecordReturnsZeroValue(t *testing.T) {
	api := mocks.NewMockAPIClient().
		Reply(http.MethodPost, "notices", `{"message":"created"}`)
	res := NewResource[domain.Notice](api, "notices", "notices")

	got, err := res.Create(context.Background(), map[string]any{"title": "Water cut"})
	require.NoError(t, err)
	assert.Empty(t, got.Key())
}

func TestResource_ListSendsParamsAndFillsMeta(t *testing.T) {
	api := mocks.NewMockAPIClient().
		Reply(http.MethodGet, "members", `[{"_id":"m1"},{"_id":"m2"}]`)
	res := NewResource[domain.Member](api, "members", "members")

	page, err := res.List(context.Background(), domain.ListParams{
		Page:   2,
		Limit:  10,
		Q:      "ann",
		Status: "active",
		Extra:  map[string]string{"societyId": "s1", "empty": ""},
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)

	calls := api.CallsTo(http.MethodGet, "members")
	require.Len(t, calls, 1)
	assert.Equal(t, "limit=10&page=2&q=ann&societyId=s1&status=active", calls[0].Query.Encode())
}

func TestResource_UpstreamErrorIsWrapped(t *testing.T) {
	upstream := &domain.APIError{StatusCode: http.StatusConflict, Message: "duplicate"}
	api := mocks.NewMockAPIClient().Fail(http.MethodGet, "employees/e1", upstream)
	res := NewResource[domain.Employee](api, "employees", "employees")

	_, err := res.GetByID(context.Background(), "e1")
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}
