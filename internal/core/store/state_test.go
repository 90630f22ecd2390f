package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
)

func block(id, name string) domain.Block {
	return domain.Block{Base: domain.Base{ID: domain.ID(id)}, Name: name}
}

func seeded(items ...domain.Block) *Container[domain.Block] {
	c := NewContainer[domain.Block]()
	c.Succeed(ActionList, Outcome[domain.Block]{Page: domain.PagedResult[domain.Block]{
		Items: items,
		Total: len(items),
		Page:  1,
		Limit: 500,
	}})
	return c
}

func keys(items []domain.Block) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Key())
	}
	return out
}

func TestContainer_StartsIdle(t *testing.T) {
	s := NewContainer[domain.Block]().Snapshot()
	assert.Equal(t, StatusIdle, s.Status)
	assert.NotNil(t, s.Items)
	assert.Empty(t, s.Items)
	assert.Nil(t, s.Selected)
}

func TestContainer_Transitions(t *testing.T) {
	tests := []struct {
		name         string
		start        []domain.Block
		apply        func(c *Container[domain.Block])
		wantKeys     []string
		wantTotal    int
		wantSelected string
	}{
		{
			name:  "list replaces the collection",
			start: []domain.Block{block("a", "A")},
			apply: func(c *Container[domain.Block]) {
				c.Succeed(ActionList, Outcome[domain.Block]{Page: domain.PagedResult[domain.Block]{
					Items: []domain.Block{block("b", "B"), block("c", "C")},
					Total: 7, Page: 2, Limit: 2,
				}})
			},
			wantKeys:  []string{"b", "c"},
			wantTotal: 7,
		},
		{
			name:  "create appends and selects",
			start: []domain.Block{block("a", "A")},
			apply: func(c *Container[domain.Block]) {
				c.Succeed(ActionCreate, Outcome[domain.Block]{Item: block("b", "B")})
			},
			wantKeys:     []string{"a", "b"},
			wantTotal:    2,
			wantSelected: "b",
		},
		{
			name:  "create of a known record replaces it",
			start: []domain.Block{block("a", "A")},
			apply: func(c *Container[domain.Block]) {
				c.Succeed(ActionCreate, Outcome[domain.Block]{Item: block("a", "A2")})
			},
			wantKeys:     []string{"a"},
			wantTotal:    1,
			wantSelected: "a",
		},
		{
			name:  "update replaces in place",
			start: []domain.Block{block("a", "A"), block("b", "B")},
			apply: func(c *Container[domain.Block]) {
				c.Succeed(ActionUpdate, Outcome[domain.Block]{Item: block("a", "A2")})
			},
			wantKeys:     []string{"a", "b"},
			wantTotal:    2,
			wantSelected: "a",
		},
		{
			name:  "delete splices out and clears selection",
			start: []domain.Block{block("a", "A"), block("b", "B")},
			apply: func(c *Container[domain.Block]) {
				c.Succeed(ActionGet, Outcome[domain.Block]{Item: block("b", "B")})
				c.Succeed(ActionDelete, Outcome[domain.Block]{DeletedID: "b"})
			},
			wantKeys:  []string{"a"},
			wantTotal: 1,
		},
		{
			name:  "custom transition behaves like update",
			start: []domain.Block{block("a", "A")},
			apply: func(c *Container[domain.Block]) {
				c.Succeed(ActionKind("approve"), Outcome[domain.Block]{Item: block("a", "approved")})
			},
			wantKeys:     []string{"a"},
			wantTotal:    1,
			wantSelected: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := seeded(tt.start...)
			tt.apply(c)

			s := c.Snapshot()
			assert.Equal(t, StatusComplete, s.Status)
			assert.Equal(t, tt.wantKeys, keys(s.Items))
			assert.Equal(t, tt.wantTotal, s.Pagination.Total)
			if tt.wantSelected == "" {
				assert.Nil(t, s.Selected)
			} else {
				require.NotNil(t, s.Selected)
				assert.Equal(t, tt.wantSelected, s.Selected.Key())
			}
		})
	}
}

func TestContainer_RequestAndFail(t *testing.T) {
	c := seeded(block("a", "A"))

	c.Request()
	assert.Equal(t, StatusLoading, c.Snapshot().Status)

	c.Fail(errors.New("upstream returned 500"))
	s := c.Snapshot()
	assert.Equal(t, StatusFailed, s.Status)
	assert.Equal(t, "upstream returned 500", s.Error)
	assert.Equal(t, []string{"a"}, keys(s.Items), "failure keeps the last good data")

	c.Request()
	assert.Empty(t, c.Snapshot().Error)
}

func TestContainer_SnapshotIsACopy(t *testing.T) {
	c := seeded(block("a", "A"))
	s := c.Snapshot()
	s.Items[0].Name = "mutated"

	assert.Equal(t, "A", c.Snapshot().Items[0].Name)
}

func TestContainer_Reset(t *testing.T) {
	c := seeded(block("a", "A"))
	c.Reset()

	s := c.Snapshot()
	assert.Equal(t, StatusIdle, s.Status)
	assert.Empty(t, s.Items)
	assert.Equal(t, Pagination{}, s.Pagination)
}
