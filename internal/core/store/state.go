// Package store holds per-entity state containers and the effect handlers
// that feed them. An action moves a container to loading, runs one upstream
// call, and lands as either a success or a failure.
package store

import (
	"sync"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
)

type Status string

const (
	StatusIdle     Status = "idle"
	StatusLoading  Status = "loading"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

type ActionKind string

const (
	ActionList   ActionKind = "list"
	ActionGet    ActionKind = "get"
	ActionCreate ActionKind = "create"
	ActionUpdate ActionKind = "update"
	ActionDelete ActionKind = "delete"
)

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type State[T any] struct {
	Items      []T        `json:"items"`
	Selected   *T         `json:"selected,omitempty"`
	Status     Status     `json:"status"`
	Error      string     `json:"error,omitempty"`
	Pagination Pagination `json:"pagination"`
}

// Outcome is what an effect hands back on success. Page is used by list,
// Item by get/create/update, DeletedID by delete.
type Outcome[T any] struct {
	Page      domain.PagedResult[T]
	Item      T
	DeletedID string
}

// Container is the state of one entity collection.
type Container[T domain.Keyed] struct {
	mu    sync.RWMutex
	state State[T]
}

func NewContainer[T domain.Keyed]() *Container[T] {
	return &Container[T]{state: State[T]{Items: []T{}, Status: StatusIdle}}
}

// Snapshot returns a copy that is safe to read while effects keep running.
func (c *Container[T]) Snapshot() State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.state
	s.Items = append(make([]T, 0, len(c.state.Items)), c.state.Items...)
	if c.state.Selected != nil {
		sel := *c.state.Selected
		s.Selected = &sel
	}
	return s
}

// Request marks the container loading and clears the previous error.
func (c *Container[T]) Request() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Status = StatusLoading
	c.state.Error = ""
}

func (c *Container[T]) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Status = StatusFailed
	if err != nil {
		c.state.Error = err.Error()
	}
}

// Succeed applies an outcome: list replaces the collection, create appends,
// delete splices the item out, anything else replaces it in place and selects it.
func (c *Container[T]) Succeed(kind ActionKind, out Outcome[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch kind {
	case ActionList:
		items := out.Page.Items
		if items == nil {
			items = []T{}
		}
		c.state.Items = items
		c.state.Pagination = Pagination{Total: out.Page.Total, Page: out.Page.Page, Limit: out.Page.Limit}

	case ActionCreate:
		item := out.Item
		if item.Key() != "" && !c.replace(item) {
			c.state.Items = append(c.state.Items, item)
			c.state.Pagination.Total++
		}
		c.state.Selected = &item

	case ActionDelete:
		c.remove(out.DeletedID)
		if c.state.Selected != nil && (*c.state.Selected).Key() == out.DeletedID {
			c.state.Selected = nil
		}

	default:
		// get, update and entity-specific transitions such as approve
		item := out.Item
		c.replace(item)
		c.state.Selected = &item
	}

	c.state.Status = StatusComplete
	c.state.Error = ""
}

func (c *Container[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State[T]{Items: []T{}, Status: StatusIdle}
}

func (c *Container[T]) replace(item T) bool {
	key := item.Key()
	if key == "" {
		return false
	}
	for i := range c.state.Items {
		if c.state.Items[i].Key() == key {
			c.state.Items[i] = item
			return true
		}
	}
	return false
}

func (c *Container[T]) remove(id string) {
	if id == "" {
		return
	}
	kept := c.state.Items[:0]
	removed := false
	for _, it := range c.state.Items {
		if it.Key() == id {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	c.state.Items = kept
	if removed && c.state.Pagination.Total > 0 {
		c.state.Pagination.Total--
	}
}
