package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Keyed is implemented by every record the gateway handles.
type Keyed interface {
	Key() string
}

// Searchable exposes the fields used by client-side filtering.
type Searchable interface {
	Keyed
	StatusValue() string
	SearchText() []string
}

// ID is a record identifier. The API sends it as a string, a few legacy
// endpoints as a number; both decode to the same text.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Base carries the identifier and audit fields shared by all entities.
// The upstream API names the identifier "_id"; some endpoints answer with "id".
type Base struct {
	ID        ID         `json:"_id,omitempty"`
	AltID     ID         `json:"id,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	CreatedBy *Ref       `json:"createdBy,omitempty"`
	UpdatedBy *Ref       `json:"updatedBy,omitempty"`
}

func (b Base) Key() string {
	if b.ID != "" {
		return string(b.ID)
	}
	return string(b.AltID)
}

// Ref is a reference to another record. The API sends either the bare
// identifier or the expanded sub-object; both decode into a Ref.
type Ref struct {
	ID   string
	Name string
	Raw  json.RawMessage
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] != '{' {
		var id ID
		if err := id.UnmarshalJSON(data); err != nil {
			return err
		}
		r.ID = string(id)
		return nil
	}

	var obj struct {
		ID        ID     `json:"_id"`
		AltID     ID     `json:"id"`
		Name      string `json:"name"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	r.ID = string(obj.ID)
	if r.ID == "" {
		r.ID = string(obj.AltID)
	}
	r.Name = obj.Name
	if r.Name == "" {
		r.Name = strings.TrimSpace(obj.FirstName + " " + obj.LastName)
	}
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	return json.Marshal(r.ID)
}

// RefID returns the referenced identifier, or "" for a nil ref.
func RefID(r *Ref) string {
	if r == nil {
		return ""
	}
	return r.ID
}

// PagedResult is the {items, total, page, limit} shape of every list endpoint.
type PagedResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ListParams are the query parameters accepted by list endpoints.
type ListParams struct {
	Page   int
	Limit  int
	Q      string
	Status string
	Extra  map[string]string
}
