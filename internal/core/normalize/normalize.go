// Package normalize turns the API's heterogeneous response envelopes into a
// single tagged shape. Decode is the only place that inspects envelope shape;
// everything downstream works with Payload.
//
// Precedence, first match wins:
//
//  1. not an object or array  -> Empty
//  2. unwrap one level of "data" when present
//  3. "item" is an object     -> Single
//  4. "items" is an array     -> Paged
//  5. object with _id or id   -> Single
//  6. array                   -> Paged
//  7. anything else           -> Empty
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
)

type Kind int

const (
	Empty Kind = iota
	Single
	Paged
)

func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case Paged:
		return "paged"
	default:
		return "empty"
	}
}

// Payload is a decoded response: no records, one record, or a page of records.
type Payload struct {
	Kind    Kind
	records []json.RawMessage

	// Paging metadata, present only when the envelope carried it.
	Total   int
	Page    int
	Limit   int
	HasMeta bool
}

// Records returns the flat record list. It is never nil.
func (p Payload) Records() []json.RawMessage {
	if p.records == nil {
		return []json.RawMessage{}
	}
	return p.records
}

// Decode classifies raw following the fixed precedence above. It never
// recurses and unwraps "data" at most once.
func Decode(raw json.RawMessage) Payload {
	raw = bytes.TrimSpace(raw)
	if !isObject(raw) && !isArray(raw) {
		return Payload{Kind: Empty}
	}

	if isObject(raw) {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return Payload{Kind: Empty}
		}
		if data, ok := obj["data"]; ok && !isNull(data) {
			raw = bytes.TrimSpace(data)
		}
	}

	if isObject(raw) {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return Payload{Kind: Empty}
		}

		if item, ok := obj["item"]; ok && isObject(bytes.TrimSpace(item)) {
			return Payload{Kind: Single, records: []json.RawMessage{item}}
		}

		if items, ok := obj["items"]; ok && isArray(bytes.TrimSpace(items)) {
			var records []json.RawMessage
			if err := json.Unmarshal(items, &records); err != nil {
				return Payload{Kind: Empty}
			}
			p := Payload{Kind: Paged, records: records}
			readMeta(obj, &p)
			return p
		}

		if hasIdentifier(obj) {
			return Payload{Kind: Single, records: []json.RawMessage{raw}}
		}

		return Payload{Kind: Empty}
	}

	if isArray(raw) {
		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			return Payload{Kind: Empty}
		}
		return Payload{Kind: Paged, records: records}
	}

	return Payload{Kind: Empty}
}

// Records is shorthand for Decode(raw).Records().
func Records(raw json.RawMessage) []json.RawMessage {
	return Decode(raw).Records()
}

// One decodes the first record into T. An empty payload yields domain.ErrNotFound.
func One[T any](raw json.RawMessage) (T, error) {
	var out T
	records := Decode(raw).Records()
	if len(records) == 0 {
		return out, domain.ErrNotFound
	}
	if err := json.Unmarshal(records[0], &out); err != nil {
		return out, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}

// Page decodes a list response into a PagedResult. Missing metadata is
// filled from the request: total defaults to the number of items.
func Page[T any](raw json.RawMessage, page, limit int) (domain.PagedResult[T], error) {
	p := Decode(raw)
	items, err := decodeAll[T](p.Records())
	if err != nil {
		return domain.PagedResult[T]{}, err
	}

	result := domain.PagedResult[T]{
		Items: items,
		Total: len(items),
		Page:  page,
		Limit: limit,
	}
	if p.HasMeta {
		if p.Total > 0 {
			result.Total = p.Total
		}
		if p.Page > 0 {
			result.Page = p.Page
		}
		if p.Limit > 0 {
			result.Limit = p.Limit
		}
	}
	if result.Page <= 0 {
		result.Page = 1
	}
	return result, nil
}

// IDOf returns a record's identifier, accepting either "_id" or "id".
func IDOf(record json.RawMessage) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(record, &obj); err != nil {
		return ""
	}
	if id := scalarString(obj["_id"]); id != "" {
		return id
	}
	return scalarString(obj["id"])
}

func decodeAll[T any](records []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, rec := range records {
		var v T
		if err := json.Unmarshal(rec, &v); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func readMeta(obj map[string]json.RawMessage, p *Payload) {
	for key, dst := range map[string]*int{"total": &p.Total, "page": &p.Page, "limit": &p.Limit} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(scalarString(raw)); err == nil {
			*dst = n
			p.HasMeta = true
		}
	}
}

func hasIdentifier(obj map[string]json.RawMessage) bool {
	return scalarString(obj["_id"]) != "" || scalarString(obj["id"]) != ""
}

// scalarString renders a JSON string or number as text; other values give "".
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	return n.String()
}

func isObject(raw []byte) bool { return len(raw) > 0 && raw[0] == '{' }
func isArray(raw []byte) bool  { return len(raw) > 0 && raw[0] == '[' }
func isNull(raw []byte) bool   { return bytes.Equal(bytes.TrimSpace(raw), []byte("null")) }
