package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "string", input: `"a1"`, want: "a1"},
		{name: "integer", input: `11`, want: "11"},
		{name: "large integer", input: `9007199254740993`, want: "9007199254740993"},
		{name: "null", input: `null`, want: ""},
		{name: "bool", input: `true`, wantErr: true},
		{name: "object", input: `{"x":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestBase_KeyAcceptsNumericIdentifiers(t *testing.T) {
	var records []Amenity
	require.NoError(t, json.Unmarshal([]byte(`[{"id":11,"name":"Gym"},{"_id":"a2","name":"Pool"}]`), &records))

	require.Len(t, records, 2)
	assert.Equal(t, "11", records[0].Key())
	assert.Equal(t, "a2", records[1].Key())
}

func TestRef_Unmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantID   string
		wantName string
	}{
		{name: "bare string", input: `"b1"`, wantID: "b1"},
		{name: "bare number", input: `42`, wantID: "42"},
		{name: "expanded", input: `{"_id":"b2","name":"North"}`, wantID: "b2", wantName: "North"},
		{name: "expanded numeric alt id", input: `{"id":5,"firstName":"Ada","lastName":"King"}`, wantID: "5", wantName: "Ada King"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Ref
			require.NoError(t, json.Unmarshal([]byte(tt.input), &r))
			assert.Equal(t, tt.wantID, r.ID)
			assert.Equal(t, tt.wantName, r.Name)
		})
	}
}
