package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUIDSetDropsDuplicates(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	set := NewUUIDSet(a, b, a, b, a)

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains(a))
	assert.True(t, set.Contains(b))
}

func TestUUIDSetAddRemove(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	set := NewUUIDSet(a)

	// Adding an existing member is a no-op
	set = set.Add(a)
	assert.Equal(t, 1, set.Len())

	set = set.Add(b)
	assert.Equal(t, 2, set.Len())

	set = set.Remove(a)
	assert.False(t, set.Contains(a))
	assert.True(t, set.Contains(b))
	assert.Equal(t, 1, set.Len())

	// Removing a non-member is a no-op
	set = set.Remove(uuid.New())
	assert.Equal(t, 1, set.Len())
}

func TestUUIDSetEqual(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	tests := []struct {
		name  string
		left  UUIDSet
		right UUIDSet
		want  bool
	}{
		{
			name:  "same members different order",
			left:  UUIDSet{a, b},
			right: UUIDSet{b, a},
			want:  true,
		},
		{
			name:  "duplicates ignored",
			left:  UUIDSet{a, a, b},
			right: UUIDSet{a, b},
			want:  true,
		},
		{
			name:  "different members",
			left:  UUIDSet{a, b},
			right: UUIDSet{a, c},
			want:  false,
		},
		{
			name:  "different sizes",
			left:  UUIDSet{a},
			right: UUIDSet{a, b},
			want:  false,
		},
		{
			name:  "both empty",
			left:  UUIDSet{},
			right: UUIDSet{},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.left.Equal(tt.right))
		})
	}
}

func TestUUIDSetValue(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	value, err := UUIDSet{a, b}.Value()
	require.NoError(t, err)

	var decoded []string
	require.NoError(t, json.Unmarshal(value.([]byte), &decoded))
	assert.ElementsMatch(t, []string{a.String(), b.String()}, decoded)
}

func TestUUIDSetValueNil(t *testing.T) {
	var set UUIDSet

	value, err := set.Value()
	require.NoError(t, err)

	// Nil set persists as an empty JSON array, not null
	assert.Equal(t, "[]", string(value.([]byte)))
}

func TestUUIDSetScan(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	tests := []struct {
		name  string
		input any
		want  UUIDSet
	}{
		{
			name:  "valid array from bytes",
			input: []byte(`["` + a.String() + `","` + b.String() + `"]`),
			want:  UUIDSet{a, b},
		},
		{
			name:  "valid array from string",
			input: `["` + a.String() + `"]`,
			want:  UUIDSet{a},
		},
		{
			name:  "nil value scans to empty set",
			input: nil,
			want:  UUIDSet{},
		},
		{
			name:  "malformed json scans to empty set",
			input: []byte(`{not json`),
			want:  UUIDSet{},
		},
		{
			name:  "json object scans to empty set",
			input: []byte(`{"a":1}`),
			want:  UUIDSet{},
		},
		{
			name:  "unparseable entries are skipped",
			input: []byte(`["` + a.String() + `","not-a-uuid"]`),
			want:  UUIDSet{a},
		},
		{
			name:  "duplicate entries collapse",
			input: []byte(`["` + a.String() + `","` + a.String() + `"]`),
			want:  UUIDSet{a},
		},
		{
			name:  "unsupported type scans to empty set",
			input: 42,
			want:  UUIDSet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var set UUIDSet
			err := set.Scan(tt.input)

			// Scan never fails by contract
			assert.NoError(t, err)
			assert.True(t, tt.want.Equal(set), "want %v, got %v", tt.want, set)
		})
	}
}

func TestJSONMapScan(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  JSONMap
	}{
		{
			name:  "valid object",
			input: []byte(`{"communication":"4","leadership":"3"}`),
			want:  JSONMap{"communication": "4", "leadership": "3"},
		},
		{
			name:  "nil scans to empty map",
			input: nil,
			want:  JSONMap{},
		},
		{
			name:  "malformed json scans to empty map",
			input: []byte(`not json`),
			want:  JSONMap{},
		},
		{
			name:  "json null scans to empty map",
			input: []byte(`null`),
			want:  JSONMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m JSONMap
			err := m.Scan(tt.input)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestJSONMapSet(t *testing.T) {
	var m JSONMap
	m.Set("key", "value")

	assert.Equal(t, "value", m["key"])
}
