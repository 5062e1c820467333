// Package models contains domain entities and business models for the campaign and certification engine
package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// UUIDSet is an unordered set of user identifiers persisted as a JSON array
// in a single column. It stands in for a many-to-many join table: assigned
// managers and target users are stored this way.
//
// Decoding is deliberately tolerant: malformed or null stored data scans to
// the empty set instead of failing. The persisted field is advisory, not
// authoritative, and callers must tolerate drift from legacy rows.
type UUIDSet []uuid.UUID

// NewUUIDSet builds a set from the given IDs, dropping duplicates.
func NewUUIDSet(ids ...uuid.UUID) UUIDSet {
	s := make(UUIDSet, 0, len(ids))
	for _, id := range ids {
		s = s.Add(id)
	}
	return s
}

// Add returns the set with id included. No-op if already present.
func (s UUIDSet) Add(id uuid.UUID) UUIDSet {
	if s.Contains(id) {
		return s
	}
	return append(s, id)
}

// Remove returns the set with id excluded.
func (s UUIDSet) Remove(id uuid.UUID) UUIDSet {
	out := make(UUIDSet, 0, len(s))
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Contains reports whether id is a member of the set.
func (s UUIDSet) Contains(id uuid.UUID) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Len returns the number of distinct members.
func (s UUIDSet) Len() int {
	seen := make(map[uuid.UUID]struct{}, len(s))
	for _, v := range s {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Equal compares two sets ignoring order and duplicates.
func (s UUIDSet) Equal(other UUIDSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, v := range s {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// Value implements the driver.Valuer interface for UUIDSet
func (s UUIDSet) Value() (driver.Value, error) {
	if s == nil {
		s = UUIDSet{}
	}
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for UUIDSet. Unparseable input
// yields the empty set by contract.
func (s *UUIDSet) Scan(value any) error {
	*s = UUIDSet{}
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	var raw []string
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return nil
	}

	out := make(UUIDSet, 0, len(raw))
	for _, item := range raw {
		id, err := uuid.Parse(item)
		if err != nil {
			continue
		}
		out = out.Add(id)
	}
	*s = out
	return nil
}

// JSONMap is a string-keyed map persisted as jsonb, used for evaluation
// payloads and certificate metadata. Scanning shares the tolerant contract
// of UUIDSet: bad data becomes an empty map.
type JSONMap map[string]string

// Value implements the driver.Valuer interface for JSONMap
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for JSONMap
func (m *JSONMap) Scan(value any) error {
	*m = JSONMap{}
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	var out JSONMap
	if err := json.Unmarshal(bytes, &out); err != nil {
		return nil
	}
	if out != nil {
		*m = out
	}
	return nil
}

// Set assigns key to value, allocating the map when needed.
func (m *JSONMap) Set(key, value string) {
	if *m == nil {
		*m = JSONMap{}
	}
	(*m)[key] = value
}
