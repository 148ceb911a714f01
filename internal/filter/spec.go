package filter

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Key names one recognised filter field.
type Key string

const (
	KeyClient              Key = "client"
	KeySoilLevel           Key = "soilLevel"
	KeyRegion              Key = "region"
	KeyMaterial            Key = "material"
	KeySupplier            Key = "supplier"
	KeyProjectType         Key = "projectType"
	KeyStatus              Key = "status"
	KeyEnvironmentalImpact Key = "environmentalImpact"
	KeyContractor          Key = "contractor"
	KeyCountry             Key = "country"
	// KeySearch is the free-text box; it does not alias onto KeyClient.
	KeySearch Key = "search"
)

// All is the value a filter input sends to drop a constraint.
const All = "all"

var keys = []Key{
	KeyClient, KeySoilLevel, KeyRegion, KeyMaterial, KeySupplier, KeyProjectType,
	KeyStatus, KeyEnvironmentalImpact, KeyContractor, KeyCountry, KeySearch,
}

// ErrUnknownKey is returned when a filter names a field the engine cannot match.
var ErrUnknownKey = errors.New("Unknown filter key")

// Keys returns every recognised key.
func Keys() []Key {
	return append([]Key(nil), keys...)
}

// ParseKey validates a raw key.
func ParseKey(s string) (Key, error) {
	for _, k := range keys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, s)
}

// Spec is a sparse set of constraints. A missing key places no constraint on
// its field. Specs are values: With and Without return copies.
type Spec struct {
	values map[Key]string
}

// Parse builds a Spec from raw pairs. Unknown keys are rejected; blank values
// and the "all" sentinel are dropped.
func Parse(raw map[string]string) (Spec, error) {
	s := Spec{values: make(map[Key]string, len(raw))}
	for k, v := range raw {
		key, err := ParseKey(k)
		if err != nil {
			return Spec{}, err
		}
		if v, ok := normalize(v); ok {
			s.values[key] = v
		}
	}
	return s, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(raw map[string]string) Spec {
	s, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return s
}

func normalize(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || v == All {
		return "", false
	}
	return v, true
}

// With returns a copy with key set to value. A blank value or "all" removes the key.
func (s Spec) With(key Key, value string) Spec {
	out := s.clone()
	if v, ok := normalize(value); ok {
		out.values[key] = v
	} else {
		delete(out.values, key)
	}
	return out
}

// Without returns a copy with key removed.
func (s Spec) Without(key Key) Spec {
	out := s.clone()
	delete(out.values, key)
	return out
}

func (s Spec) clone() Spec {
	out := Spec{values: make(map[Key]string, len(s.values)+1)}
	for k, v := range s.values {
		out.values[k] = v
	}
	return out
}

// Get returns the value for key and whether it is constrained.
func (s Spec) Get(key Key) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len is the number of active constraints.
func (s Spec) Len() int { return len(s.values) }

// IsEmpty reports whether the spec matches every record.
func (s Spec) IsEmpty() bool { return len(s.values) == 0 }

// ActiveKeys returns the constrained keys in sorted order.
func (s Spec) ActiveKeys() []Key {
	out := make([]Key, 0, len(s.values))
	for k := range s.values {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Map returns the constraints as plain strings.
func (s Spec) Map() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[string(k)] = v
	}
	return out
}

// Key is a stable digest of the constraints, equal for equal specs.
func (s Spec) Key() string {
	var b strings.Builder
	for _, k := range s.ActiveKeys() {
		b.WriteString(string(k))
		b.WriteByte(0)
		b.WriteString(s.values[k])
		b.WriteByte(0)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Equal reports whether both specs hold the same constraints.
func (s Spec) Equal(o Spec) bool {
	if len(s.values) != len(o.values) {
		return false
	}
	for k, v := range s.values {
		if ov, ok := o.values[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (s Spec) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

func (s *Spec) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
