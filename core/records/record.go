/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Manzil Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package records provides the opaque row type shown by the dashboard and
// decoding of the backend's JSON list envelopes.
package records

import (
	"fmt"
	"slices"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Record is one row: a read-only mapping from field name to a JSON value.
// The zero Record has no fields.
type Record struct {
	s *structpb.Struct
}

// New builds a record from Go values. Values must be representable by
// structpb.NewValue (nil, bools, numbers, strings, []any, map[string]any).
func New(fields map[string]any) (Record, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return Record{}, fmt.Errorf("failed to build record: %w", err)
	}
	return Record{s: s}, nil
}

// MustNew is like New but panics on error. It is meant for static data.
func MustNew(fields map[string]any) Record {
	r, err := New(fields)
	if err != nil {
		panic(err)
	}
	return r
}

// FromStruct wraps s without copying.
func FromStruct(s *structpb.Struct) Record {
	return Record{s: s}
}

// Struct returns the underlying message. It must not be modified.
func (r Record) Struct() *structpb.Struct {
	if r.s == nil {
		return &structpb.Struct{}
	}
	return r.s
}

// Value returns the raw value at a dotted path such as "city.name", or nil.
func (r Record) Value(path string) *structpb.Value {
	if r.s == nil || path == "" {
		return nil
	}
	cur := r.s
	parts := strings.Split(path, ".")
	for i, p := range parts {
		v, ok := cur.GetFields()[p]
		if !ok {
			return nil
		}
		if i == len(parts)-1 {
			return v
		}
		cur = v.GetStructValue()
		if cur == nil {
			return nil
		}
	}
	return nil
}

// Get returns the value at a dotted path as a Go value: nil, float64, string,
// bool, []any or map[string]any. Missing fields and JSON null are both nil.
func (r Record) Get(path string) any {
	v := r.Value(path)
	if v == nil {
		return nil
	}
	return v.AsInterface()
}

// String returns the value at path when it is a string, else "".
func (r Record) String(path string) string {
	s, _ := r.Get(path).(string)
	return s
}

// Number returns the value at path when it is a number.
func (r Record) Number(path string) (float64, bool) {
	f, ok := r.Get(path).(float64)
	return f, ok
}

// Bool returns the value at path when it is a boolean, else false.
func (r Record) Bool(path string) bool {
	b, _ := r.Get(path).(bool)
	return b
}

// Has reports whether the top-level path exists, even if null.
func (r Record) Has(path string) bool {
	return r.Value(path) != nil
}

// Fields returns the top-level field names in sorted order.
func (r Record) Fields() []string {
	if r.s == nil {
		return nil
	}
	names := make([]string, 0, len(r.s.GetFields()))
	for k := range r.s.GetFields() {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// JSON encodes the record. With indent set the output is multi-line.
func (r Record) JSON(indent bool) ([]byte, error) {
	opts := protojson.MarshalOptions{}
	if indent {
		opts.Multiline = true
		opts.Indent = "  "
	}
	return opts.Marshal(r.Struct())
}

// Field returns an accessor for a dotted path, for use as a column value.
func Field(path string) func(Record) any {
	return func(r Record) any {
		return r.Get(path)
	}
}

// DiscoverFields returns the union of top-level field names over rows in
// first-seen order. "id" is moved to the front when present.
func DiscoverFields(rows []Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		for _, name := range r.Fields() {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	if i := slices.Index(out, "id"); i > 0 {
		out = slices.Delete(out, i, i+1)
		out = slices.Insert(out, 0, "id")
	}
	return out
}
