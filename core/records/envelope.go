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

package records

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformedEnvelope is returned when a response body is neither a list
// envelope nor a bare array of objects.
var ErrMalformedEnvelope = errors.New("malformed list envelope")

// Pagination is the backend's paging metadata for one response.
type Pagination struct {
	Page  int
	Limit int
	Total int
	Pages int
}

// Envelope is one decoded list response.
type Envelope struct {
	Records    []Record
	Pagination Pagination
}

// HasMore reports whether a page after requested exists. The page echoed in
// the pagination block is ignored; backends often omit it.
func (e *Envelope) HasMore(requested int) bool {
	p := e.Pagination
	switch {
	case p.Pages > 0:
		return requested < p.Pages
	case p.Total > 0 && p.Limit > 0:
		return requested*p.Limit < p.Total
	}
	return false
}

var unmarshalOptions = protojson.UnmarshalOptions{DiscardUnknown: true}

// DecodeEnvelope parses `{"data": [...], "pagination": {...}}`. A bare JSON
// array is accepted as a single complete page. Elements that are not objects
// make the envelope malformed.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var root structpb.Value
	if err := unmarshalOptions.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	var list *structpb.ListValue
	env := &Envelope{}
	switch k := root.GetKind().(type) {
	case *structpb.Value_ListValue:
		list = k.ListValue
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		d, ok := fields["data"]
		if !ok {
			return nil, fmt.Errorf("%w: missing data", ErrMalformedEnvelope)
		}
		list = d.GetListValue()
		if list == nil {
			return nil, fmt.Errorf("%w: data is not a list", ErrMalformedEnvelope)
		}
		if p := fields["pagination"].GetStructValue(); p != nil {
			env.Pagination = decodePagination(p)
		}
	default:
		return nil, fmt.Errorf("%w: unexpected top-level value", ErrMalformedEnvelope)
	}

	env.Records = make([]Record, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrMalformedEnvelope, i)
		}
		env.Records = append(env.Records, FromStruct(s))
	}
	if env.Pagination.Total == 0 {
		env.Pagination.Total = len(env.Records)
	}
	return env, nil
}

func decodePagination(s *structpb.Struct) Pagination {
	num := func(names ...string) int {
		for _, n := range names {
			if v, ok := s.GetFields()[n]; ok {
				if _, isNum := v.GetKind().(*structpb.Value_NumberValue); isNum {
					return int(v.GetNumberValue())
				}
			}
		}
		return 0
	}
	return Pagination{
		Page:  num("page", "currentPage"),
		Limit: num("limit", "pageSize"),
		Total: num("total", "totalItems"),
		Pages: num("pages", "totalPages"),
	}
}
