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

package views

import (
	"github.com/google/safehtml"
)

// LandingViewModel contains the data for the landing page
type LandingViewModel struct {
	Title    string
	Subtitle string
	Groups   []CollectionGroup
}

// CollectionGroup is a titled set of collections on the landing page
type CollectionGroup struct {
	Name        string
	Collections []CollectionInfo
}

// CollectionInfo represents metadata about a collection for the landing page
type CollectionInfo struct {
	Name           string
	Title          string
	Description    string
	URL            safehtml.URL
	SourceType     string
	Loaded         bool // RecordCount is only meaningful once loaded
	RecordCount    int
	ColumnCount    int
	CardsAvailable bool
}

// GroupCollections groups infos by group name, keeping first-seen order of
// both groups and collections
func GroupCollections(infos []CollectionInfo, groupOf func(CollectionInfo) string) []CollectionGroup {
	var groups []CollectionGroup
	index := make(map[string]int)
	for _, info := range infos {
		name := groupOf(info)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CollectionGroup{Name: name})
		}
		groups[i].Collections = append(groups[i].Collections, info)
	}
	return groups
}
