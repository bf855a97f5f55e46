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

package tui

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
)

var (
	jsonKeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	jsonStringStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	jsonNumberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	jsonConstStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	jsonPunctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// highlightJSON colours JSON for the terminal. Text the lexer cannot
// tokenise is returned unchanged.
func highlightJSON(src string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		return src
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, src)
	if err != nil {
		return src
	}

	var b strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		if strings.TrimSpace(token.Value) == "" {
			b.WriteString(token.Value)
			continue
		}
		b.WriteString(jsonTokenStyle(token.Type).Render(token.Value))
	}
	return b.String()
}

func jsonTokenStyle(tt chroma.TokenType) lipgloss.Style {
	switch {
	case tt == chroma.NameTag:
		return jsonKeyStyle
	case tt.InSubCategory(chroma.LiteralString):
		return jsonStringStyle
	case tt.InSubCategory(chroma.LiteralNumber):
		return jsonNumberStyle
	case tt.InCategory(chroma.Keyword):
		return jsonConstStyle
	case tt == chroma.Punctuation:
		return jsonPunctStyle
	}
	return lipgloss.NewStyle()
}
