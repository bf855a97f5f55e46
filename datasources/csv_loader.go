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

package datasources

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/manzil/manzil/core/records"
)

// CsvLoader implements Loader for CSV files with a header row.
// Column types are inferred from the data: integer and float columns become
// numbers, true/false columns become booleans, everything else stays text.
// Empty cells are null.
//
// Required options:
//   - path: Path to the CSV file
//
// Optional options:
//   - delimiter: Field delimiter (default: ",")
type CsvLoader struct{}

// NewCsvLoader creates a new CSV loader.
func NewCsvLoader() *CsvLoader {
	return &CsvLoader{}
}

// SourceType returns "csv".
func (l *CsvLoader) SourceType() string {
	return "csv"
}

// Load reads the whole file.
func (l *CsvLoader) Load(ctx context.Context, options map[string]string) ([]records.Record, error) {
	path, err := requireOption(options, "path")
	if err != nil {
		return nil, err
	}

	comma := ','
	if d := options["delimiter"]; d != "" {
		r, size := utf8.DecodeRuneInString(d)
		if size != len(d) {
			return nil, fmt.Errorf("delimiter must be a single character, got %q", d)
		}
		comma = r
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadCSV(f, comma)
}

// ReadCSV parses CSV with a header row into records, inferring column types
// from the first rows.
func ReadCSV(r io.Reader, comma rune) ([]records.Record, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	header := all[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	data := all[1:]
	types := inferColumnTypes(len(header), data)

	out := make([]records.Record, 0, len(data))
	for rowIdx, row := range data {
		fields := make(map[string]any, len(header))
		for i, name := range header {
			if i >= len(row) || row[i] == "" {
				fields[name] = nil
				continue
			}
			fields[name] = convert(row[i], types[i])
		}
		rec, err := records.New(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIdx+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

type csvType int

const (
	csvString csvType = iota
	csvInt
	csvFloat
	csvBool
)

// inferColumnTypes samples data to determine column types.
func inferColumnTypes(n int, data [][]string) []csvType {
	types := make([]csvType, n)
	for i := range types {
		types[i] = inferColumnType(i, data)
	}
	return types
}

func inferColumnType(colIdx int, data [][]string) csvType {
	// Sample up to 100 rows
	sampleSize := min(len(data), 100)

	isInt, isFloat, isBool := true, true, true
	seen := false
	for i := 0; i < sampleSize; i++ {
		if colIdx >= len(data[i]) {
			continue
		}
		val := data[i][colIdx]
		if val == "" {
			continue // Skip empty values
		}
		seen = true

		if isInt {
			if _, err := strconv.ParseInt(val, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(val, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if val != "true" && val != "false" {
				isBool = false
			}
		}
	}

	switch {
	case !seen:
		return csvString
	case isInt:
		return csvInt
	case isFloat:
		return csvFloat
	case isBool:
		return csvBool
	}
	return csvString
}

// convert parses val as t, keeping the text when a value outside the sample
// does not parse.
func convert(val string, t csvType) any {
	switch t {
	case csvInt:
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	case csvFloat:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	case csvBool:
		if val == "true" || val == "false" {
			return val == "true"
		}
	}
	return val
}
