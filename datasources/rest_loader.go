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
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/manzil/manzil/core/records"
)

// RestLoader implements Loader for list endpoints returning the
// `{ "data": [...], "pagination": {...} }` envelope. It requests pages until
// the pagination metadata says there are no more.
//
// Required options:
//   - url: List endpoint, e.g. https://api.example.com/v1/towers
//
// Optional options:
//   - token: Bearer token
//   - token_env: Environment variable holding the bearer token
//   - page_param: Page query parameter (default: "page")
//   - limit_param: Page size query parameter (default: "limit")
//   - limit: Page size to request (default: 100)
//   - max_pages: Upper bound on requested pages (default: 1000)
type RestLoader struct {
	client *http.Client
}

// NewRestLoader creates a REST loader. A nil client uses http.DefaultClient.
func NewRestLoader(client *http.Client) *RestLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &RestLoader{client: client}
}

// SourceType returns "rest".
func (l *RestLoader) SourceType() string {
	return "rest"
}

// maxBodyBytes bounds a single response body.
const maxBodyBytes = 64 << 20

// Load fetches every page of the endpoint.
func (l *RestLoader) Load(ctx context.Context, options map[string]string) ([]records.Record, error) {
	rawURL, err := requireOption(options, "url")
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	limit, err := intOption(options, "limit", 100)
	if err != nil {
		return nil, err
	}
	maxPages, err := intOption(options, "max_pages", 1000)
	if err != nil {
		return nil, err
	}
	pageParam := option(options, "page_param", "page")
	limitParam := option(options, "limit_param", "limit")

	token := options["token"]
	if env := options["token_env"]; token == "" && env != "" {
		token = os.Getenv(env)
	}

	var out []records.Record
	for page := 1; page <= maxPages; page++ {
		u := *base
		q := u.Query()
		q.Set(pageParam, strconv.Itoa(page))
		if limit > 0 {
			q.Set(limitParam, strconv.Itoa(limit))
		}
		u.RawQuery = q.Encode()

		env, err := l.fetch(ctx, u.String(), token)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		out = append(out, env.Records...)
		if !env.HasMore(page) || len(env.Records) == 0 {
			return out, nil
		}
	}
	return out, nil
}

func (l *RestLoader) fetch(ctx context.Context, u, token string) (*records.Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return records.DecodeEnvelope(body)
}
