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
	"net/url"
	"strings"

	"github.com/manzil/manzil/core/records"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// MongoLoader implements Loader for MongoDB collections. Documents are
// converted through relaxed Extended JSON; ObjectIDs and dates become plain
// strings.
//
// Required options:
//   - uri: Connection string, e.g. mongodb://localhost:27017/portfolio
//   - collection: Collection name
//
// Optional options:
//   - database: Database name (default: taken from the uri path)
//   - filter: Extended JSON query filter, e.g. {"status": "active"}
//   - limit: Maximum number of documents (default: no limit)
type MongoLoader struct{}

// NewMongoLoader creates a new MongoDB loader.
func NewMongoLoader() *MongoLoader {
	return &MongoLoader{}
}

// SourceType returns "mongo".
func (l *MongoLoader) SourceType() string {
	return "mongo"
}

// Load reads the matching documents.
func (l *MongoLoader) Load(ctx context.Context, opts map[string]string) ([]records.Record, error) {
	uri, err := requireOption(opts, "uri")
	if err != nil {
		return nil, err
	}
	collName, err := requireOption(opts, "collection")
	if err != nil {
		return nil, err
	}
	database := opts["database"]
	if database == "" {
		database = databaseFromURI(uri)
	}
	if database == "" {
		return nil, fmt.Errorf("database is required when the uri names none")
	}
	limit, err := intOption(opts, "limit", 0)
	if err != nil {
		return nil, err
	}

	filter := bson.M{}
	if f := opts["filter"]; f != "" {
		if err := bson.UnmarshalExtJSON([]byte(f), false, &filter); err != nil {
			return nil, fmt.Errorf("invalid filter: %w", err)
		}
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer client.Disconnect(context.WithoutCancel(ctx))

	findOpts := options.Find()
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}
	cursor, err := client.Database(database).Collection(collName).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var out []records.Record
	for cursor.Next(ctx) {
		r, err := DocumentToRecord(cursor.Current)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DocumentToRecord converts a BSON document into a record.
func DocumentToRecord(doc bson.Raw) (records.Record, error) {
	ext, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return records.Record{}, fmt.Errorf("failed to convert document: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(ext, s); err != nil {
		return records.Record{}, fmt.Errorf("failed to convert document: %w", err)
	}
	for k, v := range s.GetFields() {
		s.Fields[k] = flattenExtJSON(v)
	}
	return records.FromStruct(s), nil
}

// flattenExtJSON replaces single-key Extended JSON wrappers such as
// {"$oid": "..."} and {"$date": "..."} with their payload.
func flattenExtJSON(v *structpb.Value) *structpb.Value {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		if len(fields) == 1 {
			for key, inner := range fields {
				if strings.HasPrefix(key, "$") {
					return flattenExtJSON(inner)
				}
			}
		}
		for key, inner := range fields {
			fields[key] = flattenExtJSON(inner)
		}
	case *structpb.Value_ListValue:
		for i, inner := range k.ListValue.GetValues() {
			k.ListValue.Values[i] = flattenExtJSON(inner)
		}
	}
	return v
}

// databaseFromURI returns the database named in a connection string path.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
