// Package store abstracts the remote document store holding student and
// college documents.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when no document exists under the key.
var ErrNotFound = errors.New("DOCUMENT_NOT_FOUND")

// Document is one stored JSON document and its key.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Decode unmarshals the document body into v.
func (d Document) Decode(v interface{}) error {
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("decode document %s: %w", d.ID, err)
	}
	return nil
}

// NewDocument marshals v into a Document keyed by id.
func NewDocument(id string, v interface{}) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Document{}, fmt.Errorf("encode document %s: %w", id, err)
	}
	return Document{ID: id, Data: data}, nil
}

// Store is the get / set / list / server-time surface of the document store.
// Set overwrites any existing document under the key.
type Store interface {
	Get(ctx context.Context, collection, key string) (*Document, error)
	Set(ctx context.Context, collection, key string, doc Document) error
	List(ctx context.Context, collection string) ([]Document, error)
	ServerTime(ctx context.Context) (time.Time, error)
}

// Pinger is implemented by backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func validateKey(collection, key string) error {
	if collection == "" {
		return fmt.Errorf("collection is required")
	}
	if key == "" {
		return fmt.Errorf("document key is required")
	}
	return nil
}
