// Package history persists named conversation logs in a backing blob
// store. Saves always write the full transcript, so the last writer wins;
// there is no merging and no locking.
package history

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/h0ng79/Botcare/internal/chatlog"
	"github.com/h0ng79/Botcare/internal/models"
)

// Ext is the fixed extension of persisted chat logs.
const Ext = ".txt"

// BlobStore is the narrow surface the store needs from a backing store.
// A collection is a directory, a table or a bucket prefix depending on the
// backend. Read and Delete report an absent blob as errNotExist.
type BlobStore interface {
	EnsureCollection(ctx context.Context, collection string) error
	Write(ctx context.Context, collection, name string, data []byte) error
	Read(ctx context.Context, collection, name string) ([]byte, error)
	Delete(ctx context.Context, collection, name string) error
	List(ctx context.Context, collection string) ([]string, error)
}

// Store is the durable save/list/load/delete surface over a BlobStore.
type Store struct {
	blobs BlobStore
}

func NewStore(blobs BlobStore) *Store {
	return &Store{blobs: blobs}
}

// Save writes the encoded transcript as the full contents of name within
// the collection, creating the collection if needed and overwriting any
// prior contents.
func (s *Store) Save(ctx context.Context, conv models.Conversation, collection, name string) error {
	if err := s.blobs.EnsureCollection(ctx, collection); err != nil {
		return &StoreError{Op: "save", Collection: collection, Name: name, Err: err}
	}
	if err := s.blobs.Write(ctx, collection, name, []byte(chatlog.Encode(conv))); err != nil {
		return &StoreError{Op: "save", Collection: collection, Name: name, Err: err}
	}
	return nil
}

// List returns the names of saved logs in the collection, sorted so one
// listing is stable for display. A missing collection lists as empty.
func (s *Store) List(ctx context.Context, collection string) ([]string, error) {
	names, err := s.blobs.List(ctx, collection)
	if errors.Is(err, errNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "list", Collection: collection, Err: err}
	}
	logs := make([]string, 0, len(names))
	for _, n := range names {
		if strings.HasSuffix(n, Ext) {
			logs = append(logs, n)
		}
	}
	sort.Strings(logs)
	return logs, nil
}

// Load reads and decodes a saved log. A missing entry loads as an empty
// conversation, not an error.
func (s *Store) Load(ctx context.Context, collection, name string) (models.Conversation, error) {
	data, err := s.blobs.Read(ctx, collection, name)
	if errors.Is(err, errNotExist) {
		return models.Conversation{}, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "load", Collection: collection, Name: name, Err: err}
	}
	return chatlog.Decode(string(data)), nil
}

// Delete removes the entry if present; deleting an absent entry is a
// no-op.
func (s *Store) Delete(ctx context.Context, collection, name string) error {
	err := s.blobs.Delete(ctx, collection, name)
	if errors.Is(err, errNotExist) {
		return nil
	}
	if err != nil {
		return &StoreError{Op: "delete", Collection: collection, Name: name, Err: err}
	}
	return nil
}
