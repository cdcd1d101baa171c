// Package storage mirrors the registry into NATS JetStream KV so agent
// fleets can look terms up without fetching the published JSON.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/cat-mip/cat-mip/export"
)

// BucketTerms is the KV bucket holding term records keyed by term ID.
const BucketTerms = "CATMIP_TERMS"

// kvHistory is how many revisions of each term the bucket keeps.
const kvHistory = 5

// keyRe constrains KV keys to registry ID shape.
var keyRe = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// Store provides term storage operations backed by NATS KV.
type Store struct {
	terms jetstream.KeyValue
}

// NewStore creates a Store with the given JetStream context, creating
// the terms bucket if it doesn't exist.
func NewStore(ctx context.Context, js jetstream.JetStream) (*Store, error) {
	terms, err := getOrCreateBucket(ctx, js, BucketTerms)
	if err != nil {
		return nil, fmt.Errorf("create terms bucket: %w", err)
	}
	return &Store{terms: terms}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "CAT-MIP registry term records",
		History:     kvHistory,
	})
}

// PutTerm stores or replaces a term record keyed by its ID.
func (s *Store) PutTerm(ctx context.Context, term export.TermExport) error {
	if err := validateKey(term.ID); err != nil {
		return err
	}

	data, err := json.Marshal(term)
	if err != nil {
		return fmt.Errorf("marshal term: %w", err)
	}

	if _, err := s.terms.Put(ctx, term.ID, data); err != nil {
		return fmt.Errorf("store term %s: %w", term.ID, err)
	}
	return nil
}

// GetTerm retrieves a term record by ID.
func (s *Store) GetTerm(ctx context.Context, id string) (*export.TermExport, error) {
	if err := validateKey(id); err != nil {
		return nil, err
	}

	entry, err := s.terms.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get term %s: %w", id, err)
	}

	var term export.TermExport
	if err := json.Unmarshal(entry.Value(), &term); err != nil {
		return nil, fmt.Errorf("unmarshal term %s: %w", id, err)
	}
	return &term, nil
}

// ListTerms returns every stored term record.
func (s *Store) ListTerms(ctx context.Context) ([]*export.TermExport, error) {
	keys, err := s.terms.Keys(ctx)
	if err != nil {
		if err == jetstream.ErrNoKeysFound {
			return nil, nil
		}
		return nil, fmt.Errorf("list term keys: %w", err)
	}

	terms := make([]*export.TermExport, 0, len(keys))
	for _, key := range keys {
		entry, err := s.terms.Get(ctx, key)
		if err != nil {
			continue // Skip entries that fail to load
		}
		var term export.TermExport
		if err := json.Unmarshal(entry.Value(), &term); err != nil {
			continue
		}
		terms = append(terms, &term)
	}
	return terms, nil
}

// DeleteTerm removes a term record by ID.
func (s *Store) DeleteTerm(ctx context.Context, id string) error {
	if err := validateKey(id); err != nil {
		return err
	}
	if err := s.terms.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete term %s: %w", id, err)
	}
	return nil
}

func validateKey(id string) error {
	if id == "" || !keyRe.MatchString(id) {
		return fmt.Errorf("invalid term key: %q", id)
	}
	return nil
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "key not found")
}
