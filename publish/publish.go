// Package publish distributes registry updates over NATS. Every sync
// stores the current term records in KV and emits one event per term
// on catmip.registry.term.<status> for downstream agent consumers.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/cat-mip/cat-mip/export"
	"github.com/cat-mip/cat-mip/storage"
)

// DefaultSubjectPrefix is the root of the registry event subjects.
const DefaultSubjectPrefix = "catmip.registry"

// TermEvent is the message emitted for each synced term.
type TermEvent struct {
	EventID  string            `json:"event_id"`
	TermID   string            `json:"term_id"`
	Term     string            `json:"term"`
	Status   string            `json:"status"`
	Record   export.TermExport `json:"record"`
	SyncedAt time.Time         `json:"synced_at"`
}

// Publisher syncs term records into NATS.
type Publisher struct {
	nc            *nats.Conn
	store         *storage.Store
	subjectPrefix string
	logger        *slog.Logger
}

// New creates a publisher over an established NATS connection.
func New(ctx context.Context, nc *nats.Conn, subjectPrefix string, logger *slog.Logger) (*Publisher, error) {
	if subjectPrefix == "" {
		subjectPrefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	store, err := storage.NewStore(ctx, js)
	if err != nil {
		return nil, fmt.Errorf("initialize term store: %w", err)
	}

	return &Publisher{
		nc:            nc,
		store:         store,
		subjectPrefix: subjectPrefix,
		logger:        logger,
	}, nil
}

// Store exposes the underlying KV store.
func (p *Publisher) Store() *storage.Store {
	return p.store
}

// Sync stores every term in KV and publishes one event per term.
// Returns the number of terms synced.
func (p *Publisher) Sync(ctx context.Context, terms []export.TermExport) (int, error) {
	synced := 0
	for _, term := range terms {
		if term.ID == "" {
			p.logger.Warn("skipping term without id", "term", term.CanonicalTerm)
			continue
		}

		if err := p.store.PutTerm(ctx, term); err != nil {
			return synced, fmt.Errorf("store %s: %w", term.ID, err)
		}
		if err := p.publishEvent(term); err != nil {
			return synced, err
		}
		synced++
	}

	// Make sure events left the client before reporting success.
	if err := p.nc.FlushTimeout(5 * time.Second); err != nil {
		return synced, fmt.Errorf("flush events: %w", err)
	}

	p.logger.Info("registry synced to NATS", "terms", synced, "subject_prefix", p.subjectPrefix)
	return synced, nil
}

func (p *Publisher) publishEvent(term export.TermExport) error {
	event := TermEvent{
		EventID:  uuid.New().String(),
		TermID:   term.ID,
		Term:     term.CanonicalTerm,
		Status:   term.Status,
		Record:   term,
		SyncedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", term.ID, err)
	}

	subject := fmt.Sprintf("%s.term.%s", p.subjectPrefix, term.Status)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", term.ID, err)
	}
	return nil
}
