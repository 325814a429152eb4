// Package snapshot keeps the in-memory knowledge store in sync with a
// compressed knowledge document in object storage. A background loop
// probes the object's ETag and hot-swaps the store when a new snapshot
// is published.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bjtuwh/campus-assistant-go/internal/knowledge"
	"github.com/bjtuwh/campus-assistant-go/internal/logger"
	"github.com/bjtuwh/campus-assistant-go/internal/metrics"
	"github.com/bjtuwh/campus-assistant-go/internal/objstore"
)

// ErrNotFound indicates no snapshot exists in the bucket.
var ErrNotFound = errors.New("snapshot: not found")

// Config holds snapshot manager configuration.
type Config struct {
	Key          string        // object key, e.g. "snapshots/knowledge_base.json.zst"
	PollInterval time.Duration // how often to probe for a new snapshot
}

// Manager polls object storage and hot-swaps the knowledge store.
type Manager struct {
	client *objstore.Client
	store  *knowledge.Store
	config Config
	met    *metrics.Metrics
	log    *logger.Logger

	mu          sync.RWMutex
	currentETag string

	pollCancel context.CancelFunc
	pollDone   chan struct{}
}

// New creates a new snapshot manager. met may be nil.
func New(client *objstore.Client, store *knowledge.Store, cfg Config, met *metrics.Metrics, log *logger.Logger) *Manager {
	return &Manager{
		client:   client,
		store:    store,
		config:   cfg,
		met:      met,
		log:      log,
		pollDone: make(chan struct{}),
	}
}

// Load downloads the snapshot, parses it, and swaps it into the store.
// Returns ErrNotFound when the bucket has no snapshot yet.
func (m *Manager) Load(ctx context.Context) error {
	body, etag, err := m.client.Download(ctx, m.config.Key)
	if err != nil {
		if errors.Is(err, objstore.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("download snapshot: %w", err)
	}
	defer func() { _ = body.Close() }()

	data, err := objstore.Decompress(body)
	if err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}

	snap, err := knowledge.Parse(data)
	if err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}

	m.store.Swap(snap)
	m.met.SetKnowledgeEntries(snap.Len())

	m.mu.Lock()
	m.currentETag = etag
	m.mu.Unlock()

	m.log.WithField("etag", etag).
		WithField("entries", snap.Len()).
		Infof("knowledge snapshot loaded")
	return nil
}

// Start begins background polling. Call Stop to terminate.
func (m *Manager) Start(ctx context.Context) {
	pollCtx, cancel := context.WithCancel(ctx)
	m.pollCancel = cancel

	go func() {
		defer close(m.pollDone)

		ticker := time.NewTicker(m.config.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-pollCtx.Done():
				m.log.Infof("snapshot polling stopped")
				return
			case <-ticker.C:
				m.pollOnce(pollCtx)
			}
		}
	}()

	m.log.WithField("interval", m.config.PollInterval.String()).
		WithField("key", m.config.Key).
		Infof("snapshot polling started")
}

// pollOnce probes the remote ETag and reloads on change.
func (m *Manager) pollOnce(ctx context.Context) {
	m.mu.RLock()
	currentETag := m.currentETag
	m.mu.RUnlock()

	remoteETag, err := m.client.HeadObject(ctx, m.config.Key)
	if err != nil {
		if !errors.Is(err, objstore.ErrNotFound) {
			m.met.RecordKnowledgeReload("error")
			m.log.WithError(err).Warnf("snapshot poll: head object failed")
		}
		return
	}

	if remoteETag == currentETag {
		m.met.RecordKnowledgeReload("unchanged")
		return
	}

	m.log.WithField("old_etag", currentETag).
		WithField("new_etag", remoteETag).
		Infof("new knowledge snapshot detected")

	if err := m.Load(ctx); err != nil {
		m.met.RecordKnowledgeReload("error")
		m.log.WithError(err).Errorf("snapshot poll: reload failed")
		return
	}
	m.met.RecordKnowledgeReload("success")
}

// Stop terminates the polling goroutine.
func (m *Manager) Stop() {
	if m.pollCancel != nil {
		m.pollCancel()
		<-m.pollDone
	}
}

// CurrentETag returns the ETag of the currently loaded snapshot.
func (m *Manager) CurrentETag() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentETag
}

// SetCurrentETag sets the current ETag (used when the store was seeded
// from a local file).
func (m *Manager) SetCurrentETag(etag string) {
	m.mu.Lock()
	m.currentETag = etag
	m.mu.Unlock()
}

// Publish compresses and uploads a snapshot document.
// Used by operators to push a new knowledge base.
func Publish(ctx context.Context, client *objstore.Client, key string, snap *knowledge.Snapshot) (string, error) {
	data, err := knowledge.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	var compressed bytes.Buffer
	if err := objstore.Compress(&compressed, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("compress snapshot: %w", err)
	}

	etag, err := client.Upload(ctx, key, &compressed, "application/zstd")
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}
	return etag, nil
}
