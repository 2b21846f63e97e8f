package platform

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

var (
	// ErrUnsupported means the host lacks the capability. Callers log it and
	// skip the feature.
	ErrUnsupported = errors.New("capability not supported")
	// ErrPermissionDenied means the user declined a permission prompt
	ErrPermissionDenied = errors.New("permission denied")
)

// Capabilities records which optional host features are available
type Capabilities struct {
	Sync          bool
	Push          bool
	Notifications bool
}

// SyncFunc runs the deferred work behind a tag
type SyncFunc func(ctx context.Context) error

// SyncManager queues tagged deferred actions for later replay
type SyncManager struct {
	mu        sync.Mutex
	supported bool
	pending   []string
	handlers  map[string]SyncFunc
}

// NewSyncManager creates a manager. When unsupported every Register is a
// logged no-op.
func NewSyncManager(supported bool) *SyncManager {
	return &SyncManager{
		supported: supported,
		handlers:  make(map[string]SyncFunc),
	}
}

// Handle sets the work run when tag is replayed
func (m *SyncManager) Handle(tag string, fn SyncFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[tag] = fn
}

// Register queues tag. Registering a tag that is already queued is a no-op.
func (m *SyncManager) Register(tag string) error {
	if !m.supported {
		return fmt.Errorf("background sync for %s: %w", tag, ErrUnsupported)
	}
	if tag == "" {
		return fmt.Errorf("background sync tag is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.pending {
		if t == tag {
			return nil
		}
	}
	m.pending = append(m.pending, tag)
	log.Printf("Background sync registered for %s", tag)
	return nil
}

// Pending lists the queued tags in registration order
func (m *SyncManager) Pending() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.pending...)
}

// Replay runs the handler of every queued tag once. Tags whose handler
// succeeds, or that have no handler, are dropped; failed tags stay queued
// for the next replay.
func (m *SyncManager) Replay(ctx context.Context) error {
	m.mu.Lock()
	tags := m.pending
	m.pending = nil
	handlers := make(map[string]SyncFunc, len(m.handlers))
	for k, v := range m.handlers {
		handlers[k] = v
	}
	m.mu.Unlock()

	var failed []string
	var errs []error
	for _, tag := range tags {
		if err := ctx.Err(); err != nil {
			failed = append(failed, tag)
			errs = append(errs, err)
			continue
		}
		fn := handlers[tag]
		if fn == nil {
			log.Printf("Background sync %s has no handler, dropping", tag)
			continue
		}
		if err := fn(ctx); err != nil {
			log.Printf("Background sync %s failed: %v", tag, err)
			failed = append(failed, tag)
			errs = append(errs, fmt.Errorf("%s: %w", tag, err))
			continue
		}
		log.Printf("Background sync %s replayed", tag)
	}

	if len(failed) > 0 {
		m.mu.Lock()
		m.pending = append(failed, m.pending...)
		m.mu.Unlock()
	}
	return errors.Join(errs...)
}
