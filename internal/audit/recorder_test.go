package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadankyi1/amforex/internal/models"
)

type fakeStore struct {
	mu      sync.Mutex
	entries []*models.AuditLogEntry
	err     error
}

func (s *fakeStore) Insert(ctx context.Context, e *models.AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	e.LogID = int64(len(s.entries) + 1)
	s.entries = append(s.entries, e)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	done   chan struct{}
}

func (p *fakePublisher) ProduceMessage(ctx context.Context, topic string, key, value []byte) error {
	p.mu.Lock()
	p.topics = append(p.topics, topic)
	p.mu.Unlock()
	close(p.done)
	return nil
}

func TestRecordPersistsEntry(t *testing.T) {
	store := &fakeStore{}
	r := NewRecorder(store, nil, nil, nil, "", "")

	r.Record(context.Background(), "admin", "42", CategoryLogin, "Logged in")

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.entries, 1)
	assert.Equal(t, CategoryLogin, store.entries[0].Category)
	assert.Equal(t, "42", store.entries[0].ActorID)
}

func TestRecordPublishesToTopic(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{done: make(chan struct{})}
	r := NewRecorder(store, pub, nil, nil, "amforex.audit", "amforex-audit-logs")

	r.Record(context.Background(), "admin", "42", CategorySecurity, "PIN check failed")

	select {
	case <-pub.done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher was never invoked")
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, []string{"amforex.audit"}, pub.topics)
}

func TestRecordSurvivesStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	r := NewRecorder(store, nil, nil, nil, "", "")

	// Must not panic or propagate the failure.
	r.Record(context.Background(), "admin", "42", CategoryCurrencies, "Added currency USD")
}
