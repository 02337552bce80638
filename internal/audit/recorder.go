package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kadankyi1/amforex/internal/models"
	"github.com/kadankyi1/amforex/internal/util"
)

// Audit categories, matching the values persisted by the original
// back-office records.
const (
	CategoryLogin          = "Login Admin"
	CategoryCurrencies     = "Currencies Admin"
	CategoryRates          = "Rates Admin"
	CategoryBureaus        = "Bureaus Admin"
	CategoryAdministrators = "Administrators|Admin"
	CategorySecurity       = "Security|Admin"
)

// Store is the durable, synchronous sink. The event sinks below are
// mirrored best-effort and never fail the recording call.
type Store interface {
	Insert(ctx context.Context, e *models.AuditLogEntry) error
}

type EventPublisher interface {
	ProduceMessage(ctx context.Context, topic string, key, value []byte) error
}

type SearchIndexer interface {
	IndexDocument(ctx context.Context, index, id string, document interface{}) error
}

type AnalyticsWriter interface {
	Exec(ctx context.Context, query string, args ...interface{}) error
}

type Recorder struct {
	store     Store
	publisher EventPublisher
	indexer   SearchIndexer
	analytics AnalyticsWriter
	topic     string
	index     string
}

func NewRecorder(store Store, publisher EventPublisher, indexer SearchIndexer, analytics AnalyticsWriter, topic, index string) *Recorder {
	return &Recorder{
		store:     store,
		publisher: publisher,
		indexer:   indexer,
		analytics: analytics,
		topic:     topic,
		index:     index,
	}
}

// Record appends an audit entry. The relational insert happens on the
// caller's context; sink fan-out is detached so a slow broker never delays
// the response. Recording never fails the operation being audited.
func (r *Recorder) Record(ctx context.Context, actorType, actorID, category, message string) {
	entry := &models.AuditLogEntry{
		ActorType: actorType,
		ActorID:   actorID,
		Category:  category,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	if err := r.store.Insert(ctx, entry); err != nil {
		util.Error("failed to persist audit entry",
			util.String("category", category),
			util.ErrorField(err))
	}

	go r.fanOut(entry)
}

func (r *Recorder) fanOut(entry *models.AuditLogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if r.publisher != nil {
		g.Go(func() error {
			payload, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			return r.publisher.ProduceMessage(ctx, r.topic, []byte(entry.Category), payload)
		})
	}

	if r.indexer != nil {
		g.Go(func() error {
			docID := strconv.FormatInt(entry.LogID, 10)
			return r.indexer.IndexDocument(ctx, r.index, docID, entry)
		})
	}

	if r.analytics != nil {
		g.Go(func() error {
			return r.analytics.Exec(ctx,
				`INSERT INTO audit_events (actor_type, actor_id, category, message, created_at) VALUES (?, ?, ?, ?, ?)`,
				entry.ActorType, entry.ActorID, entry.Category, entry.Message, entry.CreatedAt)
		})
	}

	if err := g.Wait(); err != nil {
		util.Warn("audit sink fan-out incomplete",
			util.String("category", entry.Category),
			util.ErrorField(err))
	}
}

// EnsureAnalyticsSchema creates the ClickHouse events table backing the
// activity report.
func EnsureAnalyticsSchema(ctx context.Context, analytics AnalyticsWriter) error {
	return analytics.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			actor_type String,
			actor_id String,
			category String,
			message String,
			created_at DateTime
		) ENGINE = MergeTree()
		ORDER BY (category, created_at)`)
}
