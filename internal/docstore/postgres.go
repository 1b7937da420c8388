package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// notifyChannel carries the touched collection path as payload. NOTIFY fires
// on commit, so a snapshot re-read triggered by it always sees the write.
const notifyChannel = "liftlog_documents_changed"

var _ Store = (*PostgresStore)(nil)

// PostgresStore keeps every document as one row in the document table:
//
//	path       VARCHAR      NOT NULL
//	id         VARCHAR      NOT NULL
//	fields     JSONB        NOT NULL DEFAULT '{}'
//	created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
//	updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
//	PRIMARY KEY (path, id)
//
// Realtime delivery runs over postgres LISTEN/NOTIFY: every committed write
// notifies with the touched path, and a listener goroutine re-reads the
// snapshot and fans it out to subscribers of that path.
type PostgresStore struct {
	db       *pgxpool.Pool
	listener *pq.Listener
	metrics  *metrics.Manager

	mu      sync.Mutex
	subs    map[string]map[int]chan Snapshot
	nextSub int

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewPostgresStore(
	db *pgxpool.Pool,
	listenDSN string,
	metricsManager *metrics.Manager,
) (*PostgresStore, error) {
	listener := pq.NewListener(
		listenDSN,
		10*time.Second,
		time.Minute,
		func(event pq.ListenerEventType, err error) {
			if err != nil {
				log.Errorf("docstore listener event %d: %s", event, err)
			}
		},
	)
	if err := listener.Listen(notifyChannel); err != nil {
		return nil, fmt.Errorf("listen on %s: %w", notifyChannel, err)
	}

	ps := &PostgresStore{
		db:       db,
		listener: listener,
		metrics:  metricsManager,
		subs:     make(map[string]map[int]chan Snapshot),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go ps.listenLoop()

	return ps, nil
}

// Close tears down the notification listener and all active subscriptions.
// The pgx pool is owned by the caller and left open.
func (ps *PostgresStore) Close() error {
	var err error
	ps.stopOnce.Do(func() {
		close(ps.stop)
		err = ps.listener.Close()
		<-ps.done

		ps.mu.Lock()
		defer ps.mu.Unlock()
		for _, pathSubs := range ps.subs {
			for _, ch := range pathSubs {
				close(ch)
			}
		}
		ps.subs = make(map[string]map[int]chan Snapshot)
	})
	return err
}

func (ps *PostgresStore) listenLoop() {
	defer close(ps.done)
	for {
		select {
		case <-ps.stop:
			return
		case notification, ok := <-ps.listener.Notify:
			if !ok {
				return
			}
			if notification == nil {
				// reconnect event, resync all subscribed paths
				ps.mu.Lock()
				paths := make([]string, 0, len(ps.subs))
				for path := range ps.subs {
					paths = append(paths, path)
				}
				ps.mu.Unlock()
				for _, path := range paths {
					ps.fanOut(path)
				}
				continue
			}
			ps.fanOut(notification.Extra)
		case <-time.After(90 * time.Second):
			if err := ps.listener.Ping(); err != nil {
				log.Errorf("docstore listener ping: %s", err)
			}
		}
	}
}

func (ps *PostgresStore) fanOut(path string) {
	ps.mu.Lock()
	subsCount := len(ps.subs[path])
	ps.mu.Unlock()
	if subsCount == 0 {
		return
	}

	fanoutStart := time.Now()
	snapshot, err := ps.GetOnce(context.Background(), path)
	if err != nil {
		// a failed fan-out must not tear the listener down, the next
		// notification or reconnect resync will retry
		log.Errorf("docstore fan-out, read snapshot of %s: %s", path, err)
		return
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, ch := range ps.subs[path] {
		select {
		case <-ch: // latest-wins, drop the stale pending snapshot
		default:
		}
		ch <- snapshot
		ps.metrics.CounterSnapshotsDelivered.Inc()
	}
	ps.metrics.HistSnapshotFanout.Observe(time.Since(fanoutStart).Seconds())
}

func (ps *PostgresStore) Subscribe(ctx context.Context, path string) (<-chan Snapshot, func(), error) {
	initial, err := ps.GetOnce(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("initial snapshot of %s: %w", path, err)
	}

	ps.mu.Lock()
	ch := make(chan Snapshot, 1)
	id := ps.nextSub
	ps.nextSub++
	if ps.subs[path] == nil {
		ps.subs[path] = make(map[int]chan Snapshot)
	}
	ps.subs[path][id] = ch
	ch <- initial
	ps.mu.Unlock()

	ps.metrics.GaugeSubscriptions.Inc()

	var unsubOnce sync.Once
	unsubscribe := func() {
		unsubOnce.Do(func() {
			ps.mu.Lock()
			defer ps.mu.Unlock()
			if _, stillThere := ps.subs[path][id]; !stillThere {
				// store closed before the subscriber let go
				return
			}
			delete(ps.subs[path], id)
			close(ch)
			ps.metrics.GaugeSubscriptions.Dec()
		})
	}

	return ch, unsubscribe, nil
}

func (ps *PostgresStore) GetOnce(ctx context.Context, path string) (_ Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.postgres.getOnce")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := ps.db.Query(ctx,
		`SELECT id, fields FROM document WHERE path = $1 ORDER BY created_at, id`,
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("query documents of %s: %w", path, err)
	}
	defer rows.Close()

	snapshot := make(Snapshot, 0)
	for rows.Next() {
		var id string
		var fieldsBytes []byte
		if err := rows.Scan(&id, &fieldsBytes); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		fields := make(map[string]any)
		if err := json.Unmarshal(fieldsBytes, &fields); err != nil {
			return nil, fmt.Errorf("unmarshal document %s/%s: %w", path, id, err)
		}
		snapshot = append(snapshot, Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("documents rows of %s: %w", path, err)
	}

	return snapshot, nil
}

func (ps *PostgresStore) Create(ctx context.Context, path string, fields map[string]any) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.postgres.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	defer func() {
		ps.countWrite("create", err)
	}()

	id := uuid.NewString()
	if err := ps.execCreate(ctx, ps.db, path, id, fields); err != nil {
		return "", err
	}

	ps.notify(ctx, path)
	return id, nil
}

func (ps *PostgresStore) Update(ctx context.Context, path, id string, fields map[string]any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.postgres.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	defer func() {
		ps.countWrite("update", err)
	}()

	if err := ps.execUpdate(ctx, ps.db, path, id, fields); err != nil {
		return err
	}

	ps.notify(ctx, path)
	return nil
}

func (ps *PostgresStore) Delete(ctx context.Context, path, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.postgres.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	defer func() {
		ps.countWrite("delete", err)
	}()

	if _, err := ps.db.Exec(ctx,
		`DELETE FROM document WHERE path = $1 AND id = $2`,
		path, id,
	); err != nil {
		return &WriteError{Op: "delete", Path: path, Err: err}
	}

	ps.notify(ctx, path)
	return nil
}

func (ps *PostgresStore) Batch(ctx context.Context, ops []Op) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.postgres.batch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	defer func() {
		ps.countWrite("batch", err)
	}()

	tx, err := ps.db.Begin(ctx)
	if err != nil {
		return &WriteError{Op: "batch", Path: "", Err: err}
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && rollbackErr != pgx.ErrTxClosed {
			log.Errorf("docstore batch rollback: %s", rollbackErr)
		}
	}()

	touched := make(map[string]struct{})
	for _, op := range ops {
		switch op.Kind {
		case OpCreate:
			id := op.ID
			if id == "" {
				id = uuid.NewString()
			}
			if err := ps.execCreate(ctx, tx, op.Path, id, op.Fields); err != nil {
				return err
			}
		case OpUpdate:
			if err := ps.execUpdate(ctx, tx, op.Path, op.ID, op.Fields); err != nil {
				return err
			}
		case OpDelete:
			if _, err := tx.Exec(ctx,
				`DELETE FROM document WHERE path = $1 AND id = $2`,
				op.Path, op.ID,
			); err != nil {
				return &WriteError{Op: "batch delete", Path: op.Path, Err: err}
			}
		}
		touched[op.Path] = struct{}{}
	}

	// notifications issued inside the tx fire on commit
	for path := range touched {
		if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, path); err != nil {
			return &WriteError{Op: "batch notify", Path: path, Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &WriteError{Op: "batch commit", Path: "", Err: err}
	}

	return nil
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (ps *PostgresStore) execCreate(ctx context.Context, db execer, path, id string, fields map[string]any) error {
	fieldsJSON, err := marshalFields(fields)
	if err != nil {
		return err
	}
	if _, err := db.Exec(ctx,
		`INSERT INTO document (path, id, fields) VALUES ($1, $2, $3)`,
		path, id, fieldsJSON,
	); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return &WriteError{Op: "create", Path: path, Err: fmt.Errorf("document %s already exists", id)}
		}
		return &WriteError{Op: "create", Path: path, Err: err}
	}
	return nil
}

func (ps *PostgresStore) execUpdate(ctx context.Context, db execer, path, id string, fields map[string]any) error {
	fieldsJSON, err := marshalFields(fields)
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx,
		`UPDATE document SET fields = fields || $3::jsonb, updated_at = NOW() WHERE path = $1 AND id = $2`,
		path, id, fieldsJSON,
	)
	if err != nil {
		return &WriteError{Op: "update", Path: path, Err: err}
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update %s/%s: %w", path, id, ErrNotFound)
	}
	return nil
}

func (ps *PostgresStore) notify(ctx context.Context, path string) {
	if _, err := ps.db.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, path); err != nil {
		log.Errorf("docstore notify %s: %s", path, err)
	}
}

func (ps *PostgresStore) countWrite(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ps.metrics.CounterStoreWrites.WithLabelValues(op, outcome).Inc()
}

func marshalFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal document fields: %w", err)
	}
	return fieldsJSON, nil
}
