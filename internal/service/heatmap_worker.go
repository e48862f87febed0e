package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HeatmapWorker listens for PostgreSQL NOTIFY on the 'submission_changes'
// channel and batches snapshot rebuilds. If 50 reports land in one window,
// the heatmap is recomputed once, not 50 times.
type HeatmapWorker struct {
	pool    *pgxpool.Pool
	heatmap *HeatmapService
	batchMs time.Duration

	mu      sync.Mutex
	pending map[string]struct{} // submission IDs seen this window, for logging
}

// NewHeatmapWorker creates a heatmap refresh worker.
func NewHeatmapWorker(pool *pgxpool.Pool, heatmap *HeatmapService) *HeatmapWorker {
	return &HeatmapWorker{
		pool:    pool,
		heatmap: heatmap,
		batchMs: 5 * time.Second,
		pending: make(map[string]struct{}),
	}
}

// Start begins listening for submission_changes notifications and processing
// batches. Reconnects with backoff on listen errors.
func (w *HeatmapWorker) Start(ctx context.Context) {
	log.Printf("heatmap-worker: starting (batch window=%s)", w.batchMs)

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				log.Println("heatmap-worker: stopping (context cancelled)")
				return
			}
			log.Printf("heatmap-worker: listen error, reconnecting in 5s: %v", err)
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				log.Println("heatmap-worker: stopping (context cancelled)")
				return
			}
		}
	}
}

// listenLoop acquires a dedicated connection, LISTENs on submission_changes,
// and collects notifications into batched windows.
func (w *HeatmapWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "LISTEN submission_changes")
	if err != nil {
		return err
	}
	log.Println("heatmap-worker: listening on submission_changes")

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		submissionID := notification.Payload
		if submissionID == "" {
			continue
		}

		w.mu.Lock()
		w.pending[submissionID] = struct{}{}
		w.mu.Unlock()
	}
}

// flushLoop periodically drains the pending set and rebuilds the snapshot.
func (w *HeatmapWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.batchMs)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			// Final flush before exit
			w.flush(context.Background())
			return
		}
	}
}

// flush rebuilds the snapshot once if anything changed during the window.
func (w *HeatmapWorker) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}

	batch := w.pending
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	start := time.Now()
	if _, err := w.heatmap.Rebuild(ctx); err != nil {
		log.Printf("heatmap-worker: rebuild error: %v", err)
		return
	}
	log.Printf("heatmap-worker: snapshot rebuilt from %d notifications (%s)",
		len(batch), time.Since(start).Round(time.Millisecond))
}
