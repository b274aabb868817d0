package worker

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"matchmate/notify"
	"matchmate/squad"
	"matchmate/store"
	"matchmate/utils"
)

const defaultBatchSize = 50

// ReadyWorker announces matches whose rosters just filled up. It is the
// only sender of match readiness notices: each full match is announced
// once, and again only if it reopens and fills a second time.
type ReadyWorker struct {
	repo     store.Repository
	notifier notify.Notifier
	interval time.Duration
	batch    int
	wake     chan struct{}
	log      *logrus.Entry
}

func NewReadyWorker(repo store.Repository, notifier notify.Notifier, interval time.Duration) *ReadyWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ReadyWorker{
		repo:     repo,
		notifier: notifier,
		interval: interval,
		batch:    defaultBatchSize,
		wake:     make(chan struct{}, 1),
		log:      logrus.WithField("component", "ready_worker"),
	}
}

// Trigger asks the worker to poll now instead of waiting for the next tick.
func (w *ReadyWorker) Trigger() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Start polls until ctx is cancelled.
func (w *ReadyWorker) Start(ctx context.Context) {
	w.log.WithField("interval", w.interval).Info("Ready worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.ProcessReady(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Ready worker shutting down...")
			return
		case <-ticker.C:
			w.ProcessReady(ctx)
		case <-w.wake:
			w.ProcessReady(ctx)
		}
	}
}

// ProcessReady sends one notice per full, unannounced match and returns how
// many were announced.
func (w *ReadyWorker) ProcessReady(ctx context.Context) int {
	matches, err := w.repo.ListReadyUnnotified(ctx, w.batch)
	if err != nil {
		if ctx.Err() == nil {
			utils.LogError("ready_poll_failed", err, nil)
		}
		return 0
	}

	sent := 0
	for _, m := range matches {
		if ctx.Err() != nil {
			return sent
		}

		err := w.notifier.NotifyMatchReady(ctx, m.ID)
		utils.NotificationsSent.WithLabelValues(notify.KindMatchReady, utils.Result(err)).Inc()
		if err != nil {
			// Left unflagged so the next poll tries again.
			utils.LogError("ready_notification_failed", err, map[string]interface{}{"match_id": m.ID})
			continue
		}

		if err := w.repo.MarkReadyNotified(ctx, m.ID, m.Version); err != nil {
			if errors.Is(err, squad.ErrConflict) {
				w.log.WithField("match_id", m.ID).Debug("match changed after readiness notice")
			} else {
				utils.LogError("mark_ready_failed", err, map[string]interface{}{"match_id": m.ID})
			}
		}
		sent++
		utils.LogEvent("match_ready_notified", map[string]interface{}{"match_id": m.ID})
	}
	return sent
}
