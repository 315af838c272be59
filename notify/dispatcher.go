package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

const (
	// MaxAttempts before a row is parked as failed.
	MaxAttempts = 5
	// dispatchBatch bounds how many pending rows one poll picks up.
	dispatchBatch = 100
)

// Backoff returns the delay before retrying a delivery that has already
// failed attempt times: 30s, 1m, 2m, 4m... capped at 30m.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := 30 * time.Second
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= 30*time.Minute {
			return 30 * time.Minute
		}
	}
	return d
}

// Dispatcher drains the notification outbox in the background.
type Dispatcher struct {
	db       *gorm.DB
	push     *PushClient
	interval time.Duration
}

func NewDispatcher(db *gorm.DB, push *PushClient, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Dispatcher{db: db, push: push, interval: interval}
}

// Run polls until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	log.Printf("[outbox] dispatcher started (interval=%s, push enabled=%v)", d.interval, d.push.Enabled())
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[outbox] dispatcher stopped")
			return
		case <-ticker.C:
			if err := d.DispatchPending(ctx); err != nil {
				log.Printf("[outbox] dispatch round failed: %v", err)
			}
		}
	}
}

// DispatchPending delivers one batch of due pending rows. Each row's outcome
// is recorded independently; one failed push never blocks the rest.
func (d *Dispatcher) DispatchPending(ctx context.Context) error {
	if !d.push.Enabled() {
		// Park everything as skipped so rows don't pile up forever.
		return d.db.WithContext(ctx).Model(&models.Notification{}).
			Where("push_status = ?", models.PushPending).
			Update("push_status", models.PushSkipped).Error
	}

	now := time.Now().UTC()
	var rows []models.Notification
	if err := d.db.WithContext(ctx).
		Where("push_status = ?", models.PushPending).
		Where("next_attempt_at IS NULL OR next_attempt_at <= ?", now).
		Order("id ASC").
		Limit(dispatchBatch).
		Find(&rows).Error; err != nil {
		return err
	}

	for i := range rows {
		n := &rows[i]
		msg := PushMessage{Title: n.Title, Message: n.Message, TargetType: "all"}
		if n.UserID != nil {
			msg.TargetType = "user"
			msg.TargetID = fmt.Sprintf("%d", *n.UserID)
		} else if n.BaseID != nil {
			msg.TargetType = "base"
			msg.TargetID = fmt.Sprintf("%d", *n.BaseID)
		}

		err := d.push.Send(ctx, msg)
		attempts := n.PushAttempts + 1
		updates := map[string]interface{}{
			"push_attempts": attempts,
		}
		switch {
		case err == nil:
			updates["push_status"] = models.PushSent
			updates["last_error"] = nil
		case attempts >= MaxAttempts:
			updates["push_status"] = models.PushFailed
			updates["last_error"] = err.Error()
			log.Printf("[outbox] notification %d gave up after %d attempts: %v", n.ID, attempts, err)
		default:
			next := now.Add(Backoff(attempts))
			updates["next_attempt_at"] = next
			updates["last_error"] = err.Error()
		}

		if uerr := d.db.WithContext(ctx).Model(&models.Notification{}).
			Where("id = ?", n.ID).Updates(updates).Error; uerr != nil {
			return uerr
		}
	}
	return nil
}
