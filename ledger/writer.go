package ledger

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

// ActorKind selects which aggregate a delta lands on.
type ActorKind string

const (
	ActorUser ActorKind = "user"
	ActorBase ActorKind = "base"
)

// Actor identifies the owner of a balance: an individual member or a base.
type Actor struct {
	Kind ActorKind
	ID   uint
}

func UserActor(id uint) Actor { return Actor{Kind: ActorUser, ID: id} }
func BaseActor(id uint) Actor { return Actor{Kind: ActorBase, ID: id} }

// Delta is one signed balance change. Applying it increments the actor's
// aggregate counter and appends one immutable history row, always inside the
// same database transaction.
type Delta struct {
	Actor       Actor
	Amount      int64
	Reason      string
	Category    string
	TasksDelta  int64
	PerformedBy *uint
}

// Inverse returns the delta that undoes d, recorded as a revocation.
func (d Delta) Inverse(reason string) Delta {
	return Delta{
		Actor:       d.Actor,
		Amount:      -d.Amount,
		Reason:      reason,
		Category:    models.CategoryRevocation,
		TasksDelta:  -d.TasksDelta,
		PerformedBy: d.PerformedBy,
	}
}

func validCategory(c string) bool {
	switch c {
	case models.CategoryTask, models.CategoryRevocation, models.CategoryAttendance,
		models.CategoryQuiz, models.CategoryManual, models.CategoryEvent:
		return true
	}
	return false
}

// Writer applies point deltas. It is the only code path allowed to touch the
// aggregate XP columns and the history tables.
type Writer struct {
	db *gorm.DB
}

func NewWriter(db *gorm.DB) *Writer {
	return &Writer{db: db}
}

// ApplyDelta runs one delta in its own transaction.
func (w *Writer) ApplyDelta(ctx context.Context, d Delta) error {
	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyDelta(tx, d)
	})
}

// Apply runs one delta against a transaction the caller already owns, for
// code that joins the delta with its own writes.
func Apply(tx *gorm.DB, d Delta) error {
	return applyDelta(tx, d)
}

// applyDelta performs the aggregate increment and the history append against
// tx. Callers that need the pair joined with other writes (approval, batch
// attendance) pass their own transaction.
func applyDelta(tx *gorm.DB, d Delta) error {
	if !validCategory(d.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, d.Category)
	}

	switch d.Actor.Kind {
	case ActorUser:
		updates := map[string]interface{}{
			"current_xp": gorm.Expr("current_xp + ?", d.Amount),
		}
		if d.TasksDelta != 0 {
			updates["completed_tasks"] = gorm.Expr("completed_tasks + ?", d.TasksDelta)
		}
		res := tx.Model(&models.User{}).Where("id = ?", d.Actor.ID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: user %d", ErrActorNotFound, d.Actor.ID)
		}

		// Read back the running total so the history row carries it, and
		// keep the derived level in step.
		var total int64
		if err := tx.Model(&models.User{}).Where("id = ?", d.Actor.ID).
			Pluck("current_xp", &total).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", d.Actor.ID).
			Update("level", models.LevelForXP(total)).Error; err != nil {
			return err
		}
		return tx.Create(&models.XPHistory{
			UserID:      d.Actor.ID,
			Amount:      d.Amount,
			TotalXP:     total,
			Reason:      d.Reason,
			Category:    d.Category,
			PerformedBy: d.PerformedBy,
		}).Error

	case ActorBase:
		updates := map[string]interface{}{
			"total_xp": gorm.Expr("total_xp + ?", d.Amount),
		}
		if d.TasksDelta != 0 {
			updates["completed_tasks"] = gorm.Expr("completed_tasks + ?", d.TasksDelta)
		}
		res := tx.Model(&models.Base{}).Where("id = ?", d.Actor.ID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: base %d", ErrActorNotFound, d.Actor.ID)
		}

		var total int64
		if err := tx.Model(&models.Base{}).Where("id = ?", d.Actor.ID).
			Pluck("total_xp", &total).Error; err != nil {
			return err
		}
		return tx.Create(&models.BaseXPHistory{
			BaseID:      d.Actor.ID,
			Amount:      d.Amount,
			TotalXP:     total,
			Reason:      d.Reason,
			Category:    d.Category,
			PerformedBy: d.PerformedBy,
		}).Error

	default:
		return fmt.Errorf("%w: kind %q", ErrActorNotFound, d.Actor.Kind)
	}
}
