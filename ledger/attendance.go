package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

// AttendanceChunkSize bounds how many member deltas commit per transaction.
// Chunks commit sequentially; a failure mid-sequence leaves earlier chunks
// applied. That matches the backend's write-batch limit behaviour and is
// reported to the caller as a partial-save error.
const AttendanceChunkSize = 50

// MarksTotal scores one member's row: presence weight only when present,
// every other checked criterion at its configured weight.
func MarksTotal(m models.MemberMarks, cfg []models.AttendanceCriterion) int64 {
	var total int64
	for _, c := range cfg {
		if c.ID == "presence" {
			if m.Present {
				total += c.Points
			}
			continue
		}
		if m.Criteria[c.ID] {
			total += c.Points
		}
	}
	return total
}

// PlanAttendance computes the per-member ledger deltas between a previously
// saved day and the new grid. Members whose total did not change produce no
// delta at all; members present in the saved day but missing from the new
// grid have their earlier credit reversed.
func PlanAttendance(old, next []models.MemberMarks, cfg []models.AttendanceCriterion, date string, savedBy uint) []Delta {
	oldTotals := make(map[uint]int64, len(old))
	for _, m := range old {
		oldTotals[m.UserID] = MarksTotal(m, cfg)
	}

	reason := "Chamada: " + date
	var deltas []Delta
	seen := make(map[uint]bool, len(next))
	for _, m := range next {
		seen[m.UserID] = true
		diff := MarksTotal(m, cfg) - oldTotals[m.UserID]
		if diff == 0 {
			continue
		}
		performedBy := savedBy
		deltas = append(deltas, Delta{
			Actor:       UserActor(m.UserID),
			Amount:      diff,
			Reason:      reason,
			Category:    models.CategoryAttendance,
			PerformedBy: &performedBy,
		})
	}
	for _, m := range old {
		if seen[m.UserID] || oldTotals[m.UserID] == 0 {
			continue
		}
		performedBy := savedBy
		deltas = append(deltas, Delta{
			Actor:       UserActor(m.UserID),
			Amount:      -oldTotals[m.UserID],
			Reason:      reason,
			Category:    models.CategoryAttendance,
			PerformedBy: &performedBy,
		})
	}
	return deltas
}

// SumDeltas totals the member deltas; the base aggregate moves by the same
// amount.
func SumDeltas(deltas []Delta) int64 {
	var sum int64
	for _, d := range deltas {
		sum += d.Amount
	}
	return sum
}

// chunkDeltas splits deltas into slices of at most size.
func chunkDeltas(deltas []Delta, size int) [][]Delta {
	if size <= 0 || len(deltas) == 0 {
		return nil
	}
	chunks := make([][]Delta, 0, (len(deltas)+size-1)/size)
	for start := 0; start < len(deltas); start += size {
		end := start + size
		if end > len(deltas) {
			end = len(deltas)
		}
		chunks = append(chunks, deltas[start:end])
	}
	return chunks
}

// CriteriaForBase loads a base's configured weights, falling back to the
// default set when no config row exists.
func CriteriaForBase(db *gorm.DB, baseID uint) []models.AttendanceCriterion {
	var cfg models.AttendanceConfig
	if err := db.First(&cfg, "base_id = ?", baseID).Error; err == nil && len(cfg.Criteria) > 0 {
		return cfg.Criteria
	}
	return models.DefaultCriteria()
}

// SaveAttendance upserts the canonical day record for (base, date), locks
// it, and applies the non-zero member deltas plus the base total in chunks.
// The day record commits first; delta chunks follow sequentially.
func (s *Service) SaveAttendance(ctx context.Context, baseID uint, date string, quarterID *uint, marks []models.MemberMarks, savedBy uint) error {
	db := s.db.WithContext(ctx)
	id := models.AttendanceDayID(baseID, date)

	var old []models.MemberMarks
	var existing models.AttendanceDay
	err := db.First(&existing, "id = ?", id).Error
	switch {
	case err == nil:
		if existing.Locked {
			return ErrDayLocked
		}
		old = existing.Marks
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first save of this date
	default:
		return err
	}

	cfg := CriteriaForBase(db, baseID)
	deltas := PlanAttendance(old, marks, cfg, date, savedBy)
	baseDelta := SumDeltas(deltas)

	day := models.AttendanceDay{
		ID:        id,
		BaseID:    baseID,
		Date:      date,
		QuarterID: quarterID,
		Marks:     marks,
		Locked:    true,
		SavedBy:   savedBy,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&day).Error; err != nil {
		return err
	}

	for i, chunk := range chunkDeltas(deltas, AttendanceChunkSize) {
		chunk := chunk
		if err := db.Transaction(func(tx *gorm.DB) error {
			for _, d := range chunk {
				if err := applyDelta(tx, d); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return fmt.Errorf("attendance save partially applied (chunk %d): %w", i+1, err)
		}
	}

	if baseDelta != 0 {
		if err := db.Transaction(func(tx *gorm.DB) error {
			return applyDelta(tx, Delta{
				Actor:       BaseActor(baseID),
				Amount:      baseDelta,
				Reason:      "Chamada: " + date,
				Category:    models.CategoryAttendance,
				PerformedBy: &savedBy,
			})
		}); err != nil {
			return fmt.Errorf("attendance base total not applied: %w", err)
		}
	}
	return nil
}
