package ledger

import (
	"context"
	"log"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

// ResetChunkSize bounds how many rows each delete/update batch touches.
const ResetChunkSize = 400

// ConfirmationPhrase must be typed verbatim before a reset runs.
const ConfirmationPhrase = "RESETAR AGORA"

// ResetOptions selects the reset scope and categories. A nil BaseID means
// every base.
type ResetOptions struct {
	BaseID      *uint `json:"base_id,omitempty"`
	XP          bool  `json:"xp"`
	History     bool  `json:"history"`
	Attendance  bool  `json:"attendance"`
	Submissions bool  `json:"submissions"`
}

// Items lists the selected categories the way the confirmation dialog shows
// them.
func (o ResetOptions) Items() []string {
	var items []string
	if o.XP {
		items = append(items, "Pontuação (XP) dos membros")
	}
	if o.History {
		items = append(items, "Histórico de Pontos")
	}
	if o.Attendance {
		items = append(items, "Chamadas")
	}
	if o.Submissions {
		items = append(items, "Submissões")
	}
	return items
}

// ResetReport counts what a reset touched.
type ResetReport struct {
	UsersReset         int64 `json:"users_reset"`
	HistoryDeleted     int64 `json:"history_deleted"`
	AttendanceDeleted  int64 `json:"attendance_deleted"`
	SubmissionsDeleted int64 `json:"submissions_deleted"`
}

// chunkIDs splits ids into slices of at most size.
func chunkIDs(ids []uint, size int) [][]uint {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]uint, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// DangerReset irreversibly zeroes the selected data for the scope. Updates
// and deletes are chunked; per-user history deletes run one user at a time,
// sequentially. Slow on purpose: this is the destructive path.
func (s *Service) DangerReset(ctx context.Context, o ResetOptions, confirmation string) (*ResetReport, error) {
	if confirmation != ConfirmationPhrase {
		return nil, ErrBadConfirmation
	}
	if len(o.Items()) == 0 {
		return nil, ErrNothingSelected
	}

	db := s.db.WithContext(ctx)
	report := &ResetReport{}

	if o.XP || o.History {
		userQuery := db.Model(&models.User{})
		if o.BaseID != nil {
			userQuery = userQuery.Where("base_id = ?", *o.BaseID)
		}
		var userIDs []uint
		if err := userQuery.Pluck("id", &userIDs).Error; err != nil {
			return report, err
		}
		log.Printf("[reset] %d users in scope", len(userIDs))

		if o.XP {
			for _, chunk := range chunkIDs(userIDs, ResetChunkSize) {
				res := db.Model(&models.User{}).Where("id IN ?", chunk).Updates(map[string]interface{}{
					"current_xp":      0,
					"level":           1,
					"completed_tasks": 0,
				})
				if res.Error != nil {
					return report, res.Error
				}
				report.UsersReset += res.RowsAffected
			}

			baseQuery := db.Model(&models.Base{})
			if o.BaseID != nil {
				baseQuery = baseQuery.Where("id = ?", *o.BaseID)
			}
			if err := baseQuery.Updates(map[string]interface{}{
				"total_xp":        0,
				"completed_tasks": 0,
			}).Error; err != nil {
				return report, err
			}
		}

		if o.History {
			for _, uid := range userIDs {
				res := db.Where("user_id = ?", uid).Delete(&models.XPHistory{})
				if res.Error != nil {
					return report, res.Error
				}
				report.HistoryDeleted += res.RowsAffected
			}

			baseHistory := db.Where("1 = 1")
			if o.BaseID != nil {
				baseHistory = db.Where("base_id = ?", *o.BaseID)
			}
			res := baseHistory.Delete(&models.BaseXPHistory{})
			if res.Error != nil {
				return report, res.Error
			}
			report.HistoryDeleted += res.RowsAffected
		}
	}

	if o.Attendance {
		q := db.Where("1 = 1")
		if o.BaseID != nil {
			q = db.Where("base_id = ?", *o.BaseID)
		}
		res := q.Delete(&models.AttendanceDay{})
		if res.Error != nil {
			return report, res.Error
		}
		report.AttendanceDeleted = res.RowsAffected
	}

	if o.Submissions {
		q := db.Where("1 = 1")
		if o.BaseID != nil {
			q = db.Where("base_id = ?", *o.BaseID)
		}
		res := q.Delete(&models.Submission{})
		if res.Error != nil {
			return report, res.Error
		}
		report.SubmissionsDeleted = res.RowsAffected

		bq := db.Where("1 = 1")
		if o.BaseID != nil {
			bq = db.Where("base_id = ?", *o.BaseID)
		}
		bres := bq.Delete(&models.BaseSubmission{})
		if bres.Error != nil {
			return report, bres.Error
		}
		report.SubmissionsDeleted += bres.RowsAffected
	}

	log.Printf("[reset] done: users=%d history=%d attendance=%d submissions=%d",
		report.UsersReset, report.HistoryDeleted, report.AttendanceDeleted, report.SubmissionsDeleted)
	return report, nil
}
