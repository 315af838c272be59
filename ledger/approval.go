package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

// Service owns the submission workflow: create, approve, reject, revoke,
// attendance saves and the danger-zone reset. Every state transition that
// moves points runs its aggregate update, history append, submission update
// and notification enqueue inside one transaction.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SubmitProof upserts a member submission at its deterministic composite
// key. A resubmission after rejection overwrites the proof and resets the
// status to pending; the prior rejection feedback stays in the timeline.
func (s *Service) SubmitProof(ctx context.Context, task *models.Task, user *models.User, proof models.Proof) (*models.Submission, error) {
	if err := proof.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if !task.AvailableAt(now) {
		return nil, ErrTaskNotAvailable
	}

	id := models.SubmissionID(task.ID, user.ID)
	var sub models.Submission

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Submission
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, "id = ?", id).Error
		switch {
		case err == nil:
			if existing.Status == models.StatusApproved {
				return ErrNotPending
			}
			sub = existing
			sub.Timeline = append(sub.Timeline, models.TimelineEvent{
				Action:    "resubmitted",
				ActorID:   user.ID,
				Timestamp: now,
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			sub = models.Submission{
				ID:         id,
				TaskID:     task.ID,
				UserID:     user.ID,
				BaseID:     user.BaseID,
				DistrictID: user.DistrictID,
				Timeline: []models.TimelineEvent{{
					Action:    "submitted",
					ActorID:   user.ID,
					Timestamp: now,
				}},
			}
		default:
			return err
		}

		sub.TaskTitle = task.Title
		sub.Proof = proof
		sub.XPReward = task.Points
		sub.SubmittedAt = now
		sub.Status = models.StatusPending
		sub.AwardedXP = nil
		sub.Feedback = nil
		sub.ReviewedAt = nil
		sub.ReviewedBy = nil
		return tx.Save(&sub).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// SubmitBaseProof is the collective-task counterpart, keyed by
// `${taskID}_${baseID}`.
func (s *Service) SubmitBaseProof(ctx context.Context, task *models.Task, base *models.Base, submittedBy uint, proof models.Proof) (*models.BaseSubmission, error) {
	if err := proof.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if !task.AvailableAt(now) {
		return nil, ErrTaskNotAvailable
	}

	id := models.SubmissionID(task.ID, base.ID)
	var sub models.BaseSubmission

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.BaseSubmission
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, "id = ?", id).Error
		switch {
		case err == nil:
			if existing.Status == models.StatusApproved {
				return ErrNotPending
			}
			sub = existing
			sub.Timeline = append(sub.Timeline, models.TimelineEvent{
				Action:    "resubmitted",
				ActorID:   submittedBy,
				Timestamp: now,
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			districtID := base.DistrictID
			sub = models.BaseSubmission{
				ID:         id,
				TaskID:     task.ID,
				BaseID:     base.ID,
				DistrictID: &districtID,
				Timeline: []models.TimelineEvent{{
					Action:    "submitted",
					ActorID:   submittedBy,
					Timestamp: now,
				}},
			}
		default:
			return err
		}

		sub.TaskTitle = task.Title
		sub.Proof = proof
		sub.XPReward = task.Points
		sub.SubmittedAt = now
		sub.Status = models.StatusPending
		sub.AwardedXP = nil
		sub.Feedback = nil
		sub.ReviewedAt = nil
		sub.ReviewedBy = nil
		return tx.Save(&sub).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ApproveSubmission moves a pending submission to approved and credits the
// member. The pending guard runs under a row lock, so a replayed or
// concurrent approval fails with ErrNotPending instead of double-crediting.
// finalXP overrides the computed award when the reviewer adjusts it.
func (s *Service) ApproveSubmission(ctx context.Context, id string, reviewerID uint, finalXP *int64) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sub, "id = ?", id).Error; err != nil {
			return err
		}
		if sub.Status != models.StatusPending {
			return ErrNotPending
		}

		award := awardFor(tx, &sub, finalXP)
		now := time.Now().UTC()
		sub.Status = models.StatusApproved
		sub.AwardedXP = &award
		sub.ReviewedAt = &now
		sub.ReviewedBy = &reviewerID
		sub.Timeline = append(sub.Timeline, models.TimelineEvent{
			Action:    "approved",
			ActorID:   reviewerID,
			Timestamp: now,
			Note:      fmt.Sprintf("%d XP", award),
		})
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}

		if award != 0 {
			if err := applyDelta(tx, Delta{
				Actor:       UserActor(sub.UserID),
				Amount:      award,
				Reason:      "Tarefa: " + sub.TaskTitle,
				Category:    models.CategoryTask,
				TasksDelta:  1,
				PerformedBy: &reviewerID,
			}); err != nil {
				return err
			}
		}

		userID := sub.UserID
		return tx.Create(&models.Notification{
			UserID:  &userID,
			Title:   "Tarefa Aprovada! 🎉",
			Message: fmt.Sprintf("Sua prova para %q foi validada. Você ganhou %d XP!", sub.TaskTitle, award),
			Type:    "success",
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// RejectSubmission stores the feedback note. No ledger effect.
func (s *Service) RejectSubmission(ctx context.Context, id string, reviewerID uint, feedback string) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sub, "id = ?", id).Error; err != nil {
			return err
		}
		if sub.Status != models.StatusPending {
			return ErrNotPending
		}

		now := time.Now().UTC()
		sub.Status = models.StatusRejected
		sub.Feedback = &feedback
		sub.ReviewedAt = &now
		sub.ReviewedBy = &reviewerID
		sub.Timeline = append(sub.Timeline, models.TimelineEvent{
			Action:    "rejected",
			ActorID:   reviewerID,
			Timestamp: now,
			Note:      feedback,
		})
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}

		userID := sub.UserID
		return tx.Create(&models.Notification{
			UserID:  &userID,
			Title:   "Tarefa Recusada ⚠️",
			Message: fmt.Sprintf("Sua prova para %q foi recusada. Motivo: %s", sub.TaskTitle, feedback),
			Type:    "warning",
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// RevokeSubmission undoes an approval: inverse delta, status back to
// pending. The original approval's history entry stays; the debit is a new
// negative entry. Notifications already sent are not removed.
func (s *Service) RevokeSubmission(ctx context.Context, id string, reviewerID uint) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sub, "id = ?", id).Error; err != nil {
			return err
		}
		if sub.Status != models.StatusApproved || sub.AwardedXP == nil {
			return ErrNotApproved
		}

		awarded := *sub.AwardedXP
		now := time.Now().UTC()
		sub.Status = models.StatusPending
		sub.AwardedXP = nil
		sub.ReviewedAt = nil
		sub.ReviewedBy = nil
		sub.Timeline = append(sub.Timeline, models.TimelineEvent{
			Action:    "revoked",
			ActorID:   reviewerID,
			Timestamp: now,
			Note:      fmt.Sprintf("-%d XP", awarded),
		})
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}

		if awarded == 0 {
			return nil
		}
		grant := Delta{
			Actor:       UserActor(sub.UserID),
			Amount:      awarded,
			Category:    models.CategoryTask,
			TasksDelta:  1,
			PerformedBy: &reviewerID,
		}
		return applyDelta(tx, grant.Inverse("Revogação: "+sub.TaskTitle))
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ApproveBaseSubmission is the collective counterpart of ApproveSubmission,
// crediting the base aggregate.
func (s *Service) ApproveBaseSubmission(ctx context.Context, id string, reviewerID uint, finalXP *int64) (*models.BaseSubmission, error) {
	var sub models.BaseSubmission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sub, "id = ?", id).Error; err != nil {
			return err
		}
		if sub.Status != models.StatusPending {
			return ErrNotPending
		}

		var award int64
		if finalXP != nil {
			award = *finalXP
		} else {
			var task models.Task
			deadline := (*time.Time)(nil)
			if err := tx.First(&task, sub.TaskID).Error; err == nil {
				deadline = task.Deadline
			}
			award = AwardPoints(sub.XPReward, deadline, sub.SubmittedAt)
		}

		now := time.Now().UTC()
		sub.Status = models.StatusApproved
		sub.AwardedXP = &award
		sub.ReviewedAt = &now
		sub.ReviewedBy = &reviewerID
		sub.Timeline = append(sub.Timeline, models.TimelineEvent{
			Action:    "approved",
			ActorID:   reviewerID,
			Timestamp: now,
			Note:      fmt.Sprintf("%d XP", award),
		})
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}

		if award != 0 {
			if err := applyDelta(tx, Delta{
				Actor:       BaseActor(sub.BaseID),
				Amount:      award,
				Reason:      "Tarefa: " + sub.TaskTitle,
				Category:    models.CategoryTask,
				TasksDelta:  1,
				PerformedBy: &reviewerID,
			}); err != nil {
				return err
			}
		}

		baseID := sub.BaseID
		return tx.Create(&models.Notification{
			BaseID:  &baseID,
			Title:   "Tarefa Aprovada! 🎉",
			Message: fmt.Sprintf("A prova da base para %q foi validada. A base ganhou %d XP!", sub.TaskTitle, award),
			Type:    "success",
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// RejectBaseSubmission stores feedback on a collective submission.
func (s *Service) RejectBaseSubmission(ctx context.Context, id string, reviewerID uint, feedback string) (*models.BaseSubmission, error) {
	var sub models.BaseSubmission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sub, "id = ?", id).Error; err != nil {
			return err
		}
		if sub.Status != models.StatusPending {
			return ErrNotPending
		}

		now := time.Now().UTC()
		sub.Status = models.StatusRejected
		sub.Feedback = &feedback
		sub.ReviewedAt = &now
		sub.ReviewedBy = &reviewerID
		sub.Timeline = append(sub.Timeline, models.TimelineEvent{
			Action:    "rejected",
			ActorID:   reviewerID,
			Timestamp: now,
			Note:      feedback,
		})
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}

		baseID := sub.BaseID
		return tx.Create(&models.Notification{
			BaseID:  &baseID,
			Title:   "Tarefa Recusada ⚠️",
			Message: fmt.Sprintf("A prova da base para %q foi recusada. Motivo: %s", sub.TaskTitle, feedback),
			Type:    "warning",
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// RevokeBaseSubmission undoes a collective approval.
func (s *Service) RevokeBaseSubmission(ctx context.Context, id string, reviewerID uint) (*models.BaseSubmission, error) {
	var sub models.BaseSubmission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sub, "id = ?", id).Error; err != nil {
			return err
		}
		if sub.Status != models.StatusApproved || sub.AwardedXP == nil {
			return ErrNotApproved
		}

		awarded := *sub.AwardedXP
		now := time.Now().UTC()
		sub.Status = models.StatusPending
		sub.AwardedXP = nil
		sub.ReviewedAt = nil
		sub.ReviewedBy = nil
		sub.Timeline = append(sub.Timeline, models.TimelineEvent{
			Action:    "revoked",
			ActorID:   reviewerID,
			Timestamp: now,
			Note:      fmt.Sprintf("-%d XP", awarded),
		})
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}

		if awarded == 0 {
			return nil
		}
		grant := Delta{
			Actor:       BaseActor(sub.BaseID),
			Amount:      awarded,
			Category:    models.CategoryTask,
			TasksDelta:  1,
			PerformedBy: &reviewerID,
		}
		return applyDelta(tx, grant.Inverse("Revogação: "+sub.TaskTitle))
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// awardFor computes the XP to credit at approval time. The task's current
// deadline decides lateness; the point value was snapshotted at submit.
func awardFor(tx *gorm.DB, sub *models.Submission, finalXP *int64) int64 {
	if finalXP != nil {
		return *finalXP
	}
	var deadline *time.Time
	var task models.Task
	if err := tx.First(&task, sub.TaskID).Error; err == nil {
		deadline = task.Deadline
	}
	return AwardPoints(sub.XPReward, deadline, sub.SubmittedAt)
}
