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

// GradeQuiz scores the picked answers against the questions. Unanswered,
// timed-out (-1) or out-of-range picks score nothing.
func GradeQuiz(questions []models.QuizQuestion, answers []int) (score int64, correct int) {
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		if answers[i] >= 0 && answers[i] == q.CorrectAnswer {
			score += q.Points
			correct++
		}
	}
	return score, correct
}

// SubmitQuizAttempt grades the answers server-side and credits the member,
// all in one transaction. One attempt per (quiz, member): the composite key
// plus a row-lock check rejects a replay with ErrQuizAttempted.
func (s *Service) SubmitQuizAttempt(ctx context.Context, quiz *models.Quiz, user *models.User, answers []int) (*models.QuizAttempt, error) {
	now := time.Now().UTC()
	if !quiz.AvailableAt(now) {
		return nil, ErrQuizNotAvailable
	}

	score, correct := GradeQuiz(quiz.Questions, answers)
	attempt := models.QuizAttempt{
		ID:             models.SubmissionID(quiz.ID, user.ID),
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		UserID:         user.ID,
		BaseID:         user.BaseID,
		Answers:        answers,
		Score:          score,
		CorrectCount:   correct,
		TotalQuestions: len(quiz.Questions),
		SubmittedAt:    now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.QuizAttempt
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, "id = ?", attempt.ID).Error
		switch {
		case err == nil:
			return ErrQuizAttempted
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first attempt
		default:
			return err
		}

		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}
		if score != 0 {
			if err := applyDelta(tx, Delta{
				Actor:    UserActor(user.ID),
				Amount:   score,
				Reason:   "Quiz: " + quiz.Title,
				Category: models.CategoryQuiz,
			}); err != nil {
				return err
			}
		}

		userID := user.ID
		return tx.Create(&models.Notification{
			UserID:  &userID,
			Title:   "Quiz Completado! 🎓",
			Message: fmt.Sprintf("Você acertou %d/%d e ganhou %d XP no quiz %q!", correct, len(quiz.Questions), score, quiz.Title),
			Type:    "success",
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// ResetQuizAttempt deletes a member's attempt so the quiz can be answered
// again. The score already credited is debited first; the attempt's history
// entries stay, the debit is a new negative entry.
func (s *Service) ResetQuizAttempt(ctx context.Context, quizID, userID uint, performedBy uint) error {
	id := models.SubmissionID(quizID, userID)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attempt models.QuizAttempt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&attempt, "id = ?", id).Error; err != nil {
			return err
		}

		if attempt.Score != 0 {
			grant := Delta{
				Actor:       UserActor(userID),
				Amount:      attempt.Score,
				Category:    models.CategoryQuiz,
				PerformedBy: &performedBy,
			}
			if err := applyDelta(tx, grant.Inverse("Revogação: Quiz "+attempt.QuizTitle)); err != nil {
				return err
			}
		}
		return tx.Delete(&models.QuizAttempt{}, "id = ?", id).Error
	})
}
