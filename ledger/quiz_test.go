package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

func sampleQuestions() []models.QuizQuestion {
	return []models.QuizQuestion{
		{Text: "Pergunta 1", Options: []string{"a", "b"}, CorrectAnswer: 0, Points: 10},
		{Text: "Pergunta 2", Options: []string{"a", "b", "c"}, CorrectAnswer: 2, Points: 20},
		{Text: "Pergunta 3", Options: []string{"a", "b"}, CorrectAnswer: 1, Points: 30},
	}
}

func TestGradeQuiz(t *testing.T) {
	questions := sampleQuestions()
	cases := []struct {
		name        string
		answers     []int
		wantScore   int64
		wantCorrect int
	}{
		{"all correct", []int{0, 2, 1}, 60, 3},
		{"all wrong", []int{1, 0, 0}, 0, 0},
		{"first timed out", []int{-1, 2, 1}, 50, 2},
		{"short answer slice", []int{0}, 10, 1},
		{"out of range pick", []int{5, 2, 1}, 50, 2},
		{"no answers", nil, 0, 0},
	}
	for _, tc := range cases {
		score, correct := GradeQuiz(questions, tc.answers)
		if score != tc.wantScore || correct != tc.wantCorrect {
			t.Errorf("%s: got %d XP / %d correct, want %d / %d",
				tc.name, score, correct, tc.wantScore, tc.wantCorrect)
		}
	}
}

func seedQuiz(t *testing.T, db *gorm.DB, title string) *models.Quiz {
	t.Helper()
	quiz := &models.Quiz{
		Title:     title,
		Questions: sampleQuestions(),
		XPReward:  60,
		Scope:     models.ScopeGlobal,
		Active:    true,
	}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	return quiz
}

func TestSubmitQuizAttempt_CreditsOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	member := seedMember(t, db, "ana", nil)
	quiz := seedQuiz(t, db, "Heróis da Fé")

	attempt, err := svc.SubmitQuizAttempt(ctx, quiz, member, []int{0, 2, 0})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempt.Score != 30 || attempt.CorrectCount != 2 || attempt.TotalQuestions != 3 {
		t.Fatalf("unexpected grading: %+v", attempt)
	}

	got := userBalance(t, db, member.ID)
	if got.CurrentXP != 30 {
		t.Fatalf("balance = %d, want 30", got.CurrentXP)
	}
	entries := historyFor(t, db, member.ID)
	if len(entries) != 1 || entries[0].Category != models.CategoryQuiz {
		t.Fatalf("unexpected history: %+v", entries)
	}
	if entries[0].Reason != "Quiz: Heróis da Fé" {
		t.Fatalf("entry reason = %q", entries[0].Reason)
	}

	// Second attempt hits the composite key, never the balance.
	if _, err := svc.SubmitQuizAttempt(ctx, quiz, member, []int{0, 2, 1}); !errors.Is(err, ErrQuizAttempted) {
		t.Fatalf("replay: got %v, want ErrQuizAttempted", err)
	}
	if got := userBalance(t, db, member.ID); got.CurrentXP != 30 {
		t.Fatalf("replay must not re-credit: balance = %d", got.CurrentXP)
	}
}

func TestSubmitQuizAttempt_ClosedQuiz(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	member := seedMember(t, db, "bia", nil)
	quiz := seedQuiz(t, db, "Quiz Encerrado")
	past := time.Now().UTC().Add(-time.Hour)
	quiz.EndAt = &past

	if _, err := svc.SubmitQuizAttempt(context.Background(), quiz, member, []int{0, 2, 1}); !errors.Is(err, ErrQuizNotAvailable) {
		t.Fatalf("got %v, want ErrQuizNotAvailable", err)
	}
}

func TestResetQuizAttempt_DebitsAndDeletes(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	member := seedMember(t, db, "davi", nil)
	quiz := seedQuiz(t, db, "Profetas Menores")

	if _, err := svc.SubmitQuizAttempt(ctx, quiz, member, []int{0, 2, 1}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.ResetQuizAttempt(ctx, quiz.ID, member.ID, 99); err != nil {
		t.Fatalf("reset: %v", err)
	}

	var attempt models.QuizAttempt
	err := db.First(&attempt, "id = ?", models.SubmissionID(quiz.ID, member.ID)).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("attempt should be deleted, got %v", err)
	}

	got := userBalance(t, db, member.ID)
	if got.CurrentXP != 0 {
		t.Fatalf("balance after reset = %d, want 0", got.CurrentXP)
	}
	entries := historyFor(t, db, member.ID)
	if len(entries) != 2 || sumHistory(entries) != 0 {
		t.Fatalf("reset must debit with a new entry: %+v", entries)
	}
	if entries[1].Category != models.CategoryRevocation {
		t.Fatalf("debit category = %q", entries[1].Category)
	}

	// The member can answer again after the reset.
	if _, err := svc.SubmitQuizAttempt(ctx, quiz, member, []int{0, 0, 1}); err != nil {
		t.Fatalf("retake after reset: %v", err)
	}
}
