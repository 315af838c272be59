package ledger

import (
	"testing"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

func TestDeltaInverse_NetZero(t *testing.T) {
	reviewer := uint(7)
	credit := Delta{
		Actor:       UserActor(42),
		Amount:      100,
		Reason:      "Tarefa: Semana de Oração",
		Category:    models.CategoryTask,
		TasksDelta:  1,
		PerformedBy: &reviewer,
	}
	debit := credit.Inverse("Revogação: Semana de Oração")

	if credit.Amount+debit.Amount != 0 {
		t.Fatalf("approve+revoke must sum to zero, got %d", credit.Amount+debit.Amount)
	}
	if credit.TasksDelta+debit.TasksDelta != 0 {
		t.Fatalf("completed-tasks round trip must be net zero")
	}
	if debit.Category != models.CategoryRevocation {
		t.Fatalf("inverse category = %q, want revocation", debit.Category)
	}
	if debit.Actor != credit.Actor {
		t.Fatal("inverse must target the same actor")
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range []string{
		models.CategoryTask, models.CategoryRevocation, models.CategoryAttendance,
		models.CategoryQuiz, models.CategoryManual, models.CategoryEvent,
	} {
		if !validCategory(c) {
			t.Fatalf("category %q should be valid", c)
		}
	}
	if validCategory("bonus") {
		t.Fatal("unknown category accepted")
	}
}

func TestChunkIDs(t *testing.T) {
	ids := make([]uint, 801)
	chunks := chunkIDs(ids, ResetChunkSize)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 801 ids, got %d", len(chunks))
	}
	if len(chunks[2]) != 1 {
		t.Fatalf("last chunk size = %d, want 1", len(chunks[2]))
	}
	if chunkIDs(nil, ResetChunkSize) != nil {
		t.Fatal("empty input should produce no chunks")
	}
}

func TestResetOptions_Items(t *testing.T) {
	if items := (ResetOptions{}).Items(); len(items) != 0 {
		t.Fatalf("no selection should list no items, got %v", items)
	}
	all := ResetOptions{XP: true, History: true, Attendance: true, Submissions: true}
	if items := all.Items(); len(items) != 4 {
		t.Fatalf("full selection should list 4 items, got %v", items)
	}
}
