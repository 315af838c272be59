package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

func TestApproveSubmission_BalanceMatchesHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	member := seedMember(t, db, "ana", nil)
	task := seedTask(t, db, "Leitura da Semana", 120)

	sub, err := svc.SubmitProof(ctx, task, member, models.Proof{Kind: models.ProofCheck})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	approved, err := svc.ApproveSubmission(ctx, sub.ID, 99, nil)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.StatusApproved || approved.AwardedXP == nil || *approved.AwardedXP != 120 {
		t.Fatalf("unexpected approval state: %+v", approved)
	}

	got := userBalance(t, db, member.ID)
	entries := historyFor(t, db, member.ID)
	if got.CurrentXP != 120 || got.CompletedTasks != 1 {
		t.Fatalf("balance = %d / %d tasks, want 120 / 1", got.CurrentXP, got.CompletedTasks)
	}
	// The aggregate column and the entry sum must never drift apart.
	if sumHistory(entries) != got.CurrentXP {
		t.Fatalf("history sums to %d, aggregate says %d", sumHistory(entries), got.CurrentXP)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single entry, got %d", len(entries))
	}
	if entries[0].Reason != "Tarefa: Leitura da Semana" {
		t.Fatalf("entry reason = %q", entries[0].Reason)
	}
	if entries[0].Category != models.CategoryTask {
		t.Fatalf("entry category = %q", entries[0].Category)
	}
	if entries[0].TotalXP != 120 {
		t.Fatalf("entry running total = %d, want 120", entries[0].TotalXP)
	}
}

func TestRevokeSubmission_NetsToZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	member := seedMember(t, db, "bia", nil)
	task := seedTask(t, db, "Projeto Missionário", 200)

	sub, err := svc.SubmitProof(ctx, task, member, models.Proof{Kind: models.ProofCheck})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.ApproveSubmission(ctx, sub.ID, 99, nil); err != nil {
		t.Fatalf("approve: %v", err)
	}
	revoked, err := svc.RevokeSubmission(ctx, sub.ID, 99)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked.Status != models.StatusPending || revoked.AwardedXP != nil {
		t.Fatalf("revoked submission should be pending again: %+v", revoked)
	}

	got := userBalance(t, db, member.ID)
	if got.CurrentXP != 0 || got.CompletedTasks != 0 {
		t.Fatalf("balance after revoke = %d / %d tasks, want 0 / 0", got.CurrentXP, got.CompletedTasks)
	}
	// The original credit stays; the debit is a second, negative entry.
	entries := historyFor(t, db, member.ID)
	if len(entries) != 2 {
		t.Fatalf("expected credit + debit entries, got %d", len(entries))
	}
	if sumHistory(entries) != 0 {
		t.Fatalf("entries sum to %d, want 0", sumHistory(entries))
	}
	debit := entries[1]
	if debit.Amount != -200 || debit.Category != models.CategoryRevocation {
		t.Fatalf("debit entry = %+v", debit)
	}
	if debit.Reason != "Revogação: Projeto Missionário" {
		t.Fatalf("debit reason = %q", debit.Reason)
	}
}

func TestApproveSubmission_ReplayRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	member := seedMember(t, db, "carla", nil)
	task := seedTask(t, db, "Estudo Bíblico", 80)

	sub, err := svc.SubmitProof(ctx, task, member, models.Proof{Kind: models.ProofCheck})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.ApproveSubmission(ctx, sub.ID, 99, nil); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.ApproveSubmission(ctx, sub.ID, 99, nil); !errors.Is(err, ErrNotPending) {
		t.Fatalf("replayed approval: got %v, want ErrNotPending", err)
	}

	got := userBalance(t, db, member.ID)
	if got.CurrentXP != 80 {
		t.Fatalf("replay must not double-credit: balance = %d", got.CurrentXP)
	}
	if entries := historyFor(t, db, member.ID); len(entries) != 1 {
		t.Fatalf("replay must not append entries: got %d", len(entries))
	}
}

func TestResubmission_ClearsRejectionFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	member := seedMember(t, db, "davi", nil)
	task := seedTask(t, db, "Foto do PG", 50)

	sub, err := svc.SubmitProof(ctx, task, member, models.Proof{Kind: models.ProofCheck})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.RejectSubmission(ctx, sub.ID, 99, "Foto ilegível"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	resub, err := svc.SubmitProof(ctx, task, member, models.Proof{Kind: models.ProofCheck})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if resub.Status != models.StatusPending {
		t.Fatalf("resubmission status = %q, want pending", resub.Status)
	}
	// The old rejection note must not shadow the fresh attempt.
	if resub.Feedback != nil {
		t.Fatalf("resubmission still carries feedback %q", *resub.Feedback)
	}

	var stored models.Submission
	if err := db.First(&stored, "id = ?", sub.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Feedback != nil {
		t.Fatalf("stored submission still carries feedback %q", *stored.Feedback)
	}
	if len(stored.Timeline) != 3 {
		t.Fatalf("timeline should keep submit/reject/resubmit, got %d events", len(stored.Timeline))
	}
}

func TestRevokeBaseSubmission_NetsToZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	base := &models.Base{Name: "Base Alfa", DistrictID: 1}
	if err := db.Create(base).Error; err != nil {
		t.Fatalf("seed base: %v", err)
	}
	task := seedTask(t, db, "Mutirão", 300)

	sub, err := svc.SubmitBaseProof(ctx, task, base, 5, models.Proof{Kind: models.ProofCheck})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.ApproveBaseSubmission(ctx, sub.ID, 99, nil); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.RevokeBaseSubmission(ctx, sub.ID, 99); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	var got models.Base
	if err := db.First(&got, base.ID).Error; err != nil {
		t.Fatalf("reload base: %v", err)
	}
	if got.TotalXP != 0 || got.CompletedTasks != 0 {
		t.Fatalf("base balance after revoke = %d / %d tasks, want 0 / 0", got.TotalXP, got.CompletedTasks)
	}
	var entries []models.BaseXPHistory
	if err := db.Where("base_id = ?", base.ID).Order("id ASC").Find(&entries).Error; err != nil {
		t.Fatalf("load base history: %v", err)
	}
	if len(entries) != 2 || entries[0].Amount+entries[1].Amount != 0 {
		t.Fatalf("base entries must net to zero: %+v", entries)
	}
	if entries[1].Category != models.CategoryRevocation {
		t.Fatalf("debit category = %q", entries[1].Category)
	}
}
