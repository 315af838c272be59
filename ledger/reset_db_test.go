package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

func TestDangerReset_RequiresConfirmation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.DangerReset(context.Background(), ResetOptions{XP: true}, "resetar agora")
	if !errors.Is(err, ErrBadConfirmation) {
		t.Fatalf("got %v, want ErrBadConfirmation", err)
	}
	_, err = svc.DangerReset(context.Background(), ResetOptions{}, ConfirmationPhrase)
	if !errors.Is(err, ErrNothingSelected) {
		t.Fatalf("got %v, want ErrNothingSelected", err)
	}
}

func TestDangerReset_ScopedToOneBase(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	alfa := &models.Base{Name: "Base Alfa", DistrictID: 1, TotalXP: 500}
	beta := &models.Base{Name: "Base Beta", DistrictID: 1, TotalXP: 700}
	if err := db.Create(alfa).Error; err != nil {
		t.Fatalf("seed base: %v", err)
	}
	if err := db.Create(beta).Error; err != nil {
		t.Fatalf("seed base: %v", err)
	}

	insideID := alfa.ID
	outsideID := beta.ID
	inside := seedMember(t, db, "ana", &insideID)
	outside := seedMember(t, db, "bia", &outsideID)

	w := NewWriter(db)
	for _, d := range []Delta{
		{Actor: UserActor(inside.ID), Amount: 100, Reason: "Tarefa: A", Category: models.CategoryTask, TasksDelta: 1},
		{Actor: UserActor(outside.ID), Amount: 250, Reason: "Tarefa: B", Category: models.CategoryTask, TasksDelta: 1},
	} {
		if err := w.ApplyDelta(ctx, d); err != nil {
			t.Fatalf("apply delta: %v", err)
		}
	}

	report, err := svc.DangerReset(ctx, ResetOptions{
		BaseID:  &insideID,
		XP:      true,
		History: true,
	}, ConfirmationPhrase)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if report.UsersReset != 1 {
		t.Fatalf("users reset = %d, want 1", report.UsersReset)
	}

	got := userBalance(t, db, inside.ID)
	if got.CurrentXP != 0 || got.CompletedTasks != 0 || got.Level != 1 {
		t.Fatalf("in-scope member not zeroed: %+v", got)
	}
	if entries := historyFor(t, db, inside.ID); len(entries) != 0 {
		t.Fatalf("in-scope history should be gone, %d rows remain", len(entries))
	}

	// The other base's members and history are untouched.
	kept := userBalance(t, db, outside.ID)
	if kept.CurrentXP != 250 || kept.CompletedTasks != 1 {
		t.Fatalf("out-of-scope member was touched: %+v", kept)
	}
	if entries := historyFor(t, db, outside.ID); len(entries) != 1 {
		t.Fatalf("out-of-scope history was touched, %d rows remain", len(entries))
	}

	var keptBase models.Base
	if err := db.First(&keptBase, beta.ID).Error; err != nil {
		t.Fatalf("reload base: %v", err)
	}
	if keptBase.TotalXP != 700 {
		t.Fatalf("out-of-scope base total = %d, want 700", keptBase.TotalXP)
	}
	var resetBase models.Base
	if err := db.First(&resetBase, alfa.ID).Error; err != nil {
		t.Fatalf("reload base: %v", err)
	}
	if resetBase.TotalXP != 0 {
		t.Fatalf("in-scope base total = %d, want 0", resetBase.TotalXP)
	}
}
