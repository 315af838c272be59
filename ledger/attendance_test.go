package ledger

import (
	"testing"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

func defaultCfg() []models.AttendanceCriterion {
	return models.DefaultCriteria()
}

func TestMarksTotal_PresenceOnly(t *testing.T) {
	m := models.MemberMarks{UserID: 1, Present: true}
	if got := MarksTotal(m, defaultCfg()); got != 50 {
		t.Fatalf("presence-only total = %d, want 50", got)
	}
}

func TestMarksTotal_Absent(t *testing.T) {
	m := models.MemberMarks{UserID: 1, Present: false}
	if got := MarksTotal(m, defaultCfg()); got != 0 {
		t.Fatalf("absent total = %d, want 0", got)
	}
}

func TestMarksTotal_AllCriteria(t *testing.T) {
	m := models.MemberMarks{
		UserID:  1,
		Present: true,
		Criteria: map[string]bool{
			"punctuality":     true,
			"lesson":          true,
			"bible":           true,
			"small_group":     true,
			"mission_project": true,
			"bible_study":     true,
		},
	}
	// 50 + 10 + 10 + 10 + 20 + 30 + 50
	if got := MarksTotal(m, defaultCfg()); got != 180 {
		t.Fatalf("full-marks total = %d, want 180", got)
	}
}

func TestPlanAttendance_DeltaIsNewMinusOld(t *testing.T) {
	old := []models.MemberMarks{
		{UserID: 1, Present: true},
	}
	next := []models.MemberMarks{
		{UserID: 1, Present: true, Criteria: map[string]bool{"punctuality": true}},
	}

	deltas := PlanAttendance(old, next, defaultCfg(), "2025-03-01", 9)
	if len(deltas) != 1 {
		t.Fatalf("expected 1 delta, got %d", len(deltas))
	}
	d := deltas[0]
	if d.Amount != 10 {
		t.Fatalf("delta = %d, want 10", d.Amount)
	}
	if d.Actor != UserActor(1) {
		t.Fatalf("unexpected actor %+v", d.Actor)
	}
	if d.Category != models.CategoryAttendance {
		t.Fatalf("category = %q, want attendance", d.Category)
	}
	if d.Reason != "Chamada: 2025-03-01" {
		t.Fatalf("reason = %q", d.Reason)
	}
}

func TestPlanAttendance_NoOpProducesNoWrite(t *testing.T) {
	marks := []models.MemberMarks{
		{UserID: 1, Present: true, Criteria: map[string]bool{"lesson": true}},
		{UserID: 2, Present: false},
	}

	deltas := PlanAttendance(marks, marks, defaultCfg(), "2025-03-01", 9)
	if len(deltas) != 0 {
		t.Fatalf("unchanged grid must produce no deltas, got %d", len(deltas))
	}
}

func TestPlanAttendance_UnmarkingGoesNegative(t *testing.T) {
	old := []models.MemberMarks{
		{UserID: 3, Present: true, Criteria: map[string]bool{"bible_study": true}},
	}
	next := []models.MemberMarks{
		{UserID: 3, Present: true},
	}

	deltas := PlanAttendance(old, next, defaultCfg(), "2025-03-08", 9)
	if len(deltas) != 1 || deltas[0].Amount != -50 {
		t.Fatalf("expected single -50 delta, got %+v", deltas)
	}
}

func TestPlanAttendance_OmittedMemberLosesCredit(t *testing.T) {
	old := []models.MemberMarks{
		{UserID: 1, Present: true, Criteria: map[string]bool{"punctuality": true}},
		{UserID: 2, Present: false},
	}
	// Member 1 dropped from the grid entirely, member 3 newly present.
	next := []models.MemberMarks{
		{UserID: 3, Present: true},
	}

	deltas := PlanAttendance(old, next, defaultCfg(), "2025-03-22", 9)
	byUser := make(map[uint]int64, len(deltas))
	for _, d := range deltas {
		byUser[d.Actor.ID] = d.Amount
	}
	if byUser[1] != -60 {
		t.Fatalf("omitted member must lose earlier credit, got %d", byUser[1])
	}
	if byUser[3] != 50 {
		t.Fatalf("new member delta = %d, want 50", byUser[3])
	}
	// Member 2 had nothing to reverse and must not appear.
	if _, ok := byUser[2]; ok {
		t.Fatal("zero-credit omitted member must produce no delta")
	}
	if len(deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %d", len(deltas))
	}
}

func TestPlanAttendance_FirstSave(t *testing.T) {
	next := []models.MemberMarks{
		{UserID: 1, Present: true},
		{UserID: 2, Present: true, Criteria: map[string]bool{"small_group": true}},
		{UserID: 3, Present: false},
	}

	deltas := PlanAttendance(nil, next, defaultCfg(), "2025-03-15", 9)
	if len(deltas) != 2 {
		t.Fatalf("expected deltas for the two present members, got %d", len(deltas))
	}
	if got := SumDeltas(deltas); got != 120 {
		t.Fatalf("base total delta = %d, want 120", got)
	}
}

func TestChunkDeltas(t *testing.T) {
	deltas := make([]Delta, 120)
	chunks := chunkDeltas(deltas, AttendanceChunkSize)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 50 || len(chunks[1]) != 50 || len(chunks[2]) != 20 {
		t.Fatalf("unexpected chunk sizes: %d/%d/%d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
}
