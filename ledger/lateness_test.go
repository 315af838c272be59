package ledger

import (
	"testing"
	"time"
)

func TestIsLate_NoDeadline(t *testing.T) {
	if IsLate(nil, time.Now()) {
		t.Fatal("submission without deadline must never be late")
	}
}

func TestIsLate_Threshold(t *testing.T) {
	deadline := time.Date(2025, 1, 10, 23, 59, 59, 0, time.UTC)

	if IsLate(&deadline, deadline) {
		t.Fatal("submission exactly at the deadline is not late")
	}
	if IsLate(&deadline, deadline.Add(-time.Second)) {
		t.Fatal("submission before the deadline is not late")
	}
	if !IsLate(&deadline, deadline.Add(time.Second)) {
		t.Fatal("submission after the deadline must be late")
	}
}

func TestAwardPoints_OnTime(t *testing.T) {
	deadline := time.Date(2025, 1, 10, 23, 59, 59, 0, time.UTC)
	got := AwardPoints(100, &deadline, deadline.Add(-time.Hour))
	if got != 100 {
		t.Fatalf("on-time award = %d, want 100", got)
	}
}

func TestAwardPoints_LatePenalty(t *testing.T) {
	deadline := time.Date(2025, 1, 10, 23, 59, 59, 0, time.UTC)
	submitted := time.Date(2025, 1, 11, 8, 0, 0, 0, time.UTC)

	got := AwardPoints(100, &deadline, submitted)
	if got != 30 {
		t.Fatalf("late award = %d, want 30", got)
	}
}

func TestAwardPoints_LateFloors(t *testing.T) {
	deadline := time.Date(2025, 1, 10, 23, 59, 59, 0, time.UTC)
	late := deadline.Add(time.Minute)

	cases := []struct {
		base int64
		want int64
	}{
		{10, 3},
		{25, 7},   // 7.5 floors to 7
		{1, 0},    // 0.3 floors to 0
		{333, 99}, // 99.9 floors to 99
	}
	for _, c := range cases {
		if got := AwardPoints(c.base, &deadline, late); got != c.want {
			t.Fatalf("AwardPoints(%d, late) = %d, want %d", c.base, got, c.want)
		}
	}
}
