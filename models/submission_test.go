package models

import "testing"

func TestSubmissionID(t *testing.T) {
	if got := SubmissionID(42, 7); got != "42_7" {
		t.Fatalf("SubmissionID(42, 7) = %q, want %q", got, "42_7")
	}
	// Same pair, same key: this is what makes resubmission overwrite
	// instead of duplicating.
	if SubmissionID(42, 7) != SubmissionID(42, 7) {
		t.Fatalf("composite key is not deterministic")
	}
	if SubmissionID(42, 7) == SubmissionID(7, 42) {
		t.Fatalf("task and actor ids must not be interchangeable")
	}
}

func TestAttendanceDayID(t *testing.T) {
	if got := AttendanceDayID(3, "2026-03-07"); got != "3_2026-03-07" {
		t.Fatalf("AttendanceDayID = %q", got)
	}
}

func TestProofValidate(t *testing.T) {
	cases := []struct {
		name  string
		proof Proof
		ok    bool
	}{
		{"text with payload", Proof{Kind: ProofText, Text: "fiz a leitura"}, true},
		{"text missing payload", Proof{Kind: ProofText}, false},
		{"link with url", Proof{Kind: ProofLink, URL: "https://example.com/foto"}, true},
		{"link missing url", Proof{Kind: ProofLink}, false},
		{"file with id", Proof{Kind: ProofFile, FileID: "uploads/abc.jpg"}, true},
		{"file missing id", Proof{Kind: ProofFile}, false},
		{"check carries nothing", Proof{Kind: ProofCheck}, true},
		{"unknown kind", Proof{Kind: "video"}, false},
		{"empty kind", Proof{}, false},
	}
	for _, tc := range cases {
		err := tc.proof.Validate()
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestProofKindForTask(t *testing.T) {
	pairs := map[string]string{
		TaskKindUpload: ProofFile,
		TaskKindText:   ProofText,
		TaskKindLink:   ProofLink,
		TaskKindCheck:  ProofCheck,
	}
	for taskKind, want := range pairs {
		if got := ProofKindForTask(taskKind); got != want {
			t.Errorf("ProofKindForTask(%q) = %q, want %q", taskKind, got, want)
		}
	}
}

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp   int64
		want int
	}{
		{0, 1}, {999, 1}, {1000, 2}, {2499, 3}, {-50, 1},
	}
	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got != tc.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}
