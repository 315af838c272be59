package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBackoffSchedule(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 30 * time.Second},
		{2, time.Minute},
		{3, 2 * time.Minute},
		{4, 4 * time.Minute},
		{10, 30 * time.Minute},
		{0, 30 * time.Second},
	}
	for _, c := range cases {
		if got := Backoff(c.attempt); got != c.want {
			t.Fatalf("Backoff(%d) = %s, want %s", c.attempt, got, c.want)
		}
	}
}

func TestPushClient_Send(t *testing.T) {
	var got PushMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer k3y" {
			t.Errorf("missing bearer key, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("bad body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewPushClientWith(srv.URL, "k3y", srv.Client())
	err := c.Send(context.Background(), PushMessage{
		Title:      "Tarefa Aprovada! 🎉",
		Message:    "Você ganhou 100 XP!",
		TargetType: "user",
		TargetID:   "42",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if got.TargetType != "user" || got.TargetID != "42" {
		t.Fatalf("provider saw wrong target: %+v", got)
	}
}

func TestPushClient_SendProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewPushClientWith(srv.URL, "", srv.Client())
	if err := c.Send(context.Background(), PushMessage{Title: "x", Message: "y", TargetType: "all"}); err == nil {
		t.Fatal("non-2xx provider response must surface as an error")
	}
}

func TestPushClient_Disabled(t *testing.T) {
	c := NewPushClientWith("", "", nil)
	if c.Enabled() {
		t.Fatal("client without URL must be disabled")
	}
	if err := c.Send(context.Background(), PushMessage{}); err != ErrDisabled {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}
