package webhook

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/matchdayhq/matchday/internal/domain/match"
	"github.com/matchdayhq/matchday/internal/platform/logging"
)

func testMatch() match.Match {
	return match.Match{
		ID:         "match-001",
		BookingID:  "booking-001",
		VenueID:    "venue-arena-norte",
		HomeTeamID: "team-tigres",
		AwayTeamID: "team-corujas",
		StartsAt:   time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC),
		EndsAt:     time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC),
	}
}

func TestNotifier_DeliversEvent(t *testing.T) {
	received := make(chan eventPayload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload eventPayload
		if err := sonic.Unmarshal(body, &payload); err != nil {
			t.Errorf("unmarshal webhook body: %v", err)
		}
		if got := r.Header.Get("X-Matchday-Event"); got != eventMatchScheduled {
			t.Errorf("unexpected event header %q", got)
		}
		received <- payload
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier, err := NewNotifier(Config{URL: server.URL, Workers: 1}, logging.NewNop())
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	defer notifier.Close()

	notifier.MatchScheduled(t.Context(), testMatch())

	select {
	case payload := <-received:
		if payload.Event != eventMatchScheduled || payload.MatchID != "match-001" {
			t.Fatalf("unexpected payload %+v", payload)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("webhook delivery timed out")
	}
}

func TestNotifier_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		done <- struct{}{}
	}))
	defer server.Close()

	notifier, err := NewNotifier(Config{URL: server.URL, Workers: 1, Retries: 2}, logging.NewNop())
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	defer notifier.Close()

	notifier.MatchCanceled(t.Context(), testMatch())

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("webhook retry timed out")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 delivery attempts, got %d", got)
	}
}

func TestNotifier_RequiresURL(t *testing.T) {
	if _, err := NewNotifier(Config{}, logging.NewNop()); err == nil {
		t.Fatal("expected error for missing url")
	}
}
