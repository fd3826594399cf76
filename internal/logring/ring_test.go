package logring_test

import (
	"fmt"
	"testing"

	"github.com/unclebandit/zapblast-backend/internal/logring"
	"github.com/unclebandit/zapblast-backend/internal/model"
)

func TestCapacityEviction(t *testing.T) {
	r := logring.New(5)
	for i := 1; i <= 8; i++ {
		r.Append(fmt.Sprintf("entry %d", i), model.LogInfo)
	}

	all := r.All()
	if len(all) != 5 {
		t.Fatalf("expected 5 retained entries, got %d", len(all))
	}
	if all[0].Message != "entry 8" {
		t.Errorf("expected newest entry first, got %q", all[0].Message)
	}
	if all[4].Message != "entry 4" {
		t.Errorf("expected oldest retained entry to be 'entry 4', got %q", all[4].Message)
	}
	if r.Len() != 5 {
		t.Errorf("Len() = %d, want 5", r.Len())
	}
}

func TestSequenceIDsKeepGrowingPastEviction(t *testing.T) {
	r := logring.New(2)
	for i := 0; i < 4; i++ {
		r.Append("x", model.LogInfo)
	}
	e := r.Append("last", model.LogSuccess)
	if e.Seq != 5 {
		t.Errorf("expected sequence id 5 after 5 appends, got %d", e.Seq)
	}

	all := r.All()
	if all[0].Seq <= all[1].Seq {
		t.Errorf("expected descending sequence ids, got %d then %d", all[0].Seq, all[1].Seq)
	}
}

func TestRecentN(t *testing.T) {
	r := logring.New(10)
	for i := 1; i <= 6; i++ {
		r.Append(fmt.Sprintf("entry %d", i), model.LogInfo)
	}

	recent := r.RecentN(3)
	if len(recent) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(recent))
	}
	if recent[0].Message != "entry 6" || recent[2].Message != "entry 4" {
		t.Errorf("unexpected ordering: %q ... %q", recent[0].Message, recent[2].Message)
	}

	if got := r.RecentN(100); len(got) != 6 {
		t.Errorf("RecentN over length should cap at %d, got %d", 6, len(got))
	}
	if got := r.RecentN(-1); len(got) != 0 {
		t.Errorf("RecentN(-1) should be empty, got %d entries", len(got))
	}
}

func TestAppendSetsTypeAndTimestamp(t *testing.T) {
	r := logring.New(10)
	e := r.Append("houve um erro", model.LogError)
	if e.Type != model.LogError {
		t.Errorf("Type = %q, want %q", e.Type, model.LogError)
	}
	if e.Timestamp == "" {
		t.Error("expected a timestamp to be stamped")
	}
}
