package admin

import (
	"testing"

	"github.com/BibaPutt/vibeathon-arena/internal/models"
)

func ms(v int64) *int64 { return &v }

func TestDashboardRanksByCompletionTime(t *testing.T) {
	state := models.DefaultStore(5)
	state.Config.QualifyCount = 2

	state.Players[0].Status = models.StatusCompleted
	state.Players[0].CompletionTimeMs = ms(20_000)
	state.Players[1].Status = models.StatusCompleted
	state.Players[1].CompletionTimeMs = ms(5_000)
	state.Players[2].Status = models.StatusCompleted
	state.Players[2].CompletionTimeMs = ms(10_000)
	state.Players[3].Status = models.StatusEliminated

	s := Dashboard(state)

	if s.Total != 5 || s.Completed != 3 || s.Eliminated != 1 || s.Playing != 1 {
		t.Fatalf("counts = %d/%d/%d/%d, want 5 total, 3 completed, 1 eliminated, 1 playing",
			s.Total, s.Completed, s.Eliminated, s.Playing)
	}

	wantOrder := []string{"002", "003", "001"}
	if len(s.Leaderboard) != 3 {
		t.Fatalf("leaderboard has %d entries, want 3", len(s.Leaderboard))
	}
	for i, want := range wantOrder {
		e := s.Leaderboard[i]
		if e.Player.ID != want {
			t.Fatalf("rank %d = %s, want %s", i+1, e.Player.ID, want)
		}
		if e.Rank != i+1 {
			t.Fatalf("entry %d has rank %d", i, e.Rank)
		}
	}

	if len(s.Qualified) != 2 || s.Qualified[0].ID != "002" || s.Qualified[1].ID != "003" {
		t.Fatalf("qualified = %+v, want 002 then 003", s.Qualified)
	}
	if len(s.NotQualified) != 1 || s.NotQualified[0].ID != "001" {
		t.Fatalf("not qualified = %+v, want 001", s.NotQualified)
	}
	if !s.Leaderboard[0].Qualified || s.Leaderboard[2].Qualified {
		t.Fatal("qualification flags wrong on leaderboard entries")
	}
}

func TestDashboardSkipsCompletedWithoutTime(t *testing.T) {
	state := models.DefaultStore(2)
	state.Players[0].Status = models.StatusCompleted // no completion time recorded

	s := Dashboard(state)

	if s.Completed != 1 {
		t.Fatalf("completed = %d, want 1", s.Completed)
	}
	if len(s.Leaderboard) != 0 {
		t.Fatal("player without a recorded time must not be ranked")
	}
}

func TestDashboardEmptyRoster(t *testing.T) {
	s := Dashboard(models.GameStore{Config: models.DefaultConfig()})
	if s.Total != 0 || len(s.Leaderboard) != 0 {
		t.Fatalf("summary of empty roster = %+v", s)
	}
}
