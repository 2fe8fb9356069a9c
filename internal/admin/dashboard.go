// Package admin derives the game-master view from the shared model and
// exposes the admin controls as ordinary reducer dispatches. It introduces
// no state of its own.
package admin

import (
	"sort"

	"github.com/BibaPutt/vibeathon-arena/internal/models"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank      int           `json:"rank"`
	Player    models.Player `json:"player"`
	Qualified bool          `json:"qualified"`
}

// Summary is the full derived admin view.
type Summary struct {
	Total      int `json:"total"`
	Playing    int `json:"playing"` // includes idle and selecting
	Completed  int `json:"completed"`
	Eliminated int `json:"eliminated"`

	Leaderboard  []Entry         `json:"leaderboard"`
	Qualified    []models.Player `json:"qualified"`
	NotQualified []models.Player `json:"notQualified"`
	QualifyCount int             `json:"qualifyCount"`
}

// Dashboard partitions the roster by status and ranks completed players by
// ascending completion time; the first qualifyCount entries qualify.
func Dashboard(state models.GameStore) Summary {
	s := Summary{
		Total:        len(state.Players),
		QualifyCount: state.Config.QualifyCount,
	}

	var ranked []models.Player
	for _, p := range state.Players {
		switch p.Status {
		case models.StatusCompleted:
			s.Completed++
			if p.CompletionTimeMs != nil {
				ranked = append(ranked, p)
			}
		case models.StatusEliminated:
			s.Eliminated++
		default:
			s.Playing++
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].CompletionTimeMs < *ranked[j].CompletionTimeMs
	})

	for i, p := range ranked {
		qualified := i < s.QualifyCount
		s.Leaderboard = append(s.Leaderboard, Entry{Rank: i + 1, Player: p, Qualified: qualified})
		if qualified {
			s.Qualified = append(s.Qualified, p)
		} else {
			s.NotQualified = append(s.NotQualified, p)
		}
	}
	return s
}
