package models

import "fmt"

// Status is a player's lifecycle state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSelecting  Status = "selecting"
	StatusPlaying    Status = "playing"
	StatusCompleted  Status = "completed"
	StatusEliminated Status = "eliminated"
)

// Difficulty of an assigned problem. Empty means not chosen yet.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Points returns the score awarded for completing a problem at this
// difficulty. Unknown difficulties score as Easy.
func (d Difficulty) Points() int {
	switch d {
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 1
	}
}

// Player is one roster entry in the shared document. Identity is the
// zero-padded numeric ID; everything else is mutated exclusively through
// reducer actions.
type Player struct {
	ID                string     `json:"id"`
	Username          string     `json:"username"`
	Status            Status     `json:"status"`
	Difficulty        Difficulty `json:"difficulty,omitempty"`
	Language          string     `json:"language,omitempty"`
	Points            int        `json:"points"`
	AssignedProblemID string     `json:"assignedProblemId,omitempty"`
	CompletionTimeMs  *int64     `json:"completionTime"` // milliseconds taken
	StartTimeMs       *int64     `json:"startTime"`      // epoch ms when the arena started
	DragsRemaining    int        `json:"dragsRemaining"`
	TotalDrags        int        `json:"totalDrags"`
	InCooldown        bool       `json:"inCooldown"`
	CooldownEndMs     *int64     `json:"cooldownEnd"` // epoch ms
	LoggedIn          bool       `json:"loggedIn"`
}

// DefaultPlayer constructs a fresh player for the given ID with zero
// progress. Resets replace players with exactly this shape.
func DefaultPlayer(id string) Player {
	return Player{
		ID:       id,
		Username: "VB-" + id,
		Status:   StatusIdle,
	}
}

// DefaultRoster builds the initial pool of n players with IDs "001".."NNN".
func DefaultRoster(n int) []Player {
	players := make([]Player, 0, n)
	for i := 1; i <= n; i++ {
		players = append(players, DefaultPlayer(fmt.Sprintf("%03d", i)))
	}
	return players
}
