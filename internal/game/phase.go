package game

import "github.com/BibaPutt/vibeathon-arena/internal/models"

// Phase is the screen a player should be looking at, derived from their
// roster entry. Terminal phases win over selection phases.
type Phase string

const (
	PhaseEliminated       Phase = "eliminated"
	PhaseCompleted        Phase = "completed"
	PhaseSelectDifficulty Phase = "select-difficulty"
	PhaseSelectLanguage   Phase = "select-language"
	PhasePlaying          Phase = "playing"
)

// PhaseFor derives the arena phase for a player. The ordering is part of the
// contract: elimination and completion are terminal and shadow everything
// else, then missing selections, then the drag arena.
func PhaseFor(p models.Player) Phase {
	switch {
	case p.Status == models.StatusEliminated:
		return PhaseEliminated
	case p.Status == models.StatusCompleted && p.CompletionTimeMs != nil:
		return PhaseCompleted
	case p.Difficulty == "":
		return PhaseSelectDifficulty
	case p.Language == "":
		return PhaseSelectLanguage
	default:
		return PhasePlaying
	}
}
