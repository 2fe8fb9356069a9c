package game

import "github.com/BibaPutt/vibeathon-arena/internal/models"

// Reduce is the pure state-transition function over the closed action set.
// It is deterministic given its inputs, never mutates the input state, and
// returns the input unchanged for unrecognized action types.
func Reduce(state models.GameStore, action Action) models.GameStore {
	switch action.Type {
	case ActionLoginPlayer:
		next := state
		next.CurrentPlayerID = action.PlayerID
		next.IsAdmin = false
		next.Players = mapPlayer(state.Players, action.PlayerID, func(p models.Player) models.Player {
			p.LoggedIn = true
			return p
		})
		return next

	case ActionLoginAdmin:
		next := state
		next.CurrentPlayerID = ""
		next.IsAdmin = true
		return next

	case ActionLogout:
		next := state
		next.CurrentPlayerID = ""
		next.IsAdmin = false
		if state.CurrentPlayerID != "" {
			next.Players = mapPlayer(state.Players, state.CurrentPlayerID, func(p models.Player) models.Player {
				p.LoggedIn = false
				return p
			})
		}
		return next

	case ActionAddPlayer:
		if state.FindPlayer(action.PlayerID) != nil {
			return state
		}
		next := state
		next.Players = append(models.ClonePlayers(state.Players), models.DefaultPlayer(action.PlayerID))
		return next

	case ActionSelectDifficulty:
		next := state
		next.Players = mapPlayer(state.Players, action.PlayerID, func(p models.Player) models.Player {
			p.Difficulty = action.Difficulty
			p.Status = models.StatusSelecting
			return p
		})
		return next

	case ActionSelectLanguage:
		next := state
		next.Players = mapPlayer(state.Players, action.PlayerID, func(p models.Player) models.Player {
			p.Language = action.Language
			return p
		})
		return next

	case ActionAssignProblem:
		next := state
		next.Players = mapPlayer(state.Players, action.PlayerID, func(p models.Player) models.Player {
			p.AssignedProblemID = action.ProblemID
			p.DragsRemaining = action.AllowedMoves
			p.TotalDrags = action.AllowedMoves
			return p
		})
		return next

	case ActionStartPlaying:
		next := state
		next.Players = mapPlayer(state.Players, action.PlayerID, func(p models.Player) models.Player {
			p.Status = models.StatusPlaying
			start := action.StartTimeMs
			p.StartTimeMs = &start
			return p
		})
		return next

	case ActionUseDrag:
		next := state
		next.Players = mapPlayer(state.Players, action.PlayerID, func(p models.Player) models.Player {
			if p.DragsRemaining > 0 {
				p.DragsRemaining--
			}
			return p
		})
		return next

	case ActionStartCooldown:
		next := state
		next.Players = mapPlayer(state.Players, action.PlayerID, func(p models.Player) models.Player {
			p.InCooldown = true
			end := action.CooldownEndMs
			p.CooldownEndMs = &end
			return p
		})
		return next

	case ActionEndCooldown:
		next := state
		next.Players = mapPlayer(state.Players, action.PlayerID, func(p models.Player) models.Player {
			p.InCooldown = false
			p.CooldownEndMs = nil
			p.DragsRemaining = p.TotalDrags
			return p
		})
		return next

	case ActionCommitSolution:
		next := state
		next.Players = mapPlayer(state.Players, action.PlayerID, func(p models.Player) models.Player {
			p.Status = models.StatusCompleted
			took := action.CompletionTimeMs
			p.CompletionTimeMs = &took
			p.Points = action.Points
			return p
		})
		return next

	case ActionEliminatePlayer:
		next := state
		next.Players = mapPlayer(state.Players, action.PlayerID, func(p models.Player) models.Player {
			p.Status = models.StatusEliminated
			return p
		})
		return next

	case ActionResetPlayer:
		next := state
		next.Players = mapPlayer(state.Players, action.PlayerID, func(p models.Player) models.Player {
			return models.DefaultPlayer(p.ID)
		})
		return next

	case ActionResetAll:
		next := state
		players := make([]models.Player, len(state.Players))
		for i, p := range state.Players {
			players[i] = models.DefaultPlayer(p.ID)
		}
		next.Players = players
		return next

	case ActionResetEverything:
		return models.DefaultStore(len(state.Players))

	case ActionExtendTime:
		next := state
		next.Config.TimerDurationSec += action.ExtraSeconds
		return next

	case ActionStartRound:
		next := state
		next.Config.RoundActive = true
		start := action.RoundStartTimeMs
		next.Config.RoundStartTimeMs = &start
		return next

	case ActionEndRound:
		next := state
		next.Config.RoundActive = false
		return next

	case ActionSetQualifyCount:
		if action.Count < 1 {
			return state
		}
		next := state
		next.Config.QualifyCount = action.Count
		return next

	case ActionSetState:
		if action.State == nil {
			return state
		}
		return *action.State

	default:
		return state
	}
}

// mapPlayer returns a roster copy with fn applied to the player with the
// given ID. Unknown IDs yield an unchanged copy.
func mapPlayer(players []models.Player, id string, fn func(models.Player) models.Player) []models.Player {
	out := models.ClonePlayers(players)
	for i := range out {
		if out[i].ID == id {
			out[i] = fn(out[i])
		}
	}
	return out
}
