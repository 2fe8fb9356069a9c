package game

import "github.com/BibaPutt/vibeathon-arena/internal/models"

// ActionType enumerates every state transition the reducer understands.
type ActionType string

const (
	ActionLoginPlayer      ActionType = "LOGIN_PLAYER"
	ActionLoginAdmin       ActionType = "LOGIN_ADMIN"
	ActionLogout           ActionType = "LOGOUT"
	ActionAddPlayer        ActionType = "ADD_PLAYER"
	ActionSelectDifficulty ActionType = "SELECT_DIFFICULTY"
	ActionSelectLanguage   ActionType = "SELECT_LANGUAGE"
	ActionAssignProblem    ActionType = "ASSIGN_PROBLEM"
	ActionStartPlaying     ActionType = "START_PLAYING"
	ActionUseDrag          ActionType = "USE_DRAG"
	ActionStartCooldown    ActionType = "START_COOLDOWN"
	ActionEndCooldown      ActionType = "END_COOLDOWN"
	ActionCommitSolution   ActionType = "COMMIT_SOLUTION"
	ActionEliminatePlayer  ActionType = "ELIMINATE_PLAYER"
	ActionResetPlayer      ActionType = "RESET_PLAYER"
	ActionResetAll         ActionType = "RESET_ALL"
	ActionResetEverything  ActionType = "RESET_EVERYTHING"
	ActionExtendTime       ActionType = "EXTEND_TIME"
	ActionStartRound       ActionType = "START_ROUND"
	ActionEndRound         ActionType = "END_ROUND"
	ActionSetQualifyCount  ActionType = "SET_QUALIFY_COUNT"
	ActionSetState         ActionType = "SET_STATE"
)

// Action is one reducer input. Only the fields relevant to the given type
// are read; timestamps always arrive in the payload so the reducer itself
// never touches the wall clock.
type Action struct {
	Type ActionType

	PlayerID         string
	Difficulty       models.Difficulty
	Language         string
	ProblemID        string
	AllowedMoves     int
	StartTimeMs      int64
	CooldownEndMs    int64
	CompletionTimeMs int64
	Points           int
	ExtraSeconds     int
	Count            int
	RoundStartTimeMs int64

	// State carries the full replacement for SET_STATE; used exclusively by
	// the sync loop to apply a merge result.
	State *models.GameStore
}

// IsShared reports whether the action mutates the remotely shared portion of
// the store (players or config) and therefore must be pushed after dispatch.
// SET_STATE is excluded: it applies remote data and must never echo back out.
func (a Action) IsShared() bool {
	switch a.Type {
	case ActionLoginAdmin, ActionSetState:
		return false
	default:
		return true
	}
}

// IsSession reports whether the action changes the device-local identity and
// therefore must be persisted to the local session store after dispatch.
func (a Action) IsSession() bool {
	switch a.Type {
	case ActionLoginPlayer, ActionLoginAdmin, ActionLogout, ActionResetEverything:
		return true
	default:
		return false
	}
}
