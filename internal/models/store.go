package models

// GameConfig is the global, admin-controlled round configuration.
type GameConfig struct {
	TimerDurationSec int    `json:"timerDurationSec"`
	RoundActive      bool   `json:"roundActive"`
	RoundStartTimeMs *int64 `json:"roundStartTime"` // epoch ms
	QualifyCount     int    `json:"qualifyCount"`
}

const (
	DefaultTimerDurationSec = 600
	DefaultQualifyCount     = 10
	DefaultRosterSize       = 20
)

// DefaultConfig returns the round configuration a fresh game starts with.
func DefaultConfig() GameConfig {
	return GameConfig{
		TimerDurationSec: DefaultTimerDurationSec,
		QualifyCount:     DefaultQualifyCount,
	}
}

// GameStore is the full in-memory state: the shared document plus the
// device-local identity fields. CurrentPlayerID and IsAdmin are never both
// set and never leave the device.
type GameStore struct {
	Players         []Player   `json:"players"`
	Config          GameConfig `json:"config"`
	CurrentPlayerID string     `json:"currentPlayerId,omitempty"`
	IsAdmin         bool       `json:"isAdmin,omitempty"`
}

// SharedState is the subset of GameStore persisted to the remote document.
type SharedState struct {
	Players []Player   `json:"players"`
	Config  GameConfig `json:"config"`
}

// LocalSession is the per-device identity, persisted outside the shared
// document so it survives remote overwrites.
type LocalSession struct {
	CurrentPlayerID string `json:"currentPlayerId,omitempty"`
	IsAdmin         bool   `json:"isAdmin,omitempty"`
}

// DefaultStore builds a fresh store with a roster of rosterSize players and
// no identity.
func DefaultStore(rosterSize int) GameStore {
	return GameStore{
		Players: DefaultRoster(rosterSize),
		Config:  DefaultConfig(),
	}
}

// ToShared extracts the remotely persisted portion of the store.
func (s GameStore) ToShared() SharedState {
	return SharedState{Players: s.Players, Config: s.Config}
}

// FindPlayer returns the player with the given ID, or nil.
func (s GameStore) FindPlayer(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// ClonePlayers returns a copy of the roster slice so reducer output never
// aliases its input.
func ClonePlayers(players []Player) []Player {
	out := make([]Player, len(players))
	copy(out, players)
	return out
}
