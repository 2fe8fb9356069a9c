package sync

import "github.com/BibaPutt/vibeathon-arena/internal/models"

// MergeRemote reconciles a freshly fetched shared document with the local
// state: remote wins for players and config, local wins for the
// device-owned identity fields. This is the one place where cross-device
// conflicts are decided.
func MergeRemote(local models.GameStore, remote models.SharedState) models.GameStore {
	return models.GameStore{
		Players:         models.ClonePlayers(remote.Players),
		Config:          remote.Config,
		CurrentPlayerID: local.CurrentPlayerID,
		IsAdmin:         local.IsAdmin,
	}
}
