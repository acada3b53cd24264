package engine

import (
	"reflect"
	"strings"

	"github.com/desertthunder/spotsync/internal/models"
)

// spotifyEntityPrefix narrows host snapshots to the integration's player entities.
const spotifyEntityPrefix = "media_player.spotify"

// filterMediaPlayers returns the subset of a host snapshot relevant to the
// account's player: spotify media_player entities, narrowed to the account's
// spotify id when the entity reports one.
func filterMediaPlayers(states models.HassStates, spotifyID string) models.HassStates {
	out := make(models.HassStates)
	for id, st := range states {
		if !strings.HasPrefix(id, spotifyEntityPrefix) {
			continue
		}
		if spotifyID != "" {
			if owner, ok := st.Attributes["spotify_id"]; ok && owner != spotifyID {
				continue
			}
		}
		out[id] = st
	}
	return out
}

// mediaStateChanged reports whether the player-relevant subset of the host
// snapshot differs between two pushes. Map comparison is order-insensitive;
// equal subsets mean the push was noise and no refresh is due.
func mediaStateChanged(state, prev models.HassStates, spotifyID string) bool {
	return !reflect.DeepEqual(
		filterMediaPlayers(state, spotifyID),
		filterMediaPlayers(prev, spotifyID),
	)
}
