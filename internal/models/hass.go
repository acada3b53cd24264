package models

// EntityState is one Home Assistant entity's reported state.
type EntityState struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// HassStates maps entity ids to their reported state. The engine keeps the
// previous snapshot in the store so pushes can be compared for meaningful change.
type HassStates map[string]EntityState

// Clone returns a shallow-per-entity copy safe to store alongside a newer snapshot.
func (h HassStates) Clone() HassStates {
	if h == nil {
		return nil
	}
	out := make(HassStates, len(h))
	for id, st := range h {
		out[id] = st
	}
	return out
}
