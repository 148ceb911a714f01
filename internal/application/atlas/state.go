package atlas

import (
	"geobuild-atlas/internal/filter"
)

// State is one visitor's dashboard state: the active filters and the project
// open in the detail panel. Transitions return a new State.
type State struct {
	Filters    filter.Spec `json:"filters"`
	SelectedID string      `json:"selectedId,omitempty"`
}

// ReplaceFilters swaps the whole filter set.
func (s State) ReplaceFilters(spec filter.Spec) State {
	s.Filters = spec
	return s
}

// SetFilter sets one key; the "all" sentinel or a blank value removes it.
func (s State) SetFilter(key filter.Key, value string) State {
	s.Filters = s.Filters.With(key, value)
	return s
}

func (s State) RemoveFilter(key filter.Key) State {
	s.Filters = s.Filters.Without(key)
	return s
}

// ClearFilters is the "Clear all" action.
func (s State) ClearFilters() State {
	s.Filters = filter.Spec{}
	return s
}

// CloseDetail clears the selection.
func (s State) CloseDetail() State {
	s.SelectedID = ""
	return s
}

// HasSelection reports whether a project is open in the detail panel.
func (s State) HasSelection() bool {
	return s.SelectedID != ""
}
