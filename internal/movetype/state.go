// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package movetype

// State is a step of the split. States are entered strictly in order.
type State int

const (
	StateStart State = iota
	StateSpineComputed
	StateCandidatesCollected
	StateNewTreePruned
	StateNewTreePartialityFixed
	StateNewTreeImportsCleaned
	StateOriginalTreePartialityFixed
	StateOriginalTreeTargetRemoved
	StateOriginalTreeImportsCleaned
	StateCommitted
)

var stateNames = [...]string{
	StateStart:                       "start",
	StateSpineComputed:               "spine_computed",
	StateCandidatesCollected:         "candidates_collected",
	StateNewTreePruned:               "new_tree_pruned",
	StateNewTreePartialityFixed:      "new_tree_partiality_fixed",
	StateNewTreeImportsCleaned:       "new_tree_imports_cleaned",
	StateOriginalTreePartialityFixed: "original_tree_partiality_fixed",
	StateOriginalTreeTargetRemoved:   "original_tree_target_removed",
	StateOriginalTreeImportsCleaned:  "original_tree_imports_cleaned",
	StateCommitted:                   "committed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
