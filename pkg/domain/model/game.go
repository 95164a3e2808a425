package model

import "sort"

// GameRecord is a game the package has been installed into
type GameRecord struct {
	Name      string `json:"name"`
	Installed bool   `json:"installed"`
	Path      string `json:"path"`
}

// GameRecords maps game name to its record
type GameRecords map[string]GameRecord

// Has returns true if the game is recorded
func (r GameRecords) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Names returns the recorded game names in lexical order
func (r GameRecords) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Candidate is a game directory found by a scan and not yet recorded
type Candidate struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// AppState holds everything an interactive session needs between operations.
// Records are persisted, GameDirectory and Candidates live only for the session.
type AppState struct {
	GameDirectory string
	Records       GameRecords
	Candidates    map[string]Candidate
}

// NewAppState returns an empty state
func NewAppState() *AppState {
	return &AppState{
		Records:    GameRecords{},
		Candidates: map[string]Candidate{},
	}
}

// GamePath returns the directory of an installed game, falling back to a scanned
// candidate of the same name.
func (s *AppState) GamePath(name string) (string, bool) {
	if record, ok := s.Records[name]; ok {
		return record.Path, true
	}
	if candidate, ok := s.Candidates[name]; ok {
		return candidate.Path, true
	}
	return "", false
}
