package storage

import (
	"encoding/json"
	"io"
)

// Summary is the JSON export of a run without its geometry.
type Summary struct {
	RunMetadata
	Counts []YearCount `json:"counts"`
}

func (s *Store) Summary(runID string) (*Summary, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	counts, err := s.LoadCounts(runID)
	if err != nil {
		return nil, err
	}
	return &Summary{RunMetadata: *meta, Counts: counts}, nil
}

func ExportJSON(path string, summary *Summary) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteJSON(w, summary)
	})
}

func WriteJSON(w io.Writer, summary *Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}
