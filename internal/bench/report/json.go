package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/DjordjeVuckovic/microbench/internal/domain"
)

// Document is the JSON report of a run.
type Document struct {
	Run     *domain.Run `json:"run"`
	Summary Summary     `json:"summary"`
}

func NewDocument(run *domain.Run) Document {
	return Document{Run: run, Summary: Summarize(run.Results)}
}

func EncodeJSON(w io.Writer, run *domain.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(run)); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func WriteJSON(run *domain.Run, path string) error {
	data, err := json.MarshalIndent(NewDocument(run), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
