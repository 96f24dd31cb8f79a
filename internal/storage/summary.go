package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

// SummaryFile is the name of the run report written next to the CSV outputs.
const SummaryFile = "summary.yaml"

// Summary is the run report.
type Summary struct {
	RunID      string            `yaml:"run_id"`
	StartedAt  time.Time         `yaml:"started_at"`
	FinishedAt time.Time         `yaml:"finished_at"`
	WeedingSet WeedingSetSummary `yaml:"weeding_set"`
	Documents  []DocumentSummary `yaml:"documents"`
	Files      []string          `yaml:"files"`
}

// WeedingSetSummary describes the partitioned weeding set.
type WeedingSetSummary struct {
	Path       string `yaml:"path"`
	Column     string `yaml:"column"`
	Rows       int    `yaml:"rows"`
	Numbers    int    `yaml:"distinct_numbers"`
	Matched    int    `yaml:"matched"`
	NotMatched int    `yaml:"not_matched"`
}

// DocumentSummary describes one scanned reference document.
type DocumentSummary struct {
	Path     string `yaml:"path"`
	Rows     int    `yaml:"rows"`
	Skipped  int    `yaml:"skipped"`
	Filtered int    `yaml:"filtered"`
	Matches  int    `yaml:"matches"`
	Output   string `yaml:"output"`
}

// WriteSummary writes the run report into the output folder.
func (s *Storage) WriteSummary(sum *Summary) (string, error) {
	data, err := yaml.Marshal(sum)
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	if err := os.MkdirAll(s.Folder, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", s.Folder, err)
	}
	path := filepath.Join(s.Folder, SummaryFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// ReadSummary loads a run report written by WriteSummary.
func ReadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sum Summary
	if err := yaml.Unmarshal(data, &sum); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &sum, nil
}
