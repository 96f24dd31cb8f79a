package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/happyhackingspace/govdocs/match"
)

// Manifest lists the reference documents of a run and their layouts.
//
//	documents:
//	  - path: PreviousFDLPDisposalListOffers-2023-12-2.csv
//	  - path: legacy-offers.csv
//	    skip_rows: 2
//	    sudoc_column: 0
//	    classification_type: ""
//	    header_row: -1
type Manifest struct {
	Documents []ManifestDocument `yaml:"documents"`
}

// ManifestDocument is one manifest entry. Omitted fields take the FDLP export
// defaults; an explicit empty classification_type turns the type filter off.
type ManifestDocument struct {
	Path               string  `yaml:"path"`
	SkipRows           *int    `yaml:"skip_rows"`
	SudocColumn        *int    `yaml:"sudoc_column"`
	ClassificationType *string `yaml:"classification_type"`
	TypeColumn         *int    `yaml:"classification_type_column"`
	HeaderRow          *int    `yaml:"header_row"`
}

// LoadManifest reads the manifest at path. Relative document paths are
// resolved against the manifest's directory.
func LoadManifest(path string) ([]match.ReferenceDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	docs, err := ParseManifest(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return docs, nil
}

// ParseManifest decodes manifest YAML, resolving relative paths against base.
func ParseManifest(data []byte, base string) ([]match.ReferenceDoc, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	docs := make([]match.ReferenceDoc, 0, len(m.Documents))
	for i, md := range m.Documents {
		if md.Path == "" {
			return nil, fmt.Errorf("document %d has no path", i+1)
		}
		doc := match.DefaultReferenceDoc(resolve(base, md.Path))
		if md.SkipRows != nil {
			doc.SkipRows = *md.SkipRows
		}
		if md.SudocColumn != nil {
			doc.SudocColumn = *md.SudocColumn
		}
		if md.ClassificationType != nil {
			doc.ClassificationType = *md.ClassificationType
		}
		if md.TypeColumn != nil {
			doc.TypeColumn = *md.TypeColumn
		}
		if md.HeaderRow != nil {
			doc.HeaderRow = *md.HeaderRow
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
