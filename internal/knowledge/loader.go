// Package knowledge loads the local document corpus and the concept
// ontology that back knowledge-base answers and learning support.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"gopkg.in/yaml.v3"
)

type corpusFile struct {
	Documents []domain.Document `json:"documents" yaml:"documents"`
}

type ontologyFile struct {
	Concepts []domain.Concept `json:"concepts" yaml:"concepts"`
}

// LoadCorpus reads a corpus file. The format is chosen by extension:
// .yaml/.yml are YAML, everything else is JSON.
func LoadCorpus(path string) ([]domain.Document, error) {
	var f corpusFile
	if err := decodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Documents))
	for i, d := range f.Documents {
		if d.ID == "" {
			return nil, fmt.Errorf("load corpus: document %d has no id", i)
		}
		if strings.TrimSpace(d.Text) == "" {
			return nil, fmt.Errorf("load corpus: document %s has no text", d.ID)
		}
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("load corpus: duplicate document id %s", d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return f.Documents, nil
}

func LoadOntology(path string) (*Ontology, error) {
	var f ontologyFile
	if err := decodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("load ontology: %w", err)
	}
	o, err := NewOntology(f.Concepts)
	if err != nil {
		return nil, fmt.Errorf("load ontology: %w", err)
	}
	return o, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return nil
}
