package service

import (
	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/Harshitk-cp/sensei/internal/knowledge"
)

const (
	msgPrerequisites = "この内容を理解するには、以下の前提知識があると良いです："
	msgRelated       = "関連するトピック："
	msgNextSteps     = "次に学ぶと良いこと："

	relatedDepth = 1
)

// SupportService derives learning guidance from the concept ontology.
type SupportService struct {
	ontology *knowledge.Ontology
}

func NewSupportService(onto *knowledge.Ontology) *SupportService {
	return &SupportService{ontology: onto}
}

// Generate builds prerequisite, related-topic and next-step sections for
// the given concept IDs. Concept references are rendered by name.
func (s *SupportService) Generate(concepts []string) domain.AdaptiveSupport {
	var support domain.AdaptiveSupport
	if len(concepts) == 0 {
		return support
	}

	var prereqs, related, next []string
	for _, c := range concepts {
		prereqs = append(prereqs, s.names(s.ontology.PrerequisiteChain(c))...)
		related = append(related, s.names(s.ontology.RelatedConcepts(c, relatedDepth))...)
		next = append(next, s.ontology.NextSteps(c)...)
	}

	support.Prerequisites = section(msgPrerequisites, prereqs)
	support.RelatedConcepts = section(msgRelated, related)
	support.NextSteps = section(msgNextSteps, next)
	return support
}

func (s *SupportService) names(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.ontology.Name(id))
	}
	return out
}

func section(message string, items []string) *domain.SupportSection {
	items = dedupe(items)
	if len(items) == 0 {
		return nil
	}
	return &domain.SupportSection{Message: message, Items: items}
}

// dedupe keeps the first occurrence of each item.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
