package domain

// Document is a single passage of the local knowledge base.
type Document struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Concepts  []string  `json:"concepts,omitempty" yaml:"concepts,omitempty"`
	Embedding []float32 `json:"-" yaml:"-"`
}

type ScoredDocument struct {
	Document
	Score float64 `json:"score"`
}

// Source is one ranked knowledge-base passage backing an answer.
// RelevanceScore is always within [0,1].
type Source struct {
	DocumentID     string  `json:"document_id"`
	DocumentText   string  `json:"document_text"`
	RelevanceScore float64 `json:"relevance_score"`
}

type RetrievalResult struct {
	Answer           string   `json:"answer"`
	Sources          []Source `json:"sources"`
	ExpandedConcepts []string `json:"expanded_concepts"`
}

// SourceTexts returns the document text of every source in rank order.
func (r *RetrievalResult) SourceTexts() []string {
	texts := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		texts = append(texts, s.DocumentText)
	}
	return texts
}

type Concept struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Aliases       []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	Prerequisites []string `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	Related       []string `json:"related,omitempty" yaml:"related,omitempty"`
	NextSteps     []string `json:"next_steps,omitempty" yaml:"next_steps,omitempty"`
}

type SupportSection struct {
	Message string   `json:"message"`
	Items   []string `json:"items"`
}

// AdaptiveSupport is the learning guidance attached to an answer.
// Sections without items are left nil.
type AdaptiveSupport struct {
	Prerequisites   *SupportSection `json:"prerequisites,omitempty"`
	RelatedConcepts *SupportSection `json:"related_concepts,omitempty"`
	NextSteps       *SupportSection `json:"next_steps,omitempty"`
}
