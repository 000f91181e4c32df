package knowledge

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/sensei/internal/domain"
)

// Ontology is an immutable concept graph. Safe for concurrent reads.
type Ontology struct {
	concepts []domain.Concept
	byID     map[string]int
}

func NewOntology(concepts []domain.Concept) (*Ontology, error) {
	o := &Ontology{
		concepts: make([]domain.Concept, 0, len(concepts)),
		byID:     make(map[string]int, len(concepts)),
	}
	for _, c := range concepts {
		if c.ID == "" {
			return nil, fmt.Errorf("concept %q has no id", c.Name)
		}
		if _, dup := o.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate concept id %s", c.ID)
		}
		if c.Name == "" {
			c.Name = c.ID
		}
		o.byID[c.ID] = len(o.concepts)
		o.concepts = append(o.concepts, c)
	}
	return o, nil
}

func (o *Ontology) Len() int {
	if o == nil {
		return 0
	}
	return len(o.concepts)
}

func (o *Ontology) Concept(id string) (domain.Concept, bool) {
	if o == nil {
		return domain.Concept{}, false
	}
	i, ok := o.byID[id]
	if !ok {
		return domain.Concept{}, false
	}
	return o.concepts[i], true
}

// Name returns the display name of id, or id itself when unknown.
func (o *Ontology) Name(id string) string {
	if c, ok := o.Concept(id); ok {
		return c.Name
	}
	return id
}

// FindConcepts returns the IDs of concepts whose id, name or any alias
// occurs in text, in ontology order.
func (o *Ontology) FindConcepts(text string) []string {
	if o == nil || text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	var ids []string
	for _, c := range o.concepts {
		if mentions(lower, c) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func mentions(lowerText string, c domain.Concept) bool {
	terms := append([]string{c.ID, c.Name}, c.Aliases...)
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t != "" && strings.Contains(lowerText, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// PrerequisiteChain returns every transitive prerequisite of id, nearest
// first. Cycles are tolerated; id itself is never included.
func (o *Ontology) PrerequisiteChain(id string) []string {
	return o.walk(id, -1, func(c domain.Concept) []string { return c.Prerequisites })
}

// RelatedConcepts returns concepts reachable through related links within
// depth hops, breadth first.
func (o *Ontology) RelatedConcepts(id string, depth int) []string {
	if depth <= 0 {
		return nil
	}
	return o.walk(id, depth, func(c domain.Concept) []string { return c.Related })
}

func (o *Ontology) NextSteps(id string) []string {
	c, ok := o.Concept(id)
	if !ok {
		return nil
	}
	return append([]string(nil), c.NextSteps...)
}

// walk does a breadth-first traversal along edges. A negative depth is
// unbounded. Unknown targets are reported but not expanded.
func (o *Ontology) walk(id string, depth int, edges func(domain.Concept) []string) []string {
	start, ok := o.Concept(id)
	if !ok {
		return nil
	}

	visited := map[string]bool{id: true}
	var out []string
	frontier := edges(start)

	for level := 1; len(frontier) > 0 && (depth < 0 || level <= depth); level++ {
		var next []string
		for _, target := range frontier {
			if visited[target] {
				continue
			}
			visited[target] = true
			out = append(out, target)
			if c, ok := o.Concept(target); ok {
				next = append(next, edges(c)...)
			}
		}
		frontier = next
	}
	return out
}
