package similarity

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sweetpotato0/questflow/document"
)

// Lexical is an in-memory Index scoring documents with a deterministic
// keyword heuristic. It is the minimum-viable backing for the similarity
// capability; an embedding index can replace it as long as scores stay
// stable and in [0,1].
type Lexical struct {
	mu   sync.RWMutex
	docs map[string]document.Document
}

// NewLexical creates a lexical index seeded with the given documents.
func NewLexical(docs ...document.Document) *Lexical {
	idx := &Lexical{
		docs: make(map[string]document.Document, len(docs)),
	}
	for _, doc := range docs {
		idx.docs[doc.ID] = doc.Clone()
	}
	return idx
}

// Search implements Index.
func (l *Lexical) Search(ctx context.Context, query string, threshold float64, limit int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	matches := make([]Match, 0, len(l.docs))
	for _, doc := range l.docs {
		score := Score(query, doc.Content)
		if score < threshold {
			continue
		}
		annotated := doc.Clone()
		if annotated.Metadata == nil {
			annotated.Metadata = make(map[string]any, 1)
		}
		annotated.Metadata[document.MetaSimilarityScore] = score
		matches = append(matches, Match{Document: annotated, Score: score})
	}
	l.mu.RUnlock()

	// Tie-break on ID so repeated searches return the same order.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Document.ID < matches[j].Document.ID
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Index implements Index. Re-indexing an existing identifier overwrites the
// stored document.
func (l *Lexical) Index(ctx context.Context, doc document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc.ID == "" {
		return fmt.Errorf("index document: missing identifier")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.docs[doc.ID] = doc.Clone()
	return nil
}

// Count returns the number of indexed documents.
func (l *Lexical) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.docs)
}

// signalRule boosts the score when the query and the document share a known
// domain signal term; mirrors the seeded Korean corpus plus English
// counterparts.
type signalRule struct {
	query []string
	doc   []string
	score float64
}

var signalRules = []signalRule{
	{query: []string{"여드름", "acne"}, doc: []string{"여드름", "acne"}, score: 0.95},
	{query: []string{"목", "neck"}, doc: []string{"목", "neck"}, score: 0.9},
	{query: []string{"예산", "budget"}, doc: []string{"예산", "budget"}, score: 0.9},
	{query: []string{"피부", "skin"}, doc: []string{"피부", "skin"}, score: 0.9},
	{query: []string{"통증", "pain"}, doc: []string{"통증", "pain"}, score: 0.85},
	{query: []string{"돈", "money"}, doc: []string{"예산", "재정", "budget", "finance"}, score: 0.85},
	{query: []string{"운동", "스트레칭", "exercise", "stretch"}, doc: []string{"운동", "스트레칭", "exercise", "stretch"}, score: 0.8},
}

// Score rates the similarity of a query against a document body in [0,1].
// Identical text (or a document that fully contains the query) scores 1.0,
// shared domain signals score per rule, and anything else falls back to a
// token-overlap floor capped at 0.3.
func Score(query, content string) float64 {
	q := normalize(query)
	c := normalize(content)
	if q == "" || c == "" {
		return 0
	}
	if q == c || strings.Contains(c, q) {
		return 1.0
	}

	best := 0.0
	for _, rule := range signalRules {
		if rule.score <= best {
			continue
		}
		if containsAny(q, rule.query) && containsAny(c, rule.doc) {
			best = rule.score
		}
	}

	if overlap := 0.3 * tokenOverlap(q, c); overlap > best {
		best = overlap
	}
	return best
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// tokenOverlap computes the Jaccard overlap of the whitespace token sets.
func tokenOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	shared := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	return float64(shared) / float64(len(setA)+len(setB)-shared)
}

func tokenSet(text string) map[string]struct{} {
	tokens := strings.Fields(text)
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}
