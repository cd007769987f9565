package trusted

import (
	"context"

	"github.com/sweetpotato0/questflow/quest"
)

// Static serves a curated per-category corpus from memory. It stands in for
// a managed retrieval service; the excerpts mirror public guidance from the
// authorities each category leans on.
type Static struct {
	corpus map[quest.Category][]Excerpt
}

// NewStatic creates a retriever over the built-in curated corpus.
func NewStatic() *Static {
	return &Static{corpus: builtinExcerpts()}
}

// Search implements Retriever. The query is accepted for interface parity
// with real backends; the static corpus is already scoped per category.
func (s *Static) Search(ctx context.Context, query string, category quest.Category) ([]Excerpt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	excerpts := s.corpus[category]
	out := make([]Excerpt, len(excerpts))
	copy(out, excerpts)
	return out, nil
}

func builtinExcerpts() map[quest.Category][]Excerpt {
	return map[quest.Category][]Excerpt{
		quest.CategoryHealth: {
			{
				Title:      "Neck Pain Relief Exercises - NIH Guidelines",
				Content:    "The National Institute of Health recommends gentle neck rotations held for 15 seconds, performed 3-5 times daily for optimal neck pain relief.",
				Source:     "https://www.nih.gov/neck-pain-relief",
				Confidence: ConfidenceVeryHigh,
			},
			{
				Title:      "Physical Therapy for Cervical Pain - Mayo Clinic",
				Content:    "Mayo Clinic research shows that progressive neck strengthening exercises significantly reduce chronic neck pain when performed consistently.",
				Source:     "https://www.mayoclinic.org/neck-exercises",
				Confidence: ConfidenceHigh,
			},
		},
		quest.CategoryFinance: {
			{
				Title:      "Budget Planning Guidelines - Federal Reserve",
				Content:    "Federal Reserve economic data supports the 50/30/20 budgeting rule for young adults: 50% needs, 30% wants, 20% savings.",
				Source:     "https://www.federalreserve.gov/budget-guidelines",
				Confidence: ConfidenceVeryHigh,
			},
			{
				Title:      "Young Adult Financial Planning - SEC",
				Content:    "SEC guidelines recommend starting emergency fund building and retirement savings in your 20s for long-term financial stability.",
				Source:     "https://www.sec.gov/young-adult-finance",
				Confidence: ConfidenceHigh,
			},
		},
		quest.CategorySkincare: {
			{
				Title:      "Acne Treatment Guidelines - FDA",
				Content:    "FDA approved acne treatments include salicylic acid and benzoyl peroxide. Start with lower concentrations to avoid irritation.",
				Source:     "https://www.fda.gov/acne-treatment",
				Confidence: ConfidenceVeryHigh,
			},
			{
				Title:      "Dermatological Care - American Academy of Dermatology",
				Content:    "AAD recommends gentle cleansing twice daily and gradual introduction of active ingredients for effective acne management.",
				Source:     "https://www.aad.org/acne-care",
				Confidence: ConfidenceHigh,
			},
		},
	}
}
