package quest

import "strings"

// Category is the fixed domain a feedback event or reference document
// belongs to.
type Category string

const (
	CategoryHealth   Category = "health"
	CategoryFinance  Category = "finance"
	CategorySkincare Category = "skincare"
)

// Categories lists the known categories in classification priority order.
func Categories() []Category {
	return []Category{CategoryHealth, CategoryFinance, CategorySkincare}
}

// Keyword sets per category. The corpus the system ships with is Korean, so
// the sets carry both the Korean terms and their English counterparts.
var categoryKeywords = map[Category][]string{
	CategoryHealth: {
		"목", "어깨", "허리", "통증", "건강", "운동", "스트레칭", "몸",
		"neck", "shoulder", "back", "pain", "health", "exercise", "stretch",
	},
	CategoryFinance: {
		"돈", "예산", "투자", "저축", "재정", "금융", "주식", "펀드",
		"money", "budget", "invest", "saving", "finance", "stock", "fund",
	},
	CategorySkincare: {
		"피부", "스킨케어", "화장품", "세안", "로션", "크림", "여드름",
		"skin", "skincare", "cosmetic", "cleanser", "lotion", "cream", "acne",
	},
}

// Classify maps free-text feedback to a category by keyword membership.
// Categories are scanned in priority order (health, finance, skincare) and
// the first hit wins; text matching no keyword set defaults to health.
// Deterministic, pure, never fails.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, category := range Categories() {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lower, keyword) {
				return category
			}
		}
	}
	return CategoryHealth
}
