package document

import (
	"time"

	"github.com/sweetpotato0/questflow/quest"
)

// BuiltinCorpus returns the pre-authored reference documents the system
// ships with, one flagship guide per category. Callers ingest these into a
// document store and similarity index at startup.
func BuiltinCorpus() []Document {
	return []Document{
		{
			ID:       "health_neck_001",
			Category: quest.CategoryHealth,
			Content: "목 통증 완화를 위한 전문가 가이드: 물리치료사 3명이 협업하여 작성한 종합 가이드입니다. " +
				"목을 좌우로 천천히 돌리는 스트레칭을 15초씩 3-5회 반복하면 효과적입니다.",
			Metadata: map[string]any{
				MetaProvenance: ProvenanceCorpus,
				"experts":      []string{"physical therapist", "exercise specialist"},
			},
			QualityScore: 0.95,
			CreatedAt:    time.Date(2024, 12, 14, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:       "finance_budget_001",
			Category: quest.CategoryFinance,
			Content: "20대 직장인을 위한 예산 관리 전문가 가이드: 재정 전문가 3명이 협업하여 작성했습니다. " +
				"50/30/20 규칙을 활용하여 수입의 50%는 필수지출, 30%는 선택지출, 20%는 저축으로 배분하세요.",
			Metadata: map[string]any{
				MetaProvenance: ProvenanceCorpus,
				"experts":      []string{"financial planner", "investment consultant"},
			},
			QualityScore: 0.92,
			CreatedAt:    time.Date(2024, 12, 14, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:       "skincare_acne_001",
			Category: quest.CategorySkincare,
			Content: "여드름 관리를 위한 피부과 전문의 가이드: 피부과 전문의와 화장품 연구원이 협업하여 작성했습니다. " +
				"순한 세안제로 하루 2회 세안하고, 살리실산 성분의 제품을 점진적으로 사용하세요.",
			Metadata: map[string]any{
				MetaProvenance: ProvenanceCorpus,
				"experts":      []string{"dermatologist", "cosmetics researcher"},
			},
			QualityScore: 0.93,
			CreatedAt:    time.Date(2024, 12, 14, 8, 45, 0, 0, time.UTC),
		},
	}
}
