package quest

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Category
	}{
		{
			name: "korean health terms",
			text: "목이 아파서 스트레칭하고 싶어요",
			want: CategoryHealth,
		},
		{
			name: "korean finance terms",
			text: "20대 직장인 예산 관리 방법",
			want: CategoryFinance,
		},
		{
			name: "korean skincare terms",
			text: "여드름 치료 방법 알려줘",
			want: CategorySkincare,
		},
		{
			name: "english finance terms",
			text: "How should I plan my monthly budget?",
			want: CategoryFinance,
		},
		{
			name: "case normalised",
			text: "ACNE is bothering me",
			want: CategorySkincare,
		},
		{
			name: "no keyword defaults to health",
			text: "잠을 잘 못자요",
			want: CategoryHealth,
		},
		{
			name: "empty text defaults to health",
			text: "",
			want: CategoryHealth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// Text hitting both health and finance keywords resolves to health,
	// the first category in scan order.
	got := Classify("운동할 시간도 없고 돈도 없어요")
	if got != CategoryHealth {
		t.Errorf("expected health to win the priority scan, got %q", got)
	}
}

func TestTiersOrder(t *testing.T) {
	tiers := Tiers()
	if len(tiers) != 3 {
		t.Fatalf("expected 3 difficulty tiers, got %d", len(tiers))
	}
	if tiers[0] != DifficultyEasy || tiers[1] != DifficultyMedium || tiers[2] != DifficultyHard {
		t.Errorf("tiers out of order: %v", tiers)
	}
}
