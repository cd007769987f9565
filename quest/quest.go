package quest

import "time"

// Difficulty is the ordered tier assigned to a quest.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Tiers lists the difficulty tiers in ascending order. A full quest set
// carries exactly one quest per tier.
func Tiers() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// Quest is a single IF/THEN behavioral recommendation grounded in a
// reference document.
type Quest struct {
	Title         string     `json:"title"`
	IfCondition   string     `json:"if_condition"`
	ThenAction    string     `json:"then_action"`
	EstimatedTime string     `json:"estimated_time"`
	Difficulty    Difficulty `json:"difficulty"`
	SuccessMetric string     `json:"success_metric"`
	Evidence      string     `json:"evidence"`
}

// Feedback is a free-text user feedback event. It is immutable once
// created; the pipeline only reads it.
type Feedback struct {
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UserID       string    `json:"user_id,omitempty"`
	CategoryHint Category  `json:"category_hint,omitempty"`
}

// NewFeedback creates a feedback event stamped with the current time.
func NewFeedback(content string) Feedback {
	return Feedback{
		Content:   content,
		CreatedAt: time.Now(),
	}
}
