package pipeline

import (
	"github.com/sweetpotato0/questflow/quest"
)

// FallbackQuests returns the single-quest set used when the pipeline cannot
// complete. It is pure: no I/O, no model calls, no clock reads.
func FallbackQuests(category quest.Category) []quest.Quest {
	q, ok := fallbackQuests[category]
	if !ok {
		q = fallbackQuests[quest.CategoryHealth]
	}
	return []quest.Quest{q}
}

var fallbackQuests = map[quest.Category]quest.Quest{
	quest.CategoryHealth: {
		Title:         "Basic stretch break",
		IfCondition:   "at any quiet moment during the day",
		ThenAction:    "stand up and stretch your neck and shoulders for one minute",
		EstimatedTime: "1m",
		Difficulty:    quest.DifficultyEasy,
		SuccessMetric: "completed once today",
		Evidence:      "general health baseline",
	},
	quest.CategoryFinance: {
		Title:         "Basic spending note",
		IfCondition:   "at the end of the day",
		ThenAction:    "write down your single largest expense of the day",
		EstimatedTime: "2m",
		Difficulty:    quest.DifficultyEasy,
		SuccessMetric: "completed once today",
		Evidence:      "general budgeting baseline",
	},
	quest.CategorySkincare: {
		Title:         "Basic face wash",
		IfCondition:   "before going to bed",
		ThenAction:    "wash your face with lukewarm water and a gentle cleanser",
		EstimatedTime: "3m",
		Difficulty:    quest.DifficultyEasy,
		SuccessMetric: "completed once today",
		Evidence:      "general skincare baseline",
	},
}
