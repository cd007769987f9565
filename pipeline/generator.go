package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sweetpotato0/questflow/document"
	"github.com/sweetpotato0/questflow/errors"
	"github.com/sweetpotato0/questflow/llm"
	"github.com/sweetpotato0/questflow/pkg/logging"
	"github.com/sweetpotato0/questflow/quest"
)

const defaultQuestPrompt = `You turn a reference document into a set of daily quests.
Reply with strict JSON only, no prose, in this shape:
{"quests":[{"title":"...","if_condition":"...","then_action":"...","estimated_time":"...","difficulty":"easy","success_metric":"...","evidence":"..."}]}
Produce exactly 3 quests: one easy, one medium, one hard, in that order.
Each quest must be a concrete if/then habit grounded in the document.`

// Generator turns reference documents into a quest set. Known categories have
// deterministic templates; a model, when attached, replaces them with quests
// tailored to the document text.
type Generator struct {
	client llm.Client
	cfg    *Config
	logger *slog.Logger
}

func newGenerator(client llm.Client, cfg *Config) *Generator {
	return &Generator{
		client: client,
		cfg:    cfg,
		logger: logging.WithComponent("generator"),
	}
}

// Generate builds quests from the given documents. The first document is the
// primary grounding source. An empty document list yields an empty quest set
// without error; the caller decides what that means.
func (g *Generator) Generate(ctx context.Context, docs []document.Document, fb quest.Feedback) ([]quest.Quest, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	primary := docs[0]
	if primary.QualityScore < 0 {
		return nil, fmt.Errorf("%w: document %s has negative quality score", errors.ErrInvalidInput, primary.ID)
	}

	if g.client != nil {
		quests, err := g.generateWithModel(ctx, primary, fb)
		if err != nil {
			return nil, err
		}
		return quests, nil
	}
	return g.templateQuests(primary), nil
}

type questPayload struct {
	Quests []struct {
		Title         string `json:"title"`
		IfCondition   string `json:"if_condition"`
		ThenAction    string `json:"then_action"`
		EstimatedTime string `json:"estimated_time"`
		Difficulty    string `json:"difficulty"`
		SuccessMetric string `json:"success_metric"`
		Evidence      string `json:"evidence"`
	} `json:"quests"`
}

func (g *Generator) generateWithModel(ctx context.Context, primary document.Document, fb quest.Feedback) ([]quest.Quest, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "User request: %s\n\nReference document (%s):\n%s",
		fb.Content, primary.ID, g.cfg.truncateForPrompt(primary.Content))
	messages := []llm.Message{
		llm.System(g.cfg.QuestPrompt),
		llm.User(sb.String()),
	}

	attempts := 1 + g.cfg.GenerateRetries
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		reply, err := g.client.Generate(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("quest model call: %w", err)
		}
		quests, err := g.decodeQuests(reply, primary)
		if err == nil {
			return quests, nil
		}
		lastErr = err
		g.logger.Warn("unparsable quest output, retrying",
			"attempt", attempt+1,
			"error", err)
	}
	return nil, lastErr
}

func (g *Generator) decodeQuests(reply string, primary document.Document) ([]quest.Quest, error) {
	var payload questPayload
	if err := decodeModelJSON(reply, &payload); err != nil {
		return nil, err
	}
	if len(payload.Quests) != len(quest.Tiers()) {
		return nil, fmt.Errorf("%w: expected %d quests, got %d",
			errors.ErrUnparsableOutput, len(quest.Tiers()), len(payload.Quests))
	}

	quests := make([]quest.Quest, 0, len(payload.Quests))
	for i, raw := range payload.Quests {
		difficulty := quest.Difficulty(strings.ToLower(strings.TrimSpace(raw.Difficulty)))
		if want := quest.Tiers()[i]; difficulty != want {
			return nil, fmt.Errorf("%w: quest %d has difficulty %q, want %q",
				errors.ErrUnparsableOutput, i+1, raw.Difficulty, want)
		}
		if raw.Title == "" || raw.ThenAction == "" {
			return nil, fmt.Errorf("%w: quest %d is missing title or action", errors.ErrUnparsableOutput, i+1)
		}
		evidence := raw.Evidence
		if evidence == "" {
			evidence = "reference document"
		}
		quests = append(quests, quest.Quest{
			Title:         raw.Title,
			IfCondition:   raw.IfCondition,
			ThenAction:    raw.ThenAction,
			EstimatedTime: raw.EstimatedTime,
			Difficulty:    difficulty,
			SuccessMetric: raw.SuccessMetric,
			Evidence:      fmt.Sprintf("%s [doc %s]", evidence, primary.ID),
		})
	}
	return quests, nil
}

// templateQuests is the offline path: a fixed three-tier set per category,
// or a single generic easy quest when the category has no template.
func (g *Generator) templateQuests(primary document.Document) []quest.Quest {
	templates, ok := questTemplates[primary.Category]
	if !ok {
		return []quest.Quest{{
			Title:         "Daily check-in",
			IfCondition:   "at a convenient moment during the day",
			ThenAction:    "spend five minutes on the guidance in your reference document",
			EstimatedTime: "5m",
			Difficulty:    quest.DifficultyEasy,
			SuccessMetric: "completed once today",
			Evidence:      fmt.Sprintf("reference document [doc %s]", primary.ID),
		}}
	}

	quests := make([]quest.Quest, len(templates))
	copy(quests, templates)
	for i := range quests {
		quests[i].Evidence = fmt.Sprintf("%s [doc %s]", quests[i].Evidence, primary.ID)
	}
	return quests
}

var questTemplates = map[quest.Category][]quest.Quest{
	quest.CategoryHealth: {
		{
			Title:         "Morning neck wake-up",
			IfCondition:   "right after waking up",
			ThenAction:    "slowly roll your neck three times to each side and hold a chin tuck for ten seconds",
			EstimatedTime: "3m",
			Difficulty:    quest.DifficultyEasy,
			SuccessMetric: "done five mornings a week",
			Evidence:      "physical therapy guideline on held stretches",
		},
		{
			Title:         "Desk posture break",
			IfCondition:   "after every two hours of desk work",
			ThenAction:    "stand up, stretch your neck to each side and shrug your shoulders for ten seconds each",
			EstimatedTime: "5m",
			Difficulty:    quest.DifficultyMedium,
			SuccessMetric: "three breaks per workday",
			Evidence:      "rehabilitation medicine recommendation",
		},
		{
			Title:         "Evening release routine",
			IfCondition:   "thirty minutes before going to bed",
			ThenAction:    "complete a full neck and shoulder massage and stretching routine",
			EstimatedTime: "10m",
			Difficulty:    quest.DifficultyHard,
			SuccessMetric: "kept up four evenings a week",
			Evidence:      "expert panel collaboration guide",
		},
	},
	quest.CategoryFinance: {
		{
			Title:         "Daily spending log",
			IfCondition:   "every evening after dinner",
			ThenAction:    "record every expense of the day in one place",
			EstimatedTime: "5m",
			Difficulty:    quest.DifficultyEasy,
			SuccessMetric: "six days logged per week",
			Evidence:      "budget planning guidance",
		},
		{
			Title:         "50-30-20 weekly review",
			IfCondition:   "every Sunday afternoon",
			ThenAction:    "sort the week's spending into needs, wants and savings and compare against the 50-30-20 split",
			EstimatedTime: "20m",
			Difficulty:    quest.DifficultyMedium,
			SuccessMetric: "reviewed every week of the month",
			Evidence:      "household budgeting rule of thumb",
		},
		{
			Title:         "Emergency fund transfer",
			IfCondition:   "on every payday",
			ThenAction:    "move a fixed amount into a separate emergency fund before any other spending",
			EstimatedTime: "10m",
			Difficulty:    quest.DifficultyHard,
			SuccessMetric: "three months of expenses saved",
			Evidence:      "personal finance emergency fund guidance",
		},
	},
	quest.CategorySkincare: {
		{
			Title:         "Gentle evening cleanse",
			IfCondition:   "before going to bed",
			ThenAction:    "wash your face with a gentle cleanser using lukewarm water",
			EstimatedTime: "5m",
			Difficulty:    quest.DifficultyEasy,
			SuccessMetric: "every evening this week",
			Evidence:      "dermatology cleansing guidance",
		},
		{
			Title:         "Targeted treatment step",
			IfCondition:   "after cleansing on alternate evenings",
			ThenAction:    "apply a salicylic acid treatment to affected areas only",
			EstimatedTime: "3m",
			Difficulty:    quest.DifficultyMedium,
			SuccessMetric: "applied three evenings a week",
			Evidence:      "dermatology treatment guidance",
		},
		{
			Title:         "Full morning and evening routine",
			IfCondition:   "morning and evening every day",
			ThenAction:    "complete the full cleanse, treat, moisturize and sunscreen routine",
			EstimatedTime: "15m",
			Difficulty:    quest.DifficultyHard,
			SuccessMetric: "both routines kept for five days straight",
			Evidence:      "expert skincare routine guide",
		},
	},
}
