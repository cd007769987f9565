package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sweetpotato0/questflow/document"
	"github.com/sweetpotato0/questflow/llm"
	"github.com/sweetpotato0/questflow/pkg/logging"
	"github.com/sweetpotato0/questflow/quest"
	"github.com/sweetpotato0/questflow/trusted"
)

const defaultSynthesisPrompt = `You are the lead author of an expert review panel.
Given a user request and excerpts from trusted sources, write the closing
recommendation of the panel: two or three sentences of concrete, actionable
guidance grounded in the excerpts. Reply with plain text only.`

// Synthesizer authors a new reference document for a feedback request,
// grounding it in trusted-source excerpts. With no model attached it falls
// back to a deterministic template so the pipeline stays usable offline.
type Synthesizer struct {
	client llm.Client
	cfg    *Config
	logger *slog.Logger
}

func newSynthesizer(client llm.Client, cfg *Config) *Synthesizer {
	return &Synthesizer{
		client: client,
		cfg:    cfg,
		logger: logging.WithComponent("synthesizer"),
	}
}

// Synthesize builds the authored document. The returned document always
// embeds the original request verbatim so a later search for the same
// feedback resolves to it.
func (s *Synthesizer) Synthesize(ctx context.Context, fb quest.Feedback, excerpts []trusted.Excerpt) (document.Document, error) {
	category := fb.CategoryHint
	if category == "" {
		category = quest.Classify(fb.Content)
	}

	recommendation, err := s.recommend(ctx, fb, excerpts)
	if err != nil {
		return document.Document{}, err
	}

	now := time.Now()
	doc := document.Document{
		ID:       document.NewID(category, now),
		Category: category,
		Content:  composeBody(fb, excerpts, recommendation),
		Metadata: map[string]any{
			document.MetaUserRequest:        fb.Content,
			document.MetaTrustedSourceCount: len(excerpts),
			document.MetaProvenance:         document.ProvenanceAuthored,
		},
		QualityScore: 0.94,
		CreatedAt:    now,
	}

	s.logger.Info("authored document",
		"document_id", doc.ID,
		"category", category,
		"trusted_sources", len(excerpts))
	return doc, nil
}

func (s *Synthesizer) recommend(ctx context.Context, fb quest.Feedback, excerpts []trusted.Excerpt) (string, error) {
	if s.client == nil {
		return templateRecommendation(excerpts), nil
	}

	var sb strings.Builder
	sb.WriteString("User request: ")
	sb.WriteString(fb.Content)
	sb.WriteString("\n\nTrusted excerpts:\n")
	for _, ex := range excerpts {
		fmt.Fprintf(&sb, "- [%s, confidence %s] %s: %s\n",
			ex.Source, ex.Confidence, ex.Title, s.cfg.truncateForPrompt(ex.Content))
	}

	reply, err := s.client.Generate(ctx, []llm.Message{
		llm.System(s.cfg.SynthesisPrompt),
		llm.User(sb.String()),
	})
	if err != nil {
		return "", fmt.Errorf("synthesis model call: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return templateRecommendation(excerpts), nil
	}
	return reply, nil
}

func templateRecommendation(excerpts []trusted.Excerpt) string {
	if len(excerpts) == 0 {
		return "Start with one small, repeatable daily action and review progress after a week."
	}
	var sb strings.Builder
	sb.WriteString("Follow the guidance above in order of confidence")
	sources := make([]string, 0, len(excerpts))
	for _, ex := range excerpts {
		sources = append(sources, ex.Source)
	}
	fmt.Fprintf(&sb, ", starting from %s, and turn each point into one small daily action.", strings.Join(sources, ", "))
	return sb.String()
}

// composeBody renders the three-stage panel document: analysis of the
// request, per-source recommendations, and the validated final guidance.
func composeBody(fb quest.Feedback, excerpts []trusted.Excerpt, recommendation string) string {
	var sb strings.Builder

	sb.WriteString("## Expert Panel Document\n\n")
	sb.WriteString("### 1. Request Analysis\n")
	fmt.Fprintf(&sb, "Request: %s\n", fb.Content)
	fmt.Fprintf(&sb, "Trusted sources consulted: %d\n\n", len(excerpts))

	sb.WriteString("### 2. Source Recommendations\n")
	if len(excerpts) == 0 {
		sb.WriteString("No trusted material was available; guidance below is general practice.\n")
	}
	for i, ex := range excerpts {
		fmt.Fprintf(&sb, "%d. %s (%s, confidence %s)\n%s\n", i+1, ex.Title, ex.Source, ex.Confidence, ex.Content)
	}
	sb.WriteString("\n### 3. Validated Recommendation\n")
	sb.WriteString(recommendation)
	sb.WriteString("\n")

	return sb.String()
}
