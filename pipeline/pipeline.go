package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sweetpotato0/questflow/config"
	"github.com/sweetpotato0/questflow/document"
	"github.com/sweetpotato0/questflow/errors"
	"github.com/sweetpotato0/questflow/graph"
	"github.com/sweetpotato0/questflow/llm"
	"github.com/sweetpotato0/questflow/pkg/logging"
	"github.com/sweetpotato0/questflow/pkg/telemetry"
	"github.com/sweetpotato0/questflow/quest"
	"github.com/sweetpotato0/questflow/similarity"
	"github.com/sweetpotato0/questflow/store"
	"github.com/sweetpotato0/questflow/trusted"
)

// Node names of the execution graph.
const (
	nodeStart    = "start"
	nodeSearch   = "search"
	nodeGate     = "gate"
	nodeRetrieve = "retrieve"
	nodeAuthor   = "author"
	nodePersist  = "persist"
	nodeReindex  = "reindex"
	nodeGenerate = "generate"
	nodeEnd      = "end"
)

const stateKey = "__quest_pipeline_state"

// Clients holds optional per-stage model clients. A nil client makes the
// corresponding stage use its deterministic template path.
type Clients struct {
	// Default backs every stage without a dedicated client.
	Default llm.Client
	// Synthesizer authors reference documents.
	Synthesizer llm.Client
	// Generator produces quest sets.
	Generator llm.Client
}

func (c Clients) synthesizer() llm.Client {
	if c.Synthesizer != nil {
		return c.Synthesizer
	}
	return c.Default
}

func (c Clients) generator() llm.Client {
	if c.Generator != nil {
		return c.Generator
	}
	return c.Default
}

// pipelineState flows through the graph under stateKey.
type pipelineState struct {
	feedback quest.Feedback
	method   Method

	matches  []similarity.Match
	excerpts []trusted.Excerpt
	authored document.Document
	saved    bool
	quests   []quest.Quest
}

// Pipeline routes user feedback to quest generation: reuse existing reference
// documents when the similarity gate accepts them, otherwise author, persist
// and index a new document first. Process never surfaces an error; failures
// degrade to a fallback result.
type Pipeline struct {
	cfg     *Config
	index   similarity.Index
	trusted trusted.Retriever
	docs    store.Store
	synth   *Synthesizer
	gen     *Generator
	flow    *graph.Graph
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New wires a pipeline from its capabilities. The index, retriever and store
// are required; model clients are optional.
func New(clients Clients, index similarity.Index, retriever trusted.Retriever, docs store.Store, opts ...Option) (*Pipeline, error) {
	if index == nil {
		return nil, fmt.Errorf("%w: similarity index is required", errors.ErrInvalidInput)
	}
	if retriever == nil {
		return nil, fmt.Errorf("%w: trusted retriever is required", errors.ErrInvalidInput)
	}
	if docs == nil {
		return nil, fmt.Errorf("%w: document store is required", errors.ErrInvalidInput)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := config.ValidateGateConfig(cfg.SearchThreshold, cfg.SoftAcceptScore, cfg.ReuseScore, cfg.SoftAcceptMinDocs); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:     cfg,
		index:   index,
		trusted: retriever,
		docs:    docs,
		synth:   newSynthesizer(clients.synthesizer(), cfg),
		gen:     newGenerator(clients.generator(), cfg),
		logger:  logging.WithComponent("quest_pipeline"),
		tracer:  otel.Tracer("questflow/pipeline"),
	}
	p.flow = p.buildGraph()
	return p, nil
}

func (p *Pipeline) buildGraph() *graph.Graph {
	passthrough := func(_ context.Context, s graph.State) (graph.State, error) { return s, nil }

	return graph.NewBuilder().
		AddNode(nodeStart, graph.NodeTypeStart, passthrough).
		AddNode(nodeSearch, graph.NodeTypeStage, p.searchNode).
		AddConditionNode(nodeGate, p.gateNode, map[string]string{
			string(MethodReuse):      nodeGenerate,
			string(MethodSynthesize): nodeRetrieve,
		}).
		AddNode(nodeRetrieve, graph.NodeTypeStage, p.retrieveNode).
		AddNode(nodeAuthor, graph.NodeTypeStage, p.authorNode).
		AddNode(nodePersist, graph.NodeTypeStage, p.persistNode).
		AddNode(nodeReindex, graph.NodeTypeStage, p.reindexNode).
		AddNode(nodeGenerate, graph.NodeTypeStage, p.generateNode).
		AddNode(nodeEnd, graph.NodeTypeEnd, passthrough).
		AddEdge(nodeStart, nodeSearch).
		AddEdge(nodeSearch, nodeGate).
		AddEdge(nodeRetrieve, nodeAuthor).
		AddEdge(nodeAuthor, nodePersist).
		AddEdge(nodePersist, nodeReindex).
		AddEdge(nodeReindex, nodeGenerate).
		AddEdge(nodeGenerate, nodeEnd).
		SetStart(nodeStart).
		SetMaxVisits(p.cfg.GraphMaxVisits).
		Build()
}

// Process runs feedback through the pipeline. It never returns an error:
// any stage failure yields a fallback result carrying a single quest for the
// feedback's category and the failure description.
func (p *Pipeline) Process(ctx context.Context, fb quest.Feedback) *Result {
	ctx, span := p.tracer.Start(ctx, "pipeline.process",
		trace.WithAttributes(attribute.String("pipeline.name", p.cfg.Name)))
	defer span.End()

	if strings.TrimSpace(fb.Content) == "" {
		err := fmt.Errorf("%w: empty feedback content", errors.ErrInvalidInput)
		span.RecordError(err)
		return p.fallback(fb, err)
	}

	st := &pipelineState{feedback: fb}
	_, err := p.flow.Execute(ctx, graph.State{stateKey: st})
	if err != nil {
		p.logger.Error("pipeline failed, degrading to fallback",
			"error", err,
			"method", st.method)
		span.RecordError(err)
		return p.fallback(fb, err)
	}

	result := &Result{
		Success:     true,
		Method:      st.method,
		Quests:      st.quests,
		ProcessedAt: time.Now(),
	}
	switch st.method {
	case MethodReuse:
		result.DocumentsUsed = len(st.matches)
		result.SimilarityScores = make([]float64, 0, len(st.matches))
		for _, m := range st.matches {
			result.SimilarityScores = append(result.SimilarityScores, m.Score)
		}
	case MethodSynthesize:
		result.DocumentID = st.authored.ID
		result.TrustedSourceCount = len(st.excerpts)
	}

	span.SetAttributes(
		attribute.String("pipeline.method", string(result.Method)),
		attribute.Int("pipeline.quests", len(result.Quests)),
	)
	p.logger.Info("feedback processed",
		"method", result.Method,
		"quests", len(result.Quests),
		"documents_used", result.DocumentsUsed,
		"document_id", result.DocumentID)
	return result
}

func (p *Pipeline) fallback(fb quest.Feedback, cause error) *Result {
	category := fb.CategoryHint
	if category == "" {
		category = quest.Classify(fb.Content)
	}
	return &Result{
		Success:     false,
		Method:      MethodFallback,
		Quests:      FallbackQuests(category),
		ProcessedAt: time.Now(),
		Error:       cause.Error(),
	}
}

func stateFrom(s graph.State) (*pipelineState, error) {
	st, ok := s[stateKey].(*pipelineState)
	if !ok {
		return nil, fmt.Errorf("pipeline state missing from graph state")
	}
	return st, nil
}

func (p *Pipeline) searchNode(ctx context.Context, s graph.State) (graph.State, error) {
	st, err := stateFrom(s)
	if err != nil {
		return nil, err
	}
	ctx, span := p.tracer.Start(ctx, "pipeline.search")
	matches, err := p.index.Search(ctx, st.feedback.Content, p.cfg.SearchThreshold, p.cfg.SearchLimit)
	telemetry.End(span, err)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	st.matches = matches
	p.logger.Debug("similarity search complete",
		"candidates", len(matches),
		"threshold", p.cfg.SearchThreshold)
	return s, nil
}

// gateNode applies the reuse decision: the best score hard-accepts at or
// above ReuseScore, soft-accepts in [SoftAcceptScore, ReuseScore) when enough
// candidates agree, and everything else routes to synthesis.
func (p *Pipeline) gateNode(_ context.Context, s graph.State) (string, error) {
	st, err := stateFrom(s)
	if err != nil {
		return "", err
	}
	st.method = p.decide(st.matches)
	p.logger.Info("gate decision",
		"method", st.method,
		"candidates", len(st.matches),
		"best_score", bestScore(st.matches))
	return string(st.method), nil
}

func (p *Pipeline) decide(matches []similarity.Match) Method {
	if len(matches) == 0 {
		return MethodSynthesize
	}
	best := matches[0].Score
	switch {
	case best >= p.cfg.ReuseScore:
		return MethodReuse
	case best >= p.cfg.SoftAcceptScore && len(matches) >= p.cfg.SoftAcceptMinDocs:
		return MethodReuse
	default:
		return MethodSynthesize
	}
}

func bestScore(matches []similarity.Match) float64 {
	if len(matches) == 0 {
		return 0
	}
	return matches[0].Score
}

func (p *Pipeline) retrieveNode(ctx context.Context, s graph.State) (graph.State, error) {
	st, err := stateFrom(s)
	if err != nil {
		return nil, err
	}
	category := st.feedback.CategoryHint
	if category == "" {
		category = quest.Classify(st.feedback.Content)
	}

	ctx, span := p.tracer.Start(ctx, "pipeline.retrieve",
		trace.WithAttributes(attribute.String("category", string(category))))
	excerpts, err := p.trusted.Search(ctx, st.feedback.Content, category)
	telemetry.End(span, err)
	if err != nil {
		return nil, fmt.Errorf("trusted retrieval: %w", err)
	}
	st.excerpts = excerpts
	return s, nil
}

func (p *Pipeline) authorNode(ctx context.Context, s graph.State) (graph.State, error) {
	st, err := stateFrom(s)
	if err != nil {
		return nil, err
	}
	ctx, span := p.tracer.Start(ctx, "pipeline.author")
	doc, err := p.synth.Synthesize(ctx, st.feedback, st.excerpts)
	telemetry.End(span, err)
	if err != nil {
		return nil, fmt.Errorf("document synthesis: %w", err)
	}
	st.authored = doc
	return s, nil
}

func (p *Pipeline) persistNode(ctx context.Context, s graph.State) (graph.State, error) {
	st, err := stateFrom(s)
	if err != nil {
		return nil, err
	}
	ctx, span := p.tracer.Start(ctx, "pipeline.persist")
	id, err := p.docs.Save(ctx, st.authored)
	telemetry.End(span, err)
	if err != nil {
		return nil, fmt.Errorf("document persist: %w", err)
	}
	st.authored.ID = id
	st.saved = true
	return s, nil
}

// reindexNode keeps the store and the index consistent: once the document is
// saved, indexing runs detached from the caller's deadline so a timeout that
// fires after persistence cannot strand an unsearchable document.
func (p *Pipeline) reindexNode(ctx context.Context, s graph.State) (graph.State, error) {
	st, err := stateFrom(s)
	if err != nil {
		return nil, err
	}
	idxCtx, span := p.tracer.Start(context.WithoutCancel(ctx), "pipeline.reindex")
	err = p.index.Index(idxCtx, st.authored)
	telemetry.End(span, err)
	if err != nil {
		return nil, fmt.Errorf("document reindex: %w", err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return s, nil
}

func (p *Pipeline) generateNode(ctx context.Context, s graph.State) (graph.State, error) {
	st, err := stateFrom(s)
	if err != nil {
		return nil, err
	}

	var docs []document.Document
	switch st.method {
	case MethodReuse:
		docs = make([]document.Document, 0, len(st.matches))
		for _, m := range st.matches {
			docs = append(docs, m.Document)
		}
	case MethodSynthesize:
		docs = []document.Document{st.authored}
	default:
		return nil, fmt.Errorf("generate reached without a gate decision")
	}

	ctx, span := p.tracer.Start(ctx, "pipeline.generate",
		trace.WithAttributes(attribute.Int("documents", len(docs))))
	quests, err := p.gen.Generate(ctx, docs, st.feedback)
	telemetry.End(span, err)
	if err != nil {
		return nil, fmt.Errorf("quest generation: %w", err)
	}
	if len(quests) == 0 {
		return nil, fmt.Errorf("quest generation produced no quests")
	}
	st.quests = quests
	return s, nil
}
