package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sweetpotato0/questflow/document"
	"github.com/sweetpotato0/questflow/llm"
	"github.com/sweetpotato0/questflow/quest"
	"github.com/sweetpotato0/questflow/similarity"
	"github.com/sweetpotato0/questflow/store"
	"github.com/sweetpotato0/questflow/trusted"
)

type stubLLM struct {
	replies []string
	calls   int
	err     error
}

func (s *stubLLM) Generate(_ context.Context, _ []llm.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.calls >= len(s.replies) {
		return "", fmt.Errorf("no scripted reply for call %d", s.calls+1)
	}
	reply := s.replies[s.calls]
	s.calls++
	return reply, nil
}

func (s *stubLLM) SetTemperature(float64) {}
func (s *stubLLM) SetMaxTokens(int64)     {}
func (s *stubLLM) SetModel(string)        {}

type failingRetriever struct{}

func (failingRetriever) Search(context.Context, string, quest.Category) ([]trusted.Excerpt, error) {
	return nil, fmt.Errorf("trusted corpus unreachable")
}

// cancelingStore saves into the wrapped store and then cancels the request
// context, simulating a deadline that fires between persist and reindex.
type cancelingStore struct {
	inner  *store.Memory
	cancel context.CancelFunc
}

func (c *cancelingStore) Save(ctx context.Context, doc document.Document) (string, error) {
	id, err := c.inner.Save(ctx, doc)
	c.cancel()
	return id, err
}

func (c *cancelingStore) Get(ctx context.Context, id string) (document.Document, error) {
	return c.inner.Get(ctx, id)
}

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, *similarity.Lexical, *store.Memory) {
	t.Helper()
	index := similarity.NewLexical(document.BuiltinCorpus()...)
	docs := store.NewMemory()
	p, err := New(Clients{}, index, trusted.NewStatic(), docs, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p, index, docs
}

func TestNewRequiresCapabilities(t *testing.T) {
	index := similarity.NewLexical()
	docs := store.NewMemory()
	retriever := trusted.NewStatic()

	if _, err := New(Clients{}, nil, retriever, docs); err == nil {
		t.Error("New() with nil index should fail")
	}
	if _, err := New(Clients{}, index, nil, docs); err == nil {
		t.Error("New() with nil retriever should fail")
	}
	if _, err := New(Clients{}, index, retriever, nil); err == nil {
		t.Error("New() with nil store should fail")
	}
	if _, err := New(Clients{}, index, retriever, docs, WithReuseScore(0.5), WithSoftAcceptScore(0.9)); err == nil {
		t.Error("New() with inverted gate thresholds should fail")
	}
}

func TestDecide(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	match := func(score float64) similarity.Match {
		return similarity.Match{Score: score}
	}

	tests := []struct {
		name    string
		matches []similarity.Match
		want    Method
	}{
		{name: "no candidates", matches: nil, want: MethodSynthesize},
		{name: "hard accept at threshold", matches: []similarity.Match{match(0.85)}, want: MethodReuse},
		{name: "hard accept above threshold", matches: []similarity.Match{match(0.95)}, want: MethodReuse},
		{name: "soft accept with enough candidates", matches: []similarity.Match{match(0.75), match(0.72)}, want: MethodReuse},
		{name: "soft band single candidate", matches: []similarity.Match{match(0.80)}, want: MethodSynthesize},
		{name: "soft lower bound inclusive", matches: []similarity.Match{match(0.70), match(0.70)}, want: MethodReuse},
		{name: "below soft band", matches: []similarity.Match{match(0.69), match(0.69)}, want: MethodSynthesize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.decide(tt.matches); got != tt.want {
				t.Errorf("decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessReusesSeededCorpus(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	result := p.Process(context.Background(), quest.NewFeedback("목이 아파서 스트레칭하고 싶어요"))

	if !result.Success {
		t.Fatalf("Process() success = false, error = %q", result.Error)
	}
	if result.Method != MethodReuse {
		t.Fatalf("Process() method = %v, want %v", result.Method, MethodReuse)
	}
	if result.DocumentsUsed == 0 {
		t.Error("Process() used no documents on the reuse path")
	}
	if len(result.SimilarityScores) == 0 || result.SimilarityScores[0] < 0.85 {
		t.Errorf("Process() best score = %v, want >= 0.85", result.SimilarityScores)
	}
	if len(result.Quests) != 3 {
		t.Fatalf("Process() returned %d quests, want 3", len(result.Quests))
	}
	for i, tier := range quest.Tiers() {
		if result.Quests[i].Difficulty != tier {
			t.Errorf("quest %d difficulty = %v, want %v", i, result.Quests[i].Difficulty, tier)
		}
	}
	for i, q := range result.Quests {
		if !strings.Contains(q.Evidence, "[doc ") {
			t.Errorf("quest %d evidence %q does not cite a document", i, q.Evidence)
		}
	}
}

func TestProcessSynthesizesAndRoundTrips(t *testing.T) {
	p, index, docs := newTestPipeline(t)
	feedback := quest.NewFeedback("요즘 잠드는 시간이 들쑥날쑥해서 아침마다 힘들어요")

	first := p.Process(context.Background(), feedback)
	if !first.Success {
		t.Fatalf("first Process() failed: %q", first.Error)
	}
	if first.Method != MethodSynthesize {
		t.Fatalf("first Process() method = %v, want %v", first.Method, MethodSynthesize)
	}
	if first.DocumentID == "" {
		t.Fatal("first Process() returned empty document ID")
	}
	if first.TrustedSourceCount == 0 {
		t.Error("first Process() consulted no trusted sources")
	}
	if len(first.Quests) != 3 {
		t.Fatalf("first Process() returned %d quests, want 3", len(first.Quests))
	}

	saved, err := docs.Get(context.Background(), first.DocumentID)
	if err != nil {
		t.Fatalf("Get(%q) error = %v", first.DocumentID, err)
	}
	if saved.Metadata[document.MetaUserRequest] != feedback.Content {
		t.Errorf("saved document user request = %v, want %q", saved.Metadata[document.MetaUserRequest], feedback.Content)
	}
	if saved.Metadata[document.MetaProvenance] != document.ProvenanceAuthored {
		t.Errorf("saved document provenance = %v", saved.Metadata[document.MetaProvenance])
	}
	if index.Count() != len(document.BuiltinCorpus())+1 {
		t.Errorf("index count = %d, want %d", index.Count(), len(document.BuiltinCorpus())+1)
	}

	// Same feedback again: the authored document must now win outright.
	second := p.Process(context.Background(), feedback)
	if second.Method != MethodReuse {
		t.Fatalf("second Process() method = %v, want %v", second.Method, MethodReuse)
	}
	if len(second.SimilarityScores) == 0 || second.SimilarityScores[0] != 1.0 {
		t.Errorf("second Process() best score = %v, want 1.0", second.SimilarityScores)
	}
}

func TestProcessFallsBackOnTrustedFailure(t *testing.T) {
	index := similarity.NewLexical() // empty: forces the synthesize path
	p, err := New(Clients{}, index, failingRetriever{}, store.NewMemory())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	content := "여드름이 계속 생겨요"
	result := p.Process(context.Background(), quest.NewFeedback(content))

	if result.Success {
		t.Fatal("Process() success = true, want fallback")
	}
	if result.Method != MethodFallback {
		t.Fatalf("Process() method = %v, want %v", result.Method, MethodFallback)
	}
	if result.Error == "" {
		t.Error("Process() fallback result has empty error")
	}
	if len(result.Quests) != 1 {
		t.Fatalf("Process() returned %d quests, want 1", len(result.Quests))
	}
	want := FallbackQuests(quest.Classify(content))[0]
	if result.Quests[0].Title != want.Title {
		t.Errorf("fallback quest = %q, want %q for the feedback category", result.Quests[0].Title, want.Title)
	}
}

func TestProcessEmptyFeedbackFallsBack(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	result := p.Process(context.Background(), quest.NewFeedback("   "))

	if result.Success || result.Method != MethodFallback {
		t.Fatalf("Process() = success %v method %v, want fallback", result.Success, result.Method)
	}
	if len(result.Quests) != 1 {
		t.Errorf("Process() returned %d quests, want 1", len(result.Quests))
	}
}

func TestProcessCancelAfterPersistStillIndexes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	index := similarity.NewLexical() // empty: forces the synthesize path
	inner := store.NewMemory()
	docs := &cancelingStore{inner: inner, cancel: cancel}
	p, err := New(Clients{}, index, trusted.NewStatic(), docs)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := p.Process(ctx, quest.NewFeedback("매일 야근 때문에 저녁 루틴이 무너졌어요"))

	if result.Method != MethodFallback {
		t.Fatalf("Process() method = %v, want %v after cancellation", result.Method, MethodFallback)
	}
	// The document was persisted before the cancellation fired, so the
	// index must have been brought in line with the store anyway.
	if inner.Count() != 1 {
		t.Fatalf("store count = %d, want 1", inner.Count())
	}
	if index.Count() != 1 {
		t.Errorf("index count = %d, want 1: store and index diverged", index.Count())
	}
}

func TestProcessModelBackedGeneration(t *testing.T) {
	reply := `{"quests":[
		{"title":"Wake-up roll","if_condition":"after waking up","then_action":"roll your neck slowly","estimated_time":"3m","difficulty":"easy","success_metric":"5 days a week","evidence":"PT guideline"},
		{"title":"Desk break","if_condition":"every two hours","then_action":"stretch at your desk","estimated_time":"5m","difficulty":"medium","success_metric":"3 times a day","evidence":"rehab guideline"},
		{"title":"Night routine","if_condition":"before bed","then_action":"full stretch routine","estimated_time":"10m","difficulty":"hard","success_metric":"4 days a week","evidence":"panel guide"}
	]}`
	client := &stubLLM{replies: []string{reply}}

	index := similarity.NewLexical(document.BuiltinCorpus()...)
	p, err := New(Clients{Generator: client}, index, trusted.NewStatic(), store.NewMemory())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := p.Process(context.Background(), quest.NewFeedback("목이 아파요"))

	if !result.Success || result.Method != MethodReuse {
		t.Fatalf("Process() = success %v method %v, want reuse", result.Success, result.Method)
	}
	if len(result.Quests) != 3 {
		t.Fatalf("Process() returned %d quests, want 3", len(result.Quests))
	}
	if result.Quests[0].Title != "Wake-up roll" {
		t.Errorf("quest title = %q, want model output", result.Quests[0].Title)
	}
	if !strings.Contains(result.Quests[0].Evidence, "[doc health_neck_001]") {
		t.Errorf("quest evidence %q does not cite the reused document", result.Quests[0].Evidence)
	}
}

func TestProcessUnparsableModelOutputFallsBack(t *testing.T) {
	client := &stubLLM{replies: []string{"not json at all", "still not json"}}
	index := similarity.NewLexical(document.BuiltinCorpus()...)
	p, err := New(Clients{Generator: client}, index, trusted.NewStatic(), store.NewMemory())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := p.Process(context.Background(), quest.NewFeedback("목이 아파요"))

	if result.Method != MethodFallback {
		t.Fatalf("Process() method = %v, want %v", result.Method, MethodFallback)
	}
	if client.calls != 2 {
		t.Errorf("model calls = %d, want 1 retry after the first failure", client.calls)
	}
}
