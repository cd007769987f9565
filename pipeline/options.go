package pipeline

// TokenCounter measures and trims text against a token budget. A tokenizer
// implementation plugs in here; when absent, a rune budget is used instead.
type TokenCounter interface {
	Count(text string) int
	Truncate(text string, maxTokens int) string
}

// Config carries all tunables for a pipeline instance.
type Config struct {
	Name string

	// Decision gate thresholds.
	SearchThreshold   float64
	SearchLimit       int
	ReuseScore        float64
	SoftAcceptScore   float64
	SoftAcceptMinDocs int

	// Prompting.
	SynthesisPrompt string
	QuestPrompt     string
	MaxPromptTokens int
	MaxPromptChars  int
	GenerateRetries int

	GraphMaxVisits int

	tokenCounter TokenCounter
}

func defaultConfig() *Config {
	return &Config{
		Name:              "quest-pipeline",
		SearchThreshold:   0.70,
		SearchLimit:       5,
		ReuseScore:        0.85,
		SoftAcceptScore:   0.70,
		SoftAcceptMinDocs: 2,
		SynthesisPrompt:   defaultSynthesisPrompt,
		QuestPrompt:       defaultQuestPrompt,
		MaxPromptTokens:   600,
		MaxPromptChars:    1500,
		GenerateRetries:   1,
		GraphMaxVisits:    3,
	}
}

// truncateForPrompt trims document content before it is embedded in a prompt.
func (c *Config) truncateForPrompt(text string) string {
	if c.tokenCounter != nil {
		return c.tokenCounter.Truncate(text, c.MaxPromptTokens)
	}
	runes := []rune(text)
	if len(runes) <= c.MaxPromptChars {
		return text
	}
	return string(runes[:c.MaxPromptChars])
}

// Option configures a pipeline.
type Option func(*Config)

// WithName sets the pipeline name used in logs and spans.
func WithName(name string) Option {
	return func(c *Config) { c.Name = name }
}

// WithSearchThreshold sets the minimum score for a search hit.
func WithSearchThreshold(t float64) Option {
	return func(c *Config) { c.SearchThreshold = t }
}

// WithSearchLimit caps how many candidates the search stage returns.
func WithSearchLimit(n int) Option {
	return func(c *Config) { c.SearchLimit = n }
}

// WithReuseScore sets the hard-accept score at which a single candidate
// is enough to reuse.
func WithReuseScore(s float64) Option {
	return func(c *Config) { c.ReuseScore = s }
}

// WithSoftAcceptScore sets the lower score bound of the soft-accept band.
func WithSoftAcceptScore(s float64) Option {
	return func(c *Config) { c.SoftAcceptScore = s }
}

// WithSoftAcceptMinDocs sets how many candidates the soft-accept band needs.
func WithSoftAcceptMinDocs(n int) Option {
	return func(c *Config) { c.SoftAcceptMinDocs = n }
}

// WithSynthesisPrompt overrides the document-authoring system prompt.
func WithSynthesisPrompt(p string) Option {
	return func(c *Config) { c.SynthesisPrompt = p }
}

// WithQuestPrompt overrides the quest-generation system prompt.
func WithQuestPrompt(p string) Option {
	return func(c *Config) { c.QuestPrompt = p }
}

// WithTokenCounter plugs in a tokenizer for prompt budgeting.
func WithTokenCounter(tc TokenCounter) Option {
	return func(c *Config) { c.tokenCounter = tc }
}

// WithMaxPromptTokens sets the token budget applied when a tokenizer is set.
func WithMaxPromptTokens(n int) Option {
	return func(c *Config) { c.MaxPromptTokens = n }
}

// WithGenerateRetries sets how many times unparsable model output is retried.
func WithGenerateRetries(n int) Option {
	return func(c *Config) { c.GenerateRetries = n }
}

// WithGraphMaxVisits bounds graph node revisits.
func WithGraphMaxVisits(n int) Option {
	return func(c *Config) { c.GraphMaxVisits = n }
}
