package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/sweetpotato0/questflow/llm"
)

// Config holds Gemini provider configuration
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int32
	Temperature float32
}

// DefaultConfig returns default Gemini configuration
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       "gemini-1.5-flash",
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

// Provider implements llm.Client for Gemini
type Provider struct {
	mu     sync.Mutex
	config *Config
	client *genai.Client
}

var _ llm.Client = (*Provider)(nil)

// New creates a new Gemini provider using the official SDK
func New(ctx context.Context, config *Config) (*Provider, error) {
	if config.Model == "" {
		config.Model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client init failed: %w", err)
	}
	return &Provider{config: config, client: client}, nil
}

// Close releases the underlying client connection
func (p *Provider) Close() error {
	return p.client.Close()
}

// Generate implements llm.Client
func (p *Provider) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	p.mu.Lock()
	model := p.client.GenerativeModel(p.config.Model)
	model.SetTemperature(p.config.Temperature)
	if p.config.MaxTokens > 0 {
		model.SetMaxOutputTokens(p.config.MaxTokens)
	}
	p.mu.Unlock()

	// System messages become the system instruction; the rest is history
	// plus the final user turn.
	var systemParts []string
	var turns []llm.Message
	for _, msg := range messages {
		if msg.Role == llm.RoleSystem {
			systemParts = append(systemParts, msg.Content)
			continue
		}
		turns = append(turns, msg)
	}
	if len(systemParts) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(strings.Join(systemParts, "\n"))},
		}
	}
	if len(turns) == 0 {
		return "", fmt.Errorf("gemini request has no user content")
	}

	chat := model.StartChat()
	for _, msg := range turns[:len(turns)-1] {
		role := "user"
		if msg.Role == llm.RoleAssistant {
			role = "model"
		}
		chat.History = append(chat.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	resp, err := chat.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini response contained no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini response contained no text content")
	}
	return sb.String(), nil
}

// SetTemperature updates the sampling temperature
func (p *Provider) SetTemperature(temp float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config.Temperature = float32(temp)
}

// SetMaxTokens updates the completion token limit
func (p *Provider) SetMaxTokens(max int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config.MaxTokens = int32(max)
}

// SetModel updates the model identifier
func (p *Provider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config.Model = model
}
