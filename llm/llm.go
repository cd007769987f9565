package llm

import "context"

// Role represents the role of a message author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single prompt message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// System builds a system message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User builds a user message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant builds an assistant message.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Client is the model inference capability consumed by the pipeline.
// Implementations surface timeouts, throttling, and validation failures as
// ordinary errors so callers see one uniform failure signal.
type Client interface {
	// Generate produces a completion for the given messages.
	Generate(ctx context.Context, messages []Message) (string, error)

	// SetTemperature updates the sampling temperature.
	SetTemperature(temp float64)

	// SetMaxTokens updates the completion token limit.
	SetMaxTokens(max int64)

	// SetModel updates the model identifier.
	SetModel(model string)
}
