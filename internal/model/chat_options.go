package model

// ChatOptions is a fully-specified options record. An assignment either
// carries its own complete record or inherits one; partial records do not
// exist, so resolution never merges fields.
type ChatOptions struct {
	ChatModel      string  `json:"chat_model"`
	EvaluatorModel string  `json:"evaluator_model"`
	Temperature    float64 `json:"temperature"`
	MaxMessages    int     `json:"max_messages"`
	TimeLimitMin   *int    `json:"time_limit_min,omitempty"`
	HintsEnabled   bool    `json:"hints_enabled"`
	AllowRechat    bool    `json:"allow_rechat"`
}

// BuiltinChatOptions is the last resort of the resolution chain; it is
// returned when no assignment override and no stored default applies.
func BuiltinChatOptions() ChatOptions {
	return ChatOptions{
		ChatModel:      "gemini-1.5-flash",
		EvaluatorModel: "gemini-1.5-pro",
		Temperature:    0.7,
		MaxMessages:    40,
		TimeLimitMin:   nil,
		HintsEnabled:   true,
		AllowRechat:    false,
	}
}
