package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Relay input limits. A message is one user turn; the stored row holds
	// the user message and the assistant reply together.
	MaxMessageLength = 2000

	// ContextWindowPairs is how many recent exchange pairs are replayed to
	// the completion provider ahead of the current message.
	ContextWindowPairs = 5

	DefaultSessionTitle   = "New Chat"
	SessionTitleMaxLength = 50

	SessionListDefaultLimit = 50
	SessionListMaxLimit     = 100
	HistoryDefaultLimit     = 10
	HistoryMaxLimit         = 100

	// OpenAI Configuration
	OpenAIDefaultBaseURL = "https://api.openai.com/v1"
	OpenAIChatEndpoint   = "/chat/completions"

	// Ollama Configuration
	OllamaDefaultBaseURL = "http://localhost:11434"
	OllamaDefaultModel   = "llama3.1:8b"
	OllamaChatEndpoint   = "/api/chat"

	// In-process message bus topics
	TopicOutboundEmails = "emails.outbound"
)
