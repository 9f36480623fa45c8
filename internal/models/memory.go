package models

// Типы диалогов ассистента. Для каждого типа ведется отдельная история.
const (
	ConversationRegular    = "regular"
	ConversationOnboarding = "onboarding"
)

// Exchange — одна пара реплик пользователь/ассистент в памяти диалога.
// Записи хранятся в хронологическом порядке вставки.
type Exchange struct {
	User      string `json:"user"`      // Текст пользователя
	Assistant string `json:"assistant"` // Ответ ассистента
	Timestamp string `json:"timestamp"` // RFC3339
}

// Turn — реплика в формате chat-completions API.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
