// Package chat реализует ассистента Coey: проверку бана, фильтр
// эксплуатационных сообщений, вызов модели с контекстом диалога и
// запасные ответы при недоступности модели.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rizzosai/domain-backoffice/internal/catalog"
	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
	"github.com/rizzosai/domain-backoffice/internal/models"
	"github.com/rizzosai/domain-backoffice/internal/services/moderation"
)

// SuspensionMessage — фиксированный ответ забаненному пользователю.
const SuspensionMessage = "Your access to the AI assistant has been suspended for 24 hours due to a policy violation. If you believe this is a mistake, please contact support."

// AdminTestMessage — ответ администратору на сработавший детектор.
const AdminTestMessage = "Security test passed: the exploitation filter flagged this message. No action was taken because you are the administrator."

// Completer описывает внешнего поставщика chat-completions.
type Completer interface {
	Complete(ctx context.Context, messages []models.Turn) (string, error)
}

// Memory описывает память диалогов ассистента.
type Memory interface {
	GetContext(ctx context.Context, userID, conversationType string) ([]models.Turn, error)
	Append(ctx context.Context, userID, conversationType, userText, assistantText string) error
}

// Bans описывает проверку и наложение банов.
type Bans interface {
	IsBanned(ctx context.Context, userID string) bool
	Ban(ctx context.Context, userID, reason, ip string)
}

// Reply — результат обработки сообщения.
type Reply struct {
	Text      string `json:"response"`
	Banned    bool   `json:"banned,omitempty"`
	AdminTest bool   `json:"admin_test,omitempty"`
}

// Request — входные данные одного сообщения пользователя.
type Request struct {
	UserID           string
	Username         string
	PackageID        string
	Message          string
	IP               string
	ConversationType string
}

// Responder собирает ответ ассистента из модерации, памяти и модели.
type Responder struct {
	llm     Completer
	memory  Memory
	bans    Bans
	adminID string
	log     *slog.Logger
}

// New создает новый экземпляр Responder.
func New(llm Completer, memory Memory, bans Bans, adminID string, log *slog.Logger) *Responder {
	return &Responder{
		llm:     llm,
		memory:  memory,
		bans:    bans,
		adminID: adminID,
		log:     log,
	}
}

// Respond обрабатывает сообщение: бан, детектор, модель, запасные ответы.
// Всегда возвращает текст для пользователя; ошибка наружу не уходит.
func (r *Responder) Respond(ctx context.Context, req Request) Reply {
	const op = "chat.Respond"

	if r.bans.IsBanned(ctx, req.UserID) {
		return Reply{Text: SuspensionMessage, Banned: true}
	}

	if moderation.IsExploitationAttempt(req.Message) {
		if req.UserID == r.adminID {
			r.log.Info("exploitation filter fired for admin, test mode",
				slog.String("op", op), slog.String("user", req.UserID))
			return Reply{Text: AdminTestMessage, AdminTest: true}
		}
		r.bans.Ban(ctx, req.UserID, "exploitation attempt: "+truncate(req.Message, 200), req.IP)
		r.log.Warn("user banned for exploitation attempt",
			slog.String("op", op), slog.String("user", req.UserID))
		return Reply{Text: SuspensionMessage, Banned: true}
	}

	pkg := catalog.Get(req.PackageID)

	messages := []models.Turn{{Role: "system", Content: r.systemPrompt(req, pkg)}}
	history, err := r.memory.GetContext(ctx, req.UserID, req.ConversationType)
	if err != nil {
		// История недоступна — отвечаем без контекста.
		r.log.Error("failed to load conversation context", slog.String("op", op),
			slog.String("user", req.UserID), sl.Err(err))
	} else {
		messages = append(messages, history...)
	}
	messages = append(messages, models.Turn{Role: "user", Content: req.Message})

	answer, err := r.llm.Complete(ctx, messages)
	if err != nil {
		r.log.Error("llm call failed, using fallback", slog.String("op", op),
			slog.String("user", req.UserID), sl.Err(err))
		// Запасной ответ не отражает контекст модели, в память не пишется.
		return Reply{Text: fallbackReply(req.Message, req.Username, pkg)}
	}

	if err := r.memory.Append(ctx, req.UserID, req.ConversationType, req.Message, answer); err != nil {
		r.log.Error("failed to persist exchange", slog.String("op", op),
			slog.String("user", req.UserID), sl.Err(err))
	}
	return Reply{Text: answer}
}

func (r *Responder) systemPrompt(req Request, pkg catalog.Package) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are Coey, an AI business assistant for RizzosAI domain business owners.\n")
	fmt.Fprintf(&b, "You help users with their %s (%s) package.\n\n", pkg.Name, pkg.Price)
	fmt.Fprintf(&b, "The user %s has access to %d training guides and these features:\n", req.Username, pkg.Guides)
	for _, feature := range pkg.Features {
		fmt.Fprintf(&b, "- %s\n", feature)
	}
	b.WriteString(`
You help users with:
- Understanding their training guides and how to implement them
- Business strategy advice for domain and referral marketing
- Technical help with their backoffice and domain setup
- Analytics and performance insights
- Scaling their online business based on their package level
- Package upgrade recommendations when appropriate

Be helpful, encouraging, and provide actionable advice. Keep responses concise but informative.
Reference their specific package level and available guides when relevant.`)
	if req.ConversationType == models.ConversationOnboarding {
		b.WriteString("\n\nThe user has just completed a purchase. Walk them through account setup and their first guide.")
	}
	return b.String()
}

// fallbackReply подбирает запасной ответ по ключевым словам сообщения.
func fallbackReply(message, username string, pkg catalog.Package) string {
	lower := strings.ToLower(message)

	switch {
	case containsAnyWord(lower, "hello", "hi", "hey"):
		return fmt.Sprintf("Hello %s! I'm Coey, your AI business assistant. With your %s, you have access to %d expert training guides. What would you like to know about growing your business?",
			username, pkg.Name, pkg.Guides)
	case containsAnyWord(lower, "help", "what can you do"):
		return fmt.Sprintf("I can help you with: business analytics, guide implementation, strategy advice, technical support, and scaling strategies for your %s. What interests you?",
			pkg.Name)
	case containsAnyWord(lower, "guide", "training", "learn"):
		return fmt.Sprintf("Your %s includes %d comprehensive guides. Start with the foundation guides, then progress to advanced strategies. Which specific guide would you like help with?",
			pkg.Name, pkg.Guides)
	case containsAnyWord(lower, "upgrade", "more guides", "advanced"):
		return fmt.Sprintf("Your current %s is great! If you're ready to scale further, consider upgrading to access more advanced guides and features. Would you like to see upgrade options?",
			pkg.Name)
	case containsAnyWord(lower, "earning", "money", "profit", "income"):
		return "To maximize earnings, focus on implementing your training guides systematically. Start with domain optimization, then move to referral strategies. Track your progress daily!"
	case containsAnyWord(lower, "strategy", "marketing", "market"):
		return fmt.Sprintf("Great question about strategy! Your %s guides cover proven marketing approaches: start with domain positioning, then build referral momentum. Which channel are you focusing on?",
			pkg.Name)
	default:
		return fmt.Sprintf("Thanks for your question, %s! With your %s, you have access to proven strategies. Check your training guides for detailed implementation steps, or ask me something more specific about your business goals.",
			username, pkg.Name)
	}
}

func containsAnyWord(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
