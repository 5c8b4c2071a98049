package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"connector/internal/botclient"
	"connector/internal/journal"
)

// Reply texts. Fixed strings by contract: internal diagnostic detail goes to
// logs, never to chat.
const (
	msgWelcome = "Welcome! Send /add <your expense> to record an expense and /list to see what you have saved."

	msgNoExpenses = "You have no expenses recorded yet."
	msgListError  = "Error fetching your expenses ❌. Please try again later."

	msgWritePrompt = "Please write your expense"
	msgProcessing  = "Processing your expense..."
	msgAddError    = "Error adding your expense ❌. Please try again"
)

// Sender sends outbound chat messages. *tgbotapi.BotAPI implements it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// BackendClient is the slice of the backend expense service the handlers
// use. *botclient.Client implements it.
type BackendClient interface {
	ProcessMessage(ctx context.Context, telegramID, message string) botclient.Result
	AddToWhitelist(ctx context.Context, telegramID string) botclient.WhitelistResult
	ListExpenses(ctx context.Context, telegramID string) []botclient.Expense
}

// Recorder appends command audit entries. *journal.Journal implements it.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// EventPublisher emits expense events for downstream consumers.
// *amqp.Client implements it.
type EventPublisher interface {
	PublishExpenseAdded(ctx context.Context, telegramID, category string) error
}

// Handlers holds the collaborators shared by all command handlers. Each
// invocation works only from its message value; there is no per-user or
// per-chat state, so concurrent invocations never interfere.
type Handlers struct {
	sender  Sender
	backend BackendClient
	journal Recorder
	events  EventPublisher
	logger  *slog.Logger
}

// NewHandlers wires the command handlers. journal and events may be nil.
func NewHandlers(sender Sender, backend BackendClient, jour Recorder, events EventPublisher, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		sender:  sender,
		backend: backend,
		journal: jour,
		events:  events,
		logger:  logger.With("component", "bot"),
	}
}

// Start registers the user with the backend whitelist and greets them.
// Registration failures are silent toward the user: the greeting is sent
// either way and the failure is only logged.
func (h *Handlers) Start(ctx context.Context, msg *tgbotapi.Message, match []string) {
	chatID := msg.Chat.ID
	telegramID := senderUsername(msg)

	outcome := journal.OutcomeSuccess
	if telegramID == "" {
		h.logger.WarnContext(ctx, "Skipping whitelist registration: message has no sender username",
			"chat_id", chatID)
		outcome = journal.OutcomeFailure
	} else if result := h.backend.AddToWhitelist(ctx, telegramID); !result.Success {
		h.logger.WarnContext(ctx, "Whitelist registration failed",
			"telegram_id", telegramID, "chat_id", chatID)
		outcome = journal.OutcomeFailure
	}

	h.reply(ctx, chatID, msgWelcome)
	h.record(ctx, telegramID, chatID, "start", outcome)
}

// List replies with the user's expenses, one "<category> - <description> -
// <amount>" line each. ListExpenses is total, so the only local failure is a
// message without a sender handle.
func (h *Handlers) List(ctx context.Context, msg *tgbotapi.Message, match []string) {
	chatID := msg.Chat.ID
	telegramID := senderUsername(msg)

	if telegramID == "" {
		h.logger.ErrorContext(ctx, "Error fetching expenses: message has no sender username",
			"chat_id", chatID)
		h.reply(ctx, chatID, msgListError)
		h.record(ctx, telegramID, chatID, "list", journal.OutcomeFailure)
		return
	}

	expenses := h.backend.ListExpenses(ctx, telegramID)
	if len(expenses) == 0 {
		h.reply(ctx, chatID, msgNoExpenses)
		h.record(ctx, telegramID, chatID, "list", journal.OutcomeEmpty)
		return
	}

	lines := make([]string, 0, len(expenses))
	for _, e := range expenses {
		lines = append(lines, fmt.Sprintf("%s - %s - %s", e.Category, e.Description, formatAmount(e.Amount)))
	}
	h.reply(ctx, chatID, strings.Join(lines, "\n"))
	h.record(ctx, telegramID, chatID, "list", journal.OutcomeSuccess)
}

// Add forwards the trailing command text to the backend. A missing argument
// prompts the user and stops; otherwise the user always sees the processing
// acknowledgment before the outcome.
func (h *Handlers) Add(ctx context.Context, msg *tgbotapi.Message, match []string) {
	chatID := msg.Chat.ID
	// Identity for adds comes from the chat handle, not the sender handle.
	telegramID := msg.Chat.UserName

	text := ""
	if len(match) > 1 {
		text = strings.TrimSpace(match[1])
	}
	if text == "" {
		h.reply(ctx, chatID, msgWritePrompt)
		h.record(ctx, telegramID, chatID, "add", journal.OutcomeEmpty)
		return
	}

	h.logger.InfoContext(ctx, "Adding expense", "telegram_id", telegramID, "text", text)
	h.reply(ctx, chatID, msgProcessing)

	result := h.backend.ProcessMessage(ctx, telegramID, text)
	if !result.Success {
		h.reply(ctx, chatID, msgAddError)
		h.record(ctx, telegramID, chatID, "add", journal.OutcomeFailure)
		return
	}

	category := categoryFrom(result.Data)
	h.reply(ctx, chatID, fmt.Sprintf("%s expense added ✅", category))
	h.record(ctx, telegramID, chatID, "add", journal.OutcomeSuccess)

	if h.events != nil {
		if err := h.events.PublishExpenseAdded(ctx, telegramID, category); err != nil {
			h.logger.ErrorContext(ctx, "Failed to publish expense added event",
				"telegram_id", telegramID, "error", err)
		}
	}
}

// reply sends one outbound message. Send failures are logged and absorbed:
// a reply error must not take down the handler.
func (h *Handlers) reply(ctx context.Context, chatID int64, text string) {
	if _, err := h.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.logger.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}

// record appends a journal entry; journal failures never reach the user.
func (h *Handlers) record(ctx context.Context, telegramID string, chatID int64, command, outcome string) {
	if h.journal == nil {
		return
	}
	if err := h.journal.Record(ctx, journal.Entry{
		TelegramID: telegramID,
		ChatID:     chatID,
		Command:    command,
		Outcome:    outcome,
	}); err != nil {
		h.logger.ErrorContext(ctx, "Failed to record command",
			"command", command, "outcome", outcome, "error", err)
	}
}

func senderUsername(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	return msg.From.UserName
}

// formatAmount renders an amount the way the backend reported it: minimal
// digits, no forced decimals (10, not 10.00).
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// categoryFrom reads the category out of the backend payload. Rendering is
// permissive: a missing or empty field shows as the literal undefined token.
func categoryFrom(data map[string]any) string {
	v, ok := data["category"]
	if !ok || v == nil {
		return "undefined"
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return "undefined"
		}
		return s
	}
	return fmt.Sprint(v)
}
