package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseAddedMessage notifies downstream consumers that the backend accepted
// a new expense for a user. It carries no expense payload; consumers fetch
// details from the backend service, which owns the data.
type ExpenseAddedMessage struct {
	TelegramID string    `json:"telegram_id"`
	Category   string    `json:"category"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewExpenseAddedMessage(telegramID, category string) *ExpenseAddedMessage {
	return &ExpenseAddedMessage{
		TelegramID: telegramID,
		Category:   category,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseAddedMessageFromJSON creates a message from JSON bytes
func ExpenseAddedMessageFromJSON(data []byte) (*ExpenseAddedMessage, error) {
	var msg ExpenseAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
