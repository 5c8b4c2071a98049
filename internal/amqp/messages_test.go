package amqp

import (
	"context"
	"testing"
)

func TestExpenseAddedMessage_RoundTrip(t *testing.T) {
	msg := NewExpenseAddedMessage("alice", "Food")

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := ExpenseAddedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.TelegramID != "alice" {
		t.Errorf("TelegramID = %q, want alice", decoded.TelegramID)
	}
	if decoded.Category != "Food" {
		t.Errorf("Category = %q, want Food", decoded.Category)
	}
	if decoded.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestExpenseAddedMessageFromJSON_Invalid(t *testing.T) {
	if _, err := ExpenseAddedMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestNilClient_Noop(t *testing.T) {
	var c *Client

	if err := c.PublishExpenseAdded(context.Background(), "alice", "Food"); err != nil {
		t.Errorf("nil client publish should be a no-op, got error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("nil client close should be a no-op, got error: %v", err)
	}
}
