// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// ThinkingText is the placeholder body shown while a reply is in flight.
const ThinkingText = "Thinking..."

// FailedText is the body a placeholder is converted to when the gateway
// call fails or times out. A placeholder is never left pending forever.
const FailedText = "Sorry, I couldn't reply just now. Please try again."

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAI:
		return "Haven"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat bubble in a day's transcript.
type Message struct {
	// ID doubles as the correlation id for pending replies.
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`

	// Pending marks a placeholder awaiting the gateway reply.
	Pending bool `json:"pending,omitempty"`

	// Failed marks a placeholder whose reply never arrived. Terminal
	// state, rendered as an error bubble.
	Failed bool `json:"failed,omitempty"`
}

// NewUserMessage creates a finished user message.
func NewUserMessage(text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    SenderUser,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// NewPendingMessage creates the assistant placeholder appended right after
// a user message is sent.
func NewPendingMessage() Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    SenderAI,
		Text:      ThinkingText,
		Pending:   true,
		CreatedAt: time.Now(),
	}
}

// Resolve returns the message as a finished assistant reply.
func (m Message) Resolve(reply string) Message {
	m.Text = reply
	m.Pending = false
	m.Failed = false
	return m
}

// MarkFailed returns the message as a terminal failed bubble.
func (m Message) MarkFailed() Message {
	m.Text = FailedText
	m.Pending = false
	m.Failed = true
	return m
}
