// Package queue defines message payloads exchanged over the message broker.
package queue

// ContactMessageEvent is published when a visitor submits the contact form.
// It carries the full submission so downstream consumers can log or notify
// without querying the primary database.
type ContactMessageEvent struct {
    Name    string `json:"name"`
    Email   string `json:"email"`
    Message string `json:"message"`
    SentAt  string `json:"sent_at"`
}
