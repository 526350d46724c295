// Package events publishes custody lifecycle notifications for downstream
// consumers such as audit trails. Events never carry key material.
package events

import (
	"context"
	"time"
)

type Type string

const (
	UserRegistered Type = "user.registered"
	WalletCreated  Type = "wallet.created"
	WalletImported Type = "wallet.imported"
)

type Event struct {
	Type       Type      `json:"type"`
	UserID     string    `json:"userId"`
	Address    string    `json:"address,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
