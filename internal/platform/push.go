package platform

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// Permission is the answer to a notification permission prompt
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// PermissionFunc asks the user for notification permission
type PermissionFunc func(ctx context.Context) (Permission, error)

// Notification is a push message rendered for the user
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier displays notifications
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Subscription is an accepted push subscription
type Subscription struct {
	ApplicationServerKey []byte
	UserVisibleOnly      bool
}

// PushManager subscribes to push messages and routes them to a Notifier
type PushManager struct {
	caps     Capabilities
	ask      PermissionFunc
	notifier Notifier
	sub      *Subscription
}

// NewPushManager creates a push manager. ask and notifier may be nil.
func NewPushManager(caps Capabilities, ask PermissionFunc, notifier Notifier) *PushManager {
	return &PushManager{caps: caps, ask: ask, notifier: notifier}
}

// Subscription returns the active subscription, if any
func (p *PushManager) Subscription() *Subscription {
	return p.sub
}

// Subscribe asks for permission and subscribes with the VAPID public key
func (p *PushManager) Subscribe(ctx context.Context, vapidKey string) (*Subscription, error) {
	if !p.caps.Push || !p.caps.Notifications {
		return nil, fmt.Errorf("push messaging: %w", ErrUnsupported)
	}

	perm := PermissionGranted
	if p.ask != nil {
		var err error
		perm, err = p.ask(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to request notification permission: %w", err)
		}
	}
	if perm != PermissionGranted {
		return nil, fmt.Errorf("push permission %s: %w", perm, ErrPermissionDenied)
	}

	key, err := DecodeVAPIDKey(vapidKey)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe user: %w", err)
	}

	p.sub = &Subscription{ApplicationServerKey: key, UserVisibleOnly: true}
	log.Printf("User subscribed to push (%d byte key)", len(key))
	return p.sub, nil
}

// Receive parses a push payload and hands it to the notifier
func (p *PushManager) Receive(payload []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return Notification{}, fmt.Errorf("failed to parse push message: %w", err)
	}
	if n.Title == "" {
		return Notification{}, fmt.Errorf("push message has no title")
	}
	if p.notifier != nil {
		p.notifier.Notify(n)
	}
	return n, nil
}

// DecodeVAPIDKey decodes a base64url key, with or without padding
func DecodeVAPIDKey(key string) ([]byte, error) {
	key = strings.TrimRight(strings.TrimSpace(key), "=")
	if key == "" {
		return nil, fmt.Errorf("vapid key is empty")
	}
	data, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("invalid vapid key: %w", err)
	}
	return data, nil
}
