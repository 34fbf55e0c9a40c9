package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// InboxState exposes internal state for observability.
type InboxState struct {
	Dir          string     `json:"dir"`
	Pattern      string     `json:"pattern"`
	Watching     bool       `json:"watching"`
	Delivered    int        `json:"delivered"`
	Failed       int        `json:"failed"`
	LastDelivery *time.Time `json:"last_delivery,omitempty"`
}

// State implements introspection.Introspectable.
func (in *Inbox) State() any {
	in.mu.RLock()
	defer in.mu.RUnlock()

	return InboxState{
		Dir:          in.dir,
		Pattern:      in.opts.pattern,
		Watching:     in.watching,
		Delivered:    in.delivered,
		Failed:       in.failed,
		LastDelivery: in.lastDelivery,
	}
}

// ComponentType implements introspection.Component.
func (in *Inbox) ComponentType() string {
	return "inbox"
}

// OutboxState exposes internal state for observability.
type OutboxState struct {
	Dir      string     `json:"dir"`
	Format   string     `json:"format"`
	Sent     int        `json:"sent"`
	LastSent *time.Time `json:"last_sent,omitempty"`
}

// State implements introspection.Introspectable.
func (o *Outbox) State() any {
	o.mu.Lock()
	defer o.mu.Unlock()

	format := ""
	if o.Codec != nil {
		format = o.Codec.Name()
	}
	return OutboxState{
		Dir:      o.Dir,
		Format:   format,
		Sent:     o.sent,
		LastSent: o.lastSent,
	}
}

// ComponentType implements introspection.Component.
func (o *Outbox) ComponentType() string {
	return "outbox"
}

var _ introspection.Introspectable = (*Inbox)(nil)
var _ introspection.Component = (*Inbox)(nil)
var _ introspection.Introspectable = (*Outbox)(nil)
var _ introspection.Component = (*Outbox)(nil)
