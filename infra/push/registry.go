package push

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription is one registered device.
type Subscription struct {
	ID       string `json:"id"`
	Token    string `json:"token"`
	Terminal string `json:"terminal"`
}

// Registry holds device subscriptions in memory. Subscriptions do not
// survive a restart; clients re-register on reconnect.
type Registry struct {
	mu   sync.RWMutex
	subs map[string]Subscription
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{subs: map[string]Subscription{}}
}

// Add registers a device token for a terminal and returns the subscription
// id. Registering the same token twice replaces the earlier subscription.
func (r *Registry) Add(token, terminal string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, sub := range r.subs {
		if sub.Token == token {
			delete(r.subs, id)
		}
	}
	id := uuid.NewString()
	r.subs[id] = Subscription{ID: id, Token: token, Terminal: terminal}
	return id
}

// Remove drops a subscription by id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.subs, id)
	r.mu.Unlock()
}

// For returns the subscriptions watching the given terminal.
func (r *Registry) For(terminal string) []Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Subscription
	for _, sub := range r.subs {
		if sub.Terminal == terminal {
			out = append(out, sub)
		}
	}
	return out
}

// Len returns the number of registered subscriptions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
