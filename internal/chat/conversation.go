// Package chat manages one patient conversation: the ordered message
// transcript, the session identity attached to every exchange, and the
// Idle/Sending state the typing indicator hangs off.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/rexlx/clinicdesk/internal/gateway"
	"github.com/rexlx/clinicdesk/internal/session"
)

// Greeting opens every fresh conversation.
const Greeting = "Hello! I am your Clinic Assistant. How can I help you today?"

// failureReply is what the patient sees when the backend cannot be reached,
// whatever the underlying error was.
const failureReply = "I'm having trouble reaching the clinic. Please try again later."

// ErrBusy is returned when Send is called while a previous send is still in
// flight. Sends are not pipelined; the caller retries once the reply lands.
var ErrBusy = errors.New("a message is already in flight")

// Role identifies a message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the append-only transcript.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

type sendRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type sendResponse struct {
	Reply string `json:"reply"`
	Data  *struct {
		SessionState map[string]any `json:"session_state"`
	} `json:"data,omitempty"`
}

// Conversation drives the chat send/reply loop against the gateway.
type Conversation struct {
	mu    sync.Mutex
	api   *gateway.Client
	ids   *session.IdentityStore
	log   *slog.Logger
	epoch int

	messages     []Message
	sending      bool
	sessionState map[string]any

	// OnChange fires on the mutating goroutine after every visible change
	// to the transcript or state. The UI uses it to rerender.
	OnChange func()
}

func NewConversation(api *gateway.Client, ids *session.IdentityStore, log *slog.Logger) *Conversation {
	if log == nil {
		log = slog.Default()
	}
	return &Conversation{
		api:      api,
		ids:      ids,
		log:      log,
		messages: []Message{{Role: RoleAssistant, Text: Greeting}},
	}
}

// Messages returns a copy of the transcript in append order.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Sending reports whether a send is in flight (the typing indicator).
func (c *Conversation) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// SessionState returns the last server-declared state fragment, or nil.
// The client never interprets its fields beyond display.
func (c *Conversation) SessionState() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionState == nil {
		return nil
	}
	out := make(map[string]any, len(c.sessionState))
	for k, v := range c.sessionState {
		out[k] = v
	}
	return out
}

// SessionID exposes the conversation's correlation key.
func (c *Conversation) SessionID() (string, error) {
	return c.ids.GetOrCreate()
}

// Send appends the user's message, asks the backend for a reply and appends
// it. The user message lands on the transcript synchronously, before any
// network activity. Whatever happens to the request, the conversation ends
// up Idle again: a failed exchange is answered with a generic
// connectivity-failure bubble, never the raw error. Send returns ErrBusy
// while a previous send is unresolved, and otherwise the gateway error (for
// logging by the caller; the transcript already reflects the outcome).
func (c *Conversation) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return ErrBusy
	}
	c.sending = true
	epoch := c.epoch
	c.messages = append(c.messages, Message{Role: RoleUser, Text: text})
	c.mu.Unlock()
	c.notify()

	var (
		resp sendResponse
		err  error
	)
	sid, err := c.ids.GetOrCreate()
	if err == nil {
		err = c.api.Post(ctx, "/chat/", sendRequest{Message: text, SessionID: sid}, &resp)
	}

	c.mu.Lock()
	if epoch != c.epoch {
		// The conversation was reset while we were in flight. Drop the
		// outcome; the transcript already restarted.
		c.mu.Unlock()
		return err
	}
	if err != nil {
		c.log.Warn("chat send failed", "error", err)
		c.messages = append(c.messages, Message{Role: RoleAssistant, Text: failureReply})
	} else {
		c.messages = append(c.messages, Message{Role: RoleAssistant, Text: resp.Reply})
		if resp.Data != nil && resp.Data.SessionState != nil {
			c.sessionState = resp.Data.SessionState
		}
	}
	c.sending = false
	c.mu.Unlock()
	c.notify()
	return err
}

// Reset abandons the conversation: the session identifier is discarded so
// the next exchange mints a new one, the transcript returns to the
// greeting, and any in-flight reply is silently dropped when it lands.
func (c *Conversation) Reset() error {
	if err := c.ids.Reset(); err != nil {
		return err
	}

	c.mu.Lock()
	c.epoch++
	c.messages = []Message{{Role: RoleAssistant, Text: Greeting}}
	c.sessionState = nil
	c.sending = false
	c.mu.Unlock()
	c.notify()
	return nil
}

func (c *Conversation) notify() {
	if c.OnChange != nil {
		c.OnChange()
	}
}
