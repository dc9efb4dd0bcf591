package messenger

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-telegram/bot/models"
)

// Sent is one outbound call captured by Recorder.
type Sent struct {
	Kind      string // "text", "plain", "edit", "callback" or "document"
	ChatID    int64
	MessageID int
	Text      string
	Keyboard  *models.InlineKeyboardMarkup
	Path      string
	Name      string
}

// Recorder is an in-memory Messenger for tests.
type Recorder struct {
	mu    sync.Mutex
	sent  []Sent
	Files map[string]string
	// FailFor makes every send to these chats fail.
	FailFor map[int64]bool
}

func NewRecorder() *Recorder {
	return &Recorder{Files: map[string]string{}, FailFor: map[int64]bool{}}
}

func (r *Recorder) record(s Sent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailFor[s.ChatID] {
		return fmt.Errorf("chat %d unreachable", s.ChatID)
	}
	r.sent = append(r.sent, s)
	return nil
}

func (r *Recorder) Send(_ context.Context, chatID int64, text string, kb *models.InlineKeyboardMarkup) error {
	return r.record(Sent{Kind: "text", ChatID: chatID, Text: text, Keyboard: kb})
}

func (r *Recorder) SendPlain(_ context.Context, chatID int64, text string) error {
	return r.record(Sent{Kind: "plain", ChatID: chatID, Text: text})
}

func (r *Recorder) Edit(_ context.Context, chatID int64, messageID int, text string, kb *models.InlineKeyboardMarkup) error {
	return r.record(Sent{Kind: "edit", ChatID: chatID, MessageID: messageID, Text: text, Keyboard: kb})
}

func (r *Recorder) AnswerCallback(_ context.Context, callbackID, text string) error {
	return r.record(Sent{Kind: "callback", Name: callbackID, Text: text})
}

func (r *Recorder) SendDocument(_ context.Context, chatID int64, path, name, caption string) error {
	return r.record(Sent{Kind: "document", ChatID: chatID, Path: path, Name: name, Text: caption})
}

func (r *Recorder) Typing(context.Context, int64) {}

func (r *Recorder) FileURL(_ context.Context, fileID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	url, ok := r.Files[fileID]
	if !ok {
		return "", fmt.Errorf("unknown file %s", fileID)
	}
	return url, nil
}

// All returns a copy of everything sent so far.
func (r *Recorder) All() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sent(nil), r.sent...)
}

// Last returns the most recent call, or the zero Sent.
func (r *Recorder) Last() Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Sent{}
	}
	return r.sent[len(r.sent)-1]
}

// Of returns the calls of one kind.
func (r *Recorder) Of(kind string) []Sent {
	var out []Sent
	for _, s := range r.All() {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.sent = nil
	r.mu.Unlock()
}
