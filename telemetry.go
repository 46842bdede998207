package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// interactionEvent is one line of the interaction log.
type interactionEvent struct {
	SessionID string            `json:"session_id"`
	UserID    string            `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Event     string            `json:"event"`
	Source    string            `json:"source,omitempty"`
	Column    string            `json:"column,omitempty"`
	Rows      int               `json:"rows,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

type interactionLog struct {
	path      string
	sessionID string
	userID    string
	source    string
	mu        sync.Mutex
}

func newInteractionLog(path, sessionID, userID, source string) *interactionLog {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	return &interactionLog{
		path:      path,
		sessionID: strings.TrimSpace(sessionID),
		userID:    strings.TrimSpace(userID),
		source:    source,
	}
}

// Emit appends event to the log. Failures are dropped; the log never
// interrupts the UI.
func (l *interactionLog) Emit(event interactionEvent) {
	if l == nil || strings.TrimSpace(event.Event) == "" {
		return
	}
	if event.SessionID == "" {
		event.SessionID = l.sessionID
	}
	if event.UserID == "" {
		event.UserID = l.userID
	}
	if event.Source == "" {
		event.Source = l.source
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if len(event.Extra) == 0 {
		event.Extra = nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	data = append(data, '\n')
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(data)
}

func newSessionID() string {
	return uuid.NewString()
}

func resolveUserID() string {
	candidates := []string{
		os.Getenv("GRIDVIEW_USER_ID"),
		os.Getenv("USER"),
		os.Getenv("USERNAME"),
	}
	for _, candidate := range candidates {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
