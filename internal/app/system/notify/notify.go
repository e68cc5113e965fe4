// Package notify delivers user-facing notifications.
//
// Controllers report mutation outcomes here instead of returning
// presentation text to callers; the shell prints them, tests record them.
// Error notifications carry the server's message verbatim.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Notifier receives user-facing messages.
type Notifier interface {
	// Success reports a completed operation.
	Success(msg string)

	// Error reports a failed operation. The message is shown to the user
	// as-is; callers must not embed internal details.
	Error(msg string)
}

// Log is a Notifier that writes notifications to the application log.
type Log struct {
	log *zap.Logger
}

// NewLog creates a log-backed Notifier.
func NewLog(log *zap.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Success(msg string) {
	l.log.Info("notice", zap.String("message", msg))
}

func (l *Log) Error(msg string) {
	l.log.Warn("notice", zap.String("message", msg))
}

// Recorder is a Notifier that captures messages for assertions in tests.
type Recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

// Successes returns a copy of recorded success messages.
func (r *Recorder) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...)
}

// Errors returns a copy of recorded error messages.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Reset clears all recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = nil
	r.errors = nil
}

// TruncateName shortens long item names for notification text.
func TruncateName(name string) string {
	const max = 25
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max]) + "..."
}
