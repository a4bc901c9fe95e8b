// Package notice is the backend stand-in for the storefront's toast layer:
// user-facing notices produced by cart and auth operations. Handlers map the
// accompanying errors onto HTTP responses; the sink keeps the notice text
// observable independently of transport.
package notice

import (
	"sync"

	"storefront-api/pkg/logger"
)

// Sink receives user-facing notices.
type Sink interface {
	Success(message string)
	Info(message string)
	Error(message string)
}

// LogSink writes notices to the structured log.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a sink backed by the application logger.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Success(message string) {
	s.log.WithField("notice", "success").Info(message)
}

func (s *LogSink) Info(message string) {
	s.log.WithField("notice", "info").Info(message)
}

func (s *LogSink) Error(message string) {
	s.log.WithField("notice", "error").Warn(message)
}

// Recorder captures notices for assertions in tests.
type Recorder struct {
	mu        sync.Mutex
	Successes []string
	Infos     []string
	Errors    []string
}

func (r *Recorder) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Successes = append(r.Successes, message)
}

func (r *Recorder) Info(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Infos = append(r.Infos, message)
}

func (r *Recorder) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, message)
}

// All returns every recorded notice count, for quick emptiness checks.
func (r *Recorder) All() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Successes) + len(r.Infos) + len(r.Errors)
}
