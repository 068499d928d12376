package application

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/bnema/rsessions/internal/domain"
	"github.com/bnema/rsessions/internal/ports"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type settings struct {
	logger  *log.Logger
	clock   ports.Clock
	checker ports.LivenessChecker
	host    string
	newID   func() domain.SessionID
}

// Option configures a Registry or GlobalActiveSessions.
type Option func(*settings)

func WithLogger(logger *log.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(clock ports.Clock) Option {
	return func(s *settings) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLivenessChecker sets the checker used to confirm that a session marked
// running on this host still has a live process.
func WithLivenessChecker(checker ports.LivenessChecker) Option {
	return func(s *settings) {
		if checker != nil {
			s.checker = checker
		}
	}
}

func WithHostname(host string) Option {
	return func(s *settings) {
		if host != "" {
			s.host = host
		}
	}
}

func WithIDGenerator(fn func() domain.SessionID) Option {
	return func(s *settings) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func newSettings(opts []Option) settings {
	host, _ := os.Hostname()

	s := settings{
		logger:  log.New(io.Discard),
		clock:   ports.SystemClock{},
		checker: trustRecordedState{},
		host:    host,
		newID:   newSessionID,
	}
	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// newSessionID returns the first eight hex digits of a random UUID.
func newSessionID() domain.SessionID {
	id := uuid.New()
	return domain.SessionID(hex.EncodeToString(id[:4]))
}

type trustRecordedState struct{}

func (trustRecordedState) Alive(pid int) bool {
	return pid > 0
}
