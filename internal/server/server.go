package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/simple-ledger/internal/interfaces"
	"github.com/sheikh-saqib/simple-ledger/internal/ledger"
)

// Server exposes a Ledger over HTTP. It only translates requests and
// responses; every rule lives in the ledger.
type Server struct {
	ledger    *ledger.Ledger
	store     interfaces.SnapshotStore
	publisher interfaces.EventPublisher
	logger    *zap.Logger

	newID func() string
	now   func() time.Time
}

type Option func(*Server)

func WithPublisher(p interfaces.EventPublisher) Option {
	return func(s *Server) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer wires l and store. store backs the snapshot endpoints.
func NewServer(l *ledger.Ledger, store interfaces.SnapshotStore, opts ...Option) *Server {
	s := &Server{
		ledger:    l,
		store:     store,
		publisher: interfaces.NopPublisher{},
		logger:    zap.NewNop(),
		newID:     func() string { return uuid.New().String() },
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// publish is best effort: the ledger change has already happened, so a
// broker failure is logged and never turned into a request failure.
func (s *Server) publish(ctx context.Context, key string, event any) {
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.Warn("failed to publish ledger event", zap.String("key", key), zap.Error(err))
	}
}
