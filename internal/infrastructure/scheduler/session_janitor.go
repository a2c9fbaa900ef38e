package scheduler

import (
	"time"

	"github.com/yuzvak/storefront-service/internal/domain/cart"
	"github.com/yuzvak/storefront-service/internal/infrastructure/monitoring"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

// SessionJanitor drops idle cart stores from memory. Their state is already
// in the blob store, so the next request for the session restores it.
type SessionJanitor struct {
	sessions *cart.Sessions
	idleFor  time.Duration
	logger   *logger.Logger
}

func NewSessionJanitor(sessions *cart.Sessions, idleFor time.Duration, logger *logger.Logger) *SessionJanitor {
	return &SessionJanitor{
		sessions: sessions,
		idleFor:  idleFor,
		logger:   logger,
	}
}

func (j *SessionJanitor) Run() {
	evicted := j.sessions.Evict(j.idleFor)
	remaining := j.sessions.Len()
	monitoring.RecordSessionsEvicted(evicted, remaining)

	if evicted > 0 {
		j.logger.Info("Evicted idle cart sessions", "evicted", evicted, "remaining", remaining)
	}
}
