package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuzvak/storefront-service/internal/domain/cart"
	"github.com/yuzvak/storefront-service/internal/infrastructure/monitoring"
	"github.com/yuzvak/storefront-service/internal/infrastructure/persistence/memory"
	"github.com/yuzvak/storefront-service/internal/pkg/clock"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

func TestSessionJanitorEvictsIdleStores(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(start)
	blobs := memory.NewBlobStore()
	sessions := cart.NewSessions(blobs, cart.DefaultPricing(), cart.WithClock(clk))

	tee := cart.CatalogItem{ID: "1", Title: "Tee", Price: cart.FromMajor(500)}
	require.NoError(t, sessions.Get(ctx, "idle").AddItem(ctx, tee, 2))

	clk.Set(start.Add(40 * time.Minute))
	sessions.Get(ctx, "active")

	before := testutil.ToFloat64(monitoring.CartSessionsEvictedTotal)
	NewSessionJanitor(sessions, 30*time.Minute, logger.NewNop()).Run()

	assert.Equal(t, 1, sessions.Len())
	assert.Equal(t, before+1, testutil.ToFloat64(monitoring.CartSessionsEvictedTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(monitoring.CartSessionsActive))

	restored := sessions.Get(ctx, "idle").Items()
	require.Len(t, restored, 1)
	assert.Equal(t, 2, restored[0].Quantity)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	assert.Error(t, s.Schedule("broken", "every now and then", func() {}))
	assert.NoError(t, s.Schedule("janitor", "@every 5m", func() {}))
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Schedule("tick", "@every 1s", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
