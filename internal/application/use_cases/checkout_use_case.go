package use_cases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yuzvak/storefront-service/internal/application/ports"
	"github.com/yuzvak/storefront-service/internal/domain/cart"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/domain/order"
	"github.com/yuzvak/storefront-service/internal/pkg/clock"
	"github.com/yuzvak/storefront-service/internal/pkg/generator"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type CheckoutRequest struct {
	SessionID     string
	UserID        string
	Billing       order.Billing
	PaymentMethod string
}

// CheckoutUseCase turns a session's cart into an order. The cart is cleared
// only once the order repository has confirmed the write.
type CheckoutUseCase struct {
	sessions *cart.Sessions
	orders   ports.OrderRepository
	locker   ports.Locker
	notifier ports.Notifier
	idGen    *generator.CodeGenerator
	clock    clock.Clock
	log      *logger.Logger

	lockTimeout time.Duration
}

func NewCheckoutUseCase(
	sessions *cart.Sessions,
	orders ports.OrderRepository,
	locker ports.Locker,
	notifier ports.Notifier,
	idGen *generator.CodeGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		sessions:    sessions,
		orders:      orders,
		locker:      locker,
		notifier:    notifier,
		idGen:       idGen,
		clock:       clk,
		log:         log,
		lockTimeout: 10 * time.Second,
	}
}

func (uc *CheckoutUseCase) ExecuteCheckout(ctx context.Context, req CheckoutRequest) (*order.Order, error) {
	if err := req.Billing.Validate(); err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("checkout:%s", req.SessionID)
	locked, err := uc.locker.DistributedLock(ctx, lockKey, uc.lockTimeout)
	if err != nil {
		uc.log.Error("Failed to acquire lock", "error", err, "lock_key", lockKey)
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, domainErrors.ErrCheckoutBusy
	}
	defer func() {
		if err := uc.locker.ReleaseLock(ctx, lockKey); err != nil {
			uc.log.Error("Failed to release lock", "error", err, "lock_key", lockKey)
		}
	}()

	store := uc.sessions.Get(ctx, req.SessionID)
	if err := store.Refresh(ctx); err != nil {
		return nil, err
	}
	snapshot := store.Snapshot()
	if snapshot.IsEmpty() {
		return nil, domainErrors.ErrEmptyCart
	}

	placed, err := order.NewOrder(uc.idGen.GenerateOrderID(), req.UserID, snapshot, req.Billing, req.PaymentMethod, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := uc.orders.CreateOrder(ctx, placed); err != nil {
		uc.log.Error("Failed to store order", "error", err, "order_id", placed.ID, "user_id", req.UserID)
		if errors.Is(err, domainErrors.ErrTransactionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrTransactionFailed, err)
	}

	if err := store.Clear(ctx); err != nil {
		// The order exists; the in-memory cart is already empty and the next
		// successful save will overwrite the stale blob.
		uc.log.Warn("Order placed but cart clear was not persisted", "error", err, "order_id", placed.ID)
	}

	if uc.notifier != nil {
		if err := uc.notifier.OrderPlaced(ctx, placed); err != nil {
			uc.log.Warn("Failed to send order confirmation", "error", err, "order_id", placed.ID)
		}
	}

	return placed, nil
}
