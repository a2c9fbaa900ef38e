package order

import (
	"errors"
	"strings"
	"time"

	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
)

type ReturnAction string

const (
	ActionReturn  ReturnAction = "return"
	ActionReplace ReturnAction = "replace"
)

const ReturnStatusRequested = "Requested"

type ReturnRequest struct {
	ID        string       `json:"id"`
	OrderID   string       `json:"orderId"`
	UserID    string       `json:"userId"`
	Items     []string     `json:"items"`
	Action    ReturnAction `json:"action"`
	Reason    string       `json:"reason"`
	Comments  string       `json:"comments,omitempty"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}

// NewReturnRequest validates a request against the order it refers to. Items
// are order line titles; at least one is required and all must be in o.
func NewReturnRequest(id string, o *Order, items []string, action ReturnAction, reason, comments string, now time.Time) (*ReturnRequest, error) {
	if id == "" {
		return nil, errors.New("return id cannot be empty")
	}
	if action != ActionReturn && action != ActionReplace {
		return nil, domainErrors.ErrInvalidReturnAction
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domainErrors.ErrReturnReasonMissing
	}

	selected := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, title := range items {
		if _, dup := seen[title]; dup {
			continue
		}
		if !o.HasItem(title) {
			return nil, domainErrors.ErrReturnItemsMissing
		}
		seen[title] = struct{}{}
		selected = append(selected, title)
	}
	if len(selected) == 0 {
		return nil, domainErrors.ErrReturnItemsMissing
	}

	if !o.CanReturn() {
		return nil, domainErrors.ErrOrderNotReturnable
	}

	return &ReturnRequest{
		ID:        id,
		OrderID:   o.ID,
		UserID:    o.UserID,
		Items:     selected,
		Action:    action,
		Reason:    reason,
		Comments:  strings.TrimSpace(comments),
		Status:    ReturnStatusRequested,
		CreatedAt: now,
	}, nil
}
