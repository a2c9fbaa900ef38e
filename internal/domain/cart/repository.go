package cart

import (
	"context"
)

// BlobStore is the durable key-value storage a cart is saved to. Load
// reports found=false when nothing is stored under key.
type BlobStore interface {
	Load(ctx context.Context, key string) (blob []byte, found bool, err error)
	Save(ctx context.Context, key string, blob []byte) error
}

// ConditionalBlobStore is implemented by blob stores that can save only if
// the stored blob still equals expected. A nil expected means nothing is
// stored. Stores shared by several processes should implement it so
// concurrent edits to one cart are merged instead of lost.
type ConditionalBlobStore interface {
	BlobStore
	CompareAndSave(ctx context.Context, key string, expected, blob []byte) (bool, error)
}

// Observer receives cart lifecycle events; monitoring implements it.
type Observer interface {
	ObserveLoad(outcome string)
	ObserveMutation(op string, err error)
}

const (
	LoadEmpty    = "empty"
	LoadRestored = "restored"
	LoadCorrupt  = "corrupt"
	LoadFailed   = "failed"
)

type nopObserver struct{}

func (nopObserver) ObserveLoad(string)            {}
func (nopObserver) ObserveMutation(string, error) {}
