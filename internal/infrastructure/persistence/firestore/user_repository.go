package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yuzvak/storefront-service/internal/application/ports"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/domain/user"
)

var _ ports.UserRepository = (*UserRepository)(nil)

type profileDoc struct {
	FirstName string    `firestore:"firstName"`
	LastName  string    `firestore:"lastName"`
	Email     string    `firestore:"email"`
	Phone     string    `firestore:"phone"`
	Address   string    `firestore:"address"`
	IsAdmin   bool      `firestore:"isAdmin"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// editableFields are the only paths SaveProfile writes; isAdmin is managed
// out of band.
var editableFields = []firestore.FieldPath{
	{"firstName"}, {"lastName"}, {"email"}, {"phone"}, {"address"}, {"updatedAt"},
}

type UserRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) users() *firestore.CollectionRef {
	return r.client.Collection(usersCollection)
}

func (r *UserRepository) GetProfile(ctx context.Context, uid string) (*user.Profile, error) {
	snap, err := r.users().Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domainErrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromProfileSnapshot(snap)
}

func (r *UserRepository) SaveProfile(ctx context.Context, p *user.Profile) error {
	doc := map[string]interface{}{
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"email":     p.Email,
		"phone":     p.Phone,
		"address":   p.Address,
		"updatedAt": p.UpdatedAt,
	}
	_, err := r.users().Doc(p.UID).Set(ctx, doc, firestore.Merge(editableFields...))
	return err
}

func (r *UserRepository) SetAdmin(ctx context.Context, uid string, admin bool) error {
	_, err := r.users().Doc(uid).Update(ctx, []firestore.Update{{Path: "isAdmin", Value: admin}})
	if status.Code(err) == codes.NotFound {
		return domainErrors.ErrUserNotFound
	}
	return err
}

func (r *UserRepository) ListProfiles(ctx context.Context) ([]*user.Profile, error) {
	iter := r.users().Documents(ctx)
	defer iter.Stop()

	out := []*user.Profile{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		p, err := fromProfileSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func fromProfileSnapshot(snap *firestore.DocumentSnapshot) (*user.Profile, error) {
	var doc profileDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("user %s: %w", snap.Ref.ID, err)
	}
	return &user.Profile{
		UID:       snap.Ref.ID,
		FirstName: doc.FirstName,
		LastName:  doc.LastName,
		Email:     doc.Email,
		Phone:     doc.Phone,
		Address:   doc.Address,
		IsAdmin:   doc.IsAdmin,
		UpdatedAt: doc.UpdatedAt.UTC(),
	}, nil
}
