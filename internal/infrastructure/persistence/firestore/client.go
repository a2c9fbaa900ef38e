package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/yuzvak/storefront-service/internal/config"
)

const (
	ordersCollection  = "orders"
	returnsCollection = "returns"
	usersCollection   = "users"
)

// NewClient opens a Firestore client for the configured project. Without a
// credentials file the Application Default Credentials are used.
func NewClient(ctx context.Context, cfg config.FirebaseConfig) (*firestore.Client, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, errors.New("firestore: project id is empty")
	}

	var opts []option.ClientOption
	if credFile := strings.TrimSpace(cfg.CredentialsFile); credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	}

	return firestore.NewClient(ctx, projectID, opts...)
}
