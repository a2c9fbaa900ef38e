package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "grant-admin"})

	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "config.json", flag.DefValue)
}

func TestGrantAdminRequiresUID(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"grant-admin"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	assert.Error(t, root.Execute())
}

func TestGrantAdminUnknownUserOnMemoryBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"orders": {"backend": "memory"}, "log": {"level": "error"}}`), 0o600))

	root := newRootCommand()
	root.SetArgs([]string{"grant-admin", "--config", path, "uid-1"})

	err := root.Execute()
	assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
}

func TestBootstrapRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"orders": {"backend": "mongo"}}`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	_, err := bootstrap(ctx, path)
	assert.ErrorContains(t, err, "unknown orders backend")
}
