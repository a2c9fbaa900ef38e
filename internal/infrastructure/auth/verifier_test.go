package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
)

func TestStaticVerifier(t *testing.T) {
	tokens := map[string]string{"tok-asha": "uid-1"}
	v := NewStaticVerifier(tokens)
	tokens["tok-late"] = "uid-2"

	id, err := v.Verify(context.Background(), "tok-asha")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", id.UID)

	_, err = v.Verify(context.Background(), "tok-late")
	assert.ErrorIs(t, err, domainErrors.ErrUnauthenticated)

	_, err = v.Verify(context.Background(), "")
	assert.ErrorIs(t, err, domainErrors.ErrUnauthenticated)
}

func TestStringClaim(t *testing.T) {
	claims := map[string]interface{}{"email": " asha@example.com ", "name": 42}

	assert.Equal(t, "asha@example.com", stringClaim(claims, "email"))
	assert.Equal(t, "", stringClaim(claims, "name"))
	assert.Equal(t, "", stringClaim(claims, "missing"))
}
