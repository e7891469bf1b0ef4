package passwd_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ellarises/webapp/pkg/passwd"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := passwd.Hash("s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, "s3cret-pass", hash)

	require.NoError(t, passwd.Verify(hash, "s3cret-pass"))
	require.ErrorIs(t, passwd.Verify(hash, "wrong-pass"), passwd.ErrMismatch)
}

func TestVerifyMalformedHash(t *testing.T) {
	t.Parallel()

	err := passwd.Verify("not-a-bcrypt-hash", "anything")
	require.Error(t, err)
	require.NotErrorIs(t, err, passwd.ErrMismatch)
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	h1, err := passwd.Hash("same-password")
	require.NoError(t, err)
	h2, err := passwd.Hash("same-password")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
