package id_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ellarises/webapp/pkg/id"
)

func TestNewULID(t *testing.T) {
	t.Parallel()

	t.Run("length and alphabet", func(t *testing.T) {
		t.Parallel()

		ulid := id.NewULID()
		require.Len(t, ulid, 26)
		for _, ch := range ulid {
			require.Contains(t, "0123456789ABCDEFGHJKMNPQRSTVWXYZ", string(ch))
		}
	})

	t.Run("uniqueness", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			ulid := id.NewULID()
			_, dup := seen[ulid]
			require.False(t, dup, "duplicate ULID generated: %s", ulid)
			seen[ulid] = struct{}{}
		}
	})
}
