package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ellarises/webapp/pkg/sanitizer"
)

func TestStrip(t *testing.T) {
	t.Parallel()

	require.Equal(t, "hello", sanitizer.Strip("  hello  "))
	require.Equal(t, "hello", sanitizer.Strip("<script>alert(1)</script>hello"))
	require.Equal(t, "bold text", sanitizer.Strip("<b>bold</b> text"))
}

func TestSafeHTML(t *testing.T) {
	t.Parallel()

	t.Run("keeps basic formatting", func(t *testing.T) {
		t.Parallel()
		out := sanitizer.SafeHTML("<p>Hi <strong>there</strong></p>")
		require.Contains(t, out, "<strong>there</strong>")
	})

	t.Run("strips scripts and handlers", func(t *testing.T) {
		t.Parallel()
		out := sanitizer.SafeHTML(`<p onclick="x()">Hi</p><script>alert(1)</script>`)
		require.NotContains(t, out, "script")
		require.NotContains(t, out, "onclick")
	})

	t.Run("blocks javascript urls", func(t *testing.T) {
		t.Parallel()
		out := sanitizer.SafeHTML(`<a href="javascript:alert(1)">x</a>`)
		require.NotContains(t, out, "javascript:")
	})
}
