package web

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResponseWriterHooksRunOnceBeforeFirstWrite(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)

	var calls int
	rw.OnBeforeWrite(func() { calls++ })

	rw.WriteHeader(201)
	rw.WriteHeader(500) // ignored: header already sent

	_, err := rw.Write([]byte("hello"))
	require.NoError(t, err)

	require.Equal(t, 1, calls)
	require.Equal(t, 201, rec.Code)
	require.Equal(t, 201, rw.Status())
	require.True(t, rw.Written())
	require.Equal(t, int64(5), rw.Size())
}

func TestResponseWriterImplicitWriteHeader(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)

	var hookRan bool
	rw.OnBeforeWrite(func() { hookRan = true })

	require.False(t, rw.Written())
	_, err := rw.Write([]byte("body"))
	require.NoError(t, err)

	require.True(t, hookRan)
	require.Equal(t, 200, rw.Status())
	require.Equal(t, "body", rec.Body.String())
}

func TestResponseWriterHookRegisteredAfterWriteNeverRuns(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)

	rw.WriteHeader(200)

	var called bool
	rw.OnBeforeWrite(func() { called = true })
	_, _ = rw.Write([]byte("late"))

	require.False(t, called)
}
