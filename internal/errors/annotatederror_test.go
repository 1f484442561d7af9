package errors_test

import (
	"fmt"
	"log/slog"
	"slices"
	"testing"

	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestAnnotatedError(t *testing.T) {
	err := errors.New("test error", slog.String("id", "123"))
	require.Equal(t, "test error", err.Error())

	// Assert that wrapping sentinel errors work as expected.
	sentinel := errors.NewSentinel("test error")
	require.NotErrorIs(t, err, errors.NewSentinel("test error"))
	wrapped := errors.Wrap(sentinel, "wrapped", slog.String("mystery_id", "m1"))
	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "wrapped: test error", wrapped.Error())

	// Ensure log values are coming through.
	var annotated *errors.AnnotatedError
	require.True(t, errors.As(err, &annotated))
	group := annotated.LogValue().Group()
	require.Contains(t, group, slog.String("id", "123"))

	// Assert there's a valid source
	sourceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "source"
	})
	require.GreaterOrEqual(t, sourceIdx, 0)
	require.Contains(t, group[sourceIdx].Value.String(), "annotatederror_test.go")
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, errors.Wrap(nil, "nothing to wrap"))
}

func TestSlogError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind slog.Kind
	}{
		{name: "plain", err: fmt.Errorf("plain"), wantKind: slog.KindString},
		{name: "annotated", err: errors.New("annotated", slog.Int("attempt", 2)), wantKind: slog.KindGroup},
		{
			name:     "annotated behind fmt wrap",
			err:      fmt.Errorf("outer: %w", errors.New("inner")),
			wantKind: slog.KindGroup,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := errors.SlogError(tt.err)
			require.Equal(t, "error", attr.Key)
			require.Equal(t, tt.wantKind, attr.Value.Resolve().Kind())
		})
	}
}
