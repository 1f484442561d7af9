package textgen_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/retry"
	"github.com/myrjola/avalanchemystery/internal/testhelpers"
	"github.com/myrjola/avalanchemystery/internal/textgen"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// failingBackend fails with err for the first failures calls and then answers with text.
type failingBackend struct {
	failures int
	err      error
	text     string
	calls    int
}

func (b *failingBackend) Complete(_ context.Context, _ string) (string, error) {
	b.calls++
	if b.calls <= b.failures {
		return "", b.err
	}
	return b.text, nil
}

func recordingPolicy(delays *[]time.Duration) retry.Policy {
	p := retry.Backoff(textgen.IsRetryable)
	p.Sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return p
}

func TestClient_Generate(t *testing.T) {
	tests := []struct {
		name       string
		backend    *failingBackend
		wantText   string
		wantCalls  int
		wantDelays []time.Duration
		wantErr    error
	}{
		{
			name:       "success",
			backend:    &failingBackend{failures: 0, err: nil, text: "case file", calls: 0},
			wantText:   "case file",
			wantCalls:  1,
			wantDelays: nil,
			wantErr:    nil,
		},
		{
			name: "rate limited twice",
			backend: &failingBackend{
				failures: 2, err: &textgen.StatusError{Code: http.StatusTooManyRequests, Message: "slow down"},
				text: "case file", calls: 0,
			},
			wantText:   "case file",
			wantCalls:  3,
			wantDelays: []time.Duration{500 * time.Millisecond, time.Second},
			wantErr:    nil,
		},
		{
			name: "server error exhausts budget",
			backend: &failingBackend{
				failures: 99, err: &textgen.StatusError{Code: http.StatusServiceUnavailable, Message: "overloaded"},
				text: "", calls: 0,
			},
			wantText:   "",
			wantCalls:  4,
			wantDelays: []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second},
			wantErr:    textgen.ErrTransientBackend,
		},
		{
			name: "bad request is not retried",
			backend: &failingBackend{
				failures: 99, err: &textgen.StatusError{Code: http.StatusBadRequest, Message: "bad prompt"},
				text: "", calls: 0,
			},
			wantText:   "",
			wantCalls:  1,
			wantDelays: nil,
			wantErr:    nil,
		},
		{
			name:       "empty text",
			backend:    &failingBackend{failures: 0, err: nil, text: "", calls: 0},
			wantText:   "",
			wantCalls:  1,
			wantDelays: nil,
			wantErr:    textgen.ErrEmptyResponse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var delays []time.Duration
			client := textgen.NewWithBackend(testhelpers.NewLogger(io.Discard), tt.backend).
				WithPolicy(recordingPolicy(&delays))

			got, err := client.Generate(context.Background(), "write a mystery")
			require.Equal(t, tt.wantCalls, tt.backend.calls)
			require.Equal(t, tt.wantDelays, delays)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantText == "":
				require.Error(t, err)
				require.NotErrorIs(t, err, textgen.ErrTransientBackend)
			default:
				require.NoError(t, err)
				require.Equal(t, tt.wantText, got)
			}
		})
	}
}

func TestClient_MissingCredentialFailsAtFirstUse(t *testing.T) {
	client := textgen.New(testhelpers.NewLogger(io.Discard), textgen.Config{
		Provider:     textgen.ProviderGemini,
		GeminiAPIKey: "",
		GeminiModel:  "gemini-1.5-flash",
		OpenAIAPIKey: "",
		OpenAIModel:  "",
	})
	_, err := client.Generate(context.Background(), "prompt")
	require.ErrorIs(t, err, textgen.ErrConfiguration)

	client = textgen.New(testhelpers.NewLogger(io.Discard), textgen.Config{
		Provider:     "carrier-pigeon",
		GeminiAPIKey: "key",
		GeminiModel:  "",
		OpenAIAPIKey: "",
		OpenAIModel:  "",
	})
	_, err = client.Generate(context.Background(), "prompt")
	require.ErrorIs(t, err, textgen.ErrConfiguration)
	require.NoError(t, client.Close())
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain", err: fmt.Errorf("boom"), want: 0},
		{name: "status error", err: &textgen.StatusError{Code: 502, Message: ""}, want: 502},
		{name: "googleapi", err: &googleapi.Error{Code: 429}, want: 429}, //nolint:exhaustruct // code is enough
		{
			name: "openai api error",
			err:  &openai.APIError{HTTPStatusCode: 500}, //nolint:exhaustruct // code is enough
			want: 500,
		},
		{
			name: "openai request error",
			err:  &openai.RequestError{HTTPStatusCode: 503, Err: fmt.Errorf("down")},
			want: 503,
		},
		{name: "grpc exhausted", err: status.Error(codes.ResourceExhausted, "quota"), want: 429},
		{name: "grpc unavailable", err: status.Error(codes.Unavailable, "down"), want: 503},
		{name: "wrapped", err: errors.Wrap(&textgen.StatusError{Code: 429, Message: ""}, "ctx"), want: 429},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, textgen.StatusCode(tt.err))
		})
	}
}
