package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/justinas/nosurf"
	"github.com/myrjola/avalanchemystery/internal/e2etest"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func waitForReady(ctx context.Context, endpoint string) error {
	timeout := 1 * time.Second
	client := http.Client{}
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			endpoint,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(250 * time.Millisecond)
		}
	}
}

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "MYSTERY_ADDR":
		return "localhost:0", true
	case "MYSTERY_SQLITE_URL":
		return ":memory:", true
	case "MYSTERY_PPROF_PORT":
		return "", true
	case "MYSTERY_CLUE_INVENTORY":
		return "6", true
	default:
		return "", false
	}
}

type testServer struct {
	url    string
	client http.Client
}

// startTestServer starts the test server, waits for it to be ready, and return the server URL for testing.
func startTestServer(
	t *testing.T,
	w io.Writer,
	lookupEnv func(string) (string, bool),
	opts ...option,
) testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// We need to grab the dynamically allocated port from the log output.
	addrCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "Addr" {
				addrCh <- a.Value.String()
			}
			return a
		},
	})))

	// Start the server and wait for it to be ready.
	go func() {
		if err := run(ctx, logger, lookupEnv, opts...); err != nil {
			cancel()
			assert.NoError(t, err)
		}
	}()
	select {
	case <-ctx.Done():
		t.Fatal("server failed to start")
		return testServer{} //nolint:exhaustruct // This is unreachable.
	case addr := <-addrCh:
		serverURL := fmt.Sprintf("http://%s", addr)
		if err := waitForReady(ctx, fmt.Sprintf("%s/api/healthy", serverURL)); err != nil {
			require.NoError(t, err)
		}
		jar, err := e2etest.NewCookieJar()
		require.NoError(t, err)
		return testServer{
			url:    serverURL,
			client: http.Client{Jar: jar}, //nolint:exhaustruct // defaults are fine
		}
	}
}

func (s *testServer) URL() string {
	return s.url
}

// Get fetches a URL and returns the response.
func (s *testServer) Get(t *testing.T, urlPath string) *http.Response {
	t.Helper()
	resp, err := s.client.Get(s.url + urlPath)
	require.NoError(t, err)
	return resp
}

// GetJSON fetches a URL, decodes the JSON body into dst and returns the status code.
func (s *testServer) GetJSON(t *testing.T, urlPath string, dst any) int {
	t.Helper()
	resp := s.Get(t, urlPath)
	return decodeBody(t, resp, dst)
}

// CSRFToken fetches a token for the unsafe requests of this client.
func (s *testServer) CSRFToken(t *testing.T) string {
	t.Helper()
	var body struct {
		Token string `json:"token"`
	}
	require.Equal(t, http.StatusOK, s.GetJSON(t, "/api/csrf", &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

// PostJSON sends body as JSON with a valid CSRF token, decodes the response into dst and returns the status code.
func (s *testServer) PostJSON(t *testing.T, urlPath string, body any, dst any) int {
	t.Helper()
	token := s.CSRFToken(t)
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, s.url+urlPath, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(nosurf.HeaderName, token)
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	return decodeBody(t, resp, dst)
}

// Identify remembers player as the address of this client's session.
func (s *testServer) Identify(t *testing.T, player string) {
	t.Helper()
	var resp playerResponse
	require.Equal(t, http.StatusOK, s.PostJSON(t, "/api/session", map[string]string{"playerAddress": player}, &resp))
	require.Equal(t, player, resp.PlayerAddress)
}

func decodeBody(t *testing.T, resp *http.Response, dst any) int {
	t.Helper()
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if dst != nil && len(strings.TrimSpace(string(b))) > 0 {
		require.NoError(t, json.Unmarshal(b, dst), "body: %s", b)
	}
	return resp.StatusCode
}
