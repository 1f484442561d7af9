package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/justinas/nosurf"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/models"
)

// ErrUnexpectedStatus is returned when the server answers with a status the caller did not expect.
var ErrUnexpectedStatus = errors.NewSentinel("unexpected status code")

// Client talks to the mystery JSON API and keeps the session and CSRF cookies between calls.
type Client struct {
	client *http.Client
	url    string
}

func NewClient(url string) (*Client, error) {
	jar, err := NewCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create unsafe cookie jar")
	}
	return &Client{
		client: &http.Client{Jar: jar}, //nolint:exhaustruct // defaults are fine
		url:    url,
	}, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
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
			c.url+urlPath,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = c.client.Do(req); err == nil {
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
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// GetJSON fetches urlPath and decodes the JSON response into dst. Any status other than want is an error.
func (c *Client) GetJSON(ctx context.Context, urlPath string, want int, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+urlPath, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	return c.do(req, want, dst)
}

// PostJSON sends body as JSON together with a fresh CSRF token and decodes the response into dst.
func (c *Client) PostJSON(ctx context.Context, urlPath string, body any, want int, dst any) error {
	token, err := c.CSRFToken(ctx)
	if err != nil {
		return err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "marshal request body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+urlPath, bytes.NewReader(b))
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(nosurf.HeaderName, token)
	return c.do(req, want, dst)
}

func (c *Client) do(req *http.Request, want int, dst any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response body")
	}
	if resp.StatusCode != want {
		return errors.Wrap(ErrUnexpectedStatus, "unexpected response",
			slog.String("url", req.URL.String()),
			slog.Int("status", resp.StatusCode),
			slog.Int("want", want),
			slog.String("body", string(b)),
		)
	}
	if dst == nil {
		return nil
	}
	if err = json.Unmarshal(b, dst); err != nil {
		return errors.Wrap(err, "decode response body", slog.String("body", string(b)))
	}
	return nil
}

// CSRFToken fetches the token unsafe requests have to echo back.
func (c *Client) CSRFToken(ctx context.Context) (string, error) {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.GetJSON(ctx, "/api/csrf", http.StatusOK, &body); err != nil {
		return "", errors.Wrap(err, "fetch csrf token")
	}
	return body.Token, nil
}

// Identify stores player as the address of this client's session.
func (c *Client) Identify(ctx context.Context, player string) error {
	if err := c.PostJSON(ctx, "/api/session", map[string]string{"playerAddress": player}, http.StatusOK, nil); err != nil {
		return errors.Wrap(err, "identify player")
	}
	return nil
}

// Player returns the address of this client's session.
func (c *Client) Player(ctx context.Context) (string, error) {
	var body struct {
		PlayerAddress string `json:"playerAddress"`
	}
	if err := c.GetJSON(ctx, "/api/session", http.StatusOK, &body); err != nil {
		return "", errors.Wrap(err, "fetch player")
	}
	return body.PlayerAddress, nil
}

// ActiveMysteries lists the mysteries open for submissions.
func (c *Client) ActiveMysteries(ctx context.Context) ([]models.ActiveMystery, error) {
	var mysteries []models.ActiveMystery
	if err := c.GetJSON(ctx, "/api/mysteries", http.StatusOK, &mysteries); err != nil {
		return nil, errors.Wrap(err, "list mysteries")
	}
	return mysteries, nil
}
