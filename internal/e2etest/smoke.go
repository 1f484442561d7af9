package e2etest

import (
	"context"
	"log/slog"

	"github.com/myrjola/avalanchemystery/internal/errors"
)

// Smoke exercises the session and read-only mystery endpoints of a running server.
func Smoke(ctx context.Context, c *Client, player string) error {
	if err := c.WaitForReady(ctx, "/api/healthy"); err != nil {
		return errors.Wrap(err, "wait for ready")
	}
	if err := c.Identify(ctx, player); err != nil {
		return err
	}
	got, err := c.Player(ctx)
	if err != nil {
		return err
	}
	if got != player {
		return errors.New("session lost the player address", slog.String("want", player), slog.String("got", got))
	}
	if _, err = c.ActiveMysteries(ctx); err != nil {
		return err
	}
	return nil
}
