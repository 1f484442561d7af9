package contexthelpers

import (
	"context"
)

// IsIdentified reports whether the request carries a player address.
func IsIdentified(ctx context.Context) bool {
	return PlayerAddress(ctx) != ""
}

func PlayerAddress(ctx context.Context) string {
	address, ok := ctx.Value(playerAddressContextKey).(string)
	if !ok {
		return ""
	}

	return address
}

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}
