package contexthelpers

import (
	"context"
	"net/http"
)

func IdentifyContext(r *http.Request, playerAddress string) *http.Request {
	ctx := context.WithValue(r.Context(), playerAddressContextKey, playerAddress)
	return r.WithContext(ctx)
}

func SetCSRFToken(r *http.Request, csrfToken string) *http.Request {
	ctx := context.WithValue(r.Context(), csrfTokenContextKey, csrfToken)
	return r.WithContext(ctx)
}
