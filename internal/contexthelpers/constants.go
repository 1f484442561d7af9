package contexthelpers

type contextKey string

const (
	playerAddressContextKey = contextKey("playerAddress")
	csrfTokenContextKey     = contextKey("csrfToken")
)
