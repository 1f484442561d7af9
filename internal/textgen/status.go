package textgen

import (
	"fmt"
	"net/http"

	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StatusError is a backend failure with an HTTP style status code.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend status %d: %s", e.Code, e.Message)
}

// StatusCode extracts an HTTP style status code from a backend error, or 0 when there is none.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		return googleErr.Code
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var requestErr *openai.RequestError
	if errors.As(err, &requestErr) {
		return requestErr.HTTPStatusCode
	}
	var httpCoder interface{ HTTPCode() int }
	if errors.As(err, &httpCoder) && httpCoder.HTTPCode() > 0 {
		return httpCoder.HTTPCode()
	}
	if s, ok := status.FromError(err); ok {
		return grpcToHTTP[s.Code()]
	}
	return 0
}

var grpcToHTTP = map[codes.Code]int{ //nolint:exhaustive // unmapped codes are not retryable
	codes.ResourceExhausted: http.StatusTooManyRequests,
	codes.Unavailable:       http.StatusServiceUnavailable,
	codes.Internal:          http.StatusInternalServerError,
	codes.Unknown:           http.StatusInternalServerError,
	codes.DeadlineExceeded:  http.StatusGatewayTimeout,
	codes.InvalidArgument:   http.StatusBadRequest,
	codes.PermissionDenied:  http.StatusForbidden,
	codes.Unauthenticated:   http.StatusUnauthorized,
	codes.NotFound:          http.StatusNotFound,
}

// IsRetryable reports whether err carries a 429 or 5xx status.
func IsRetryable(err error) bool {
	code := StatusCode(err)
	return code == http.StatusTooManyRequests ||
		(code >= http.StatusInternalServerError && code < 600) //nolint:mnd // end of 5xx range
}
