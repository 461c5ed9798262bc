package ports

import "context"

// Transport posts a serialized request to a processor endpoint and returns the raw reply body.
// Implementations report network failures and non-2xx replies as *errors.TransportError.
// Callers must not retry; cancellation and timeouts are owned by the implementation and ctx.
type Transport interface {
	Post(ctx context.Context, url string, body []byte) ([]byte, error)
}
