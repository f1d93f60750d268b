package ctxutil

import (
	"context"
	"time"
)

// private key to avoid collisions with other packages
type key int

const keyRequestID key = 0

// WithRequestID tags the context with the id the api client forwards on
// every backend call.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func RequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(keyRequestID)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// DefaultAPITimeout bounds a single backend call; there is no retry on top.
var DefaultAPITimeout = 10 * time.Second

// WithAPITimeout respects a shorter parent deadline when one exists.
func WithAPITimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		remain := time.Until(dl)
		if remain < DefaultAPITimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultAPITimeout)
}
