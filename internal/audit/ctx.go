package audit

import (
	"context"
	"time"
)

type ctxKey int

const clientCtxKey ctxKey = 1

func WithClient(ctx context.Context, c *Client) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, clientCtxKey, c)
}

func FromContext(ctx context.Context) *Client {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(clientCtxKey).(*Client)
	return c
}

// LogBestEffort writes a record with the client carried by ctx and ignores
// failures. It never blocks the caller for more than two seconds.
func LogBestEffort(ctx context.Context, action, level string, details map[string]any) {
	c := FromContext(ctx)
	if c == nil {
		return
	}
	ctx2, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	_ = c.Write(ctx2, Record{Action: action, Level: level, Details: details})
}
