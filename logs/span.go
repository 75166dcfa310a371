package logs

import "context"

// Span identifies one unit of work, like a script run or a websocket connection.
type Span string

type spanKey struct{}

var SpanKey spanKey

func SpanFromContext(ctx context.Context) Span {
	if v := ctx.Value(SpanKey); v != nil {
		return v.(Span)
	}
	return ""
}
