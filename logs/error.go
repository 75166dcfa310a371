package logs

import (
	"context"
	"fmt"
)

// WrapSpan annotates err with the span of ctx so a failure can be matched with its logs.
func WrapSpan(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	span := SpanFromContext(ctx)
	if span == "" {
		return err
	}
	return fmt.Errorf("%w (span: %s)", err, span)
}
