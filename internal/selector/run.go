package selector

import (
	"context"
	"errors"
	"fmt"
)

// Terminal draws render models and produces input events.
type Terminal interface {
	Render(RenderModel) error
	// NextEvent blocks until the next input is available or ctx is done.
	NextEvent(ctx context.Context) (Event, error)
}

// Run renders, reads and handles events until c reaches a terminal stage.
// A cancelled context ends the selection as cancelled and returns ctx.Err().
func Run(ctx context.Context, c *Controller, term Terminal) (Result, error) {
	for {
		if err := term.Render(c.Render()); err != nil {
			return Result{}, fmt.Errorf("render: %w", err)
		}
		if res, done := c.Result(); done {
			return res, nil
		}

		ev, err := term.NextEvent(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.Handle(Key(EventInterrupt))
				return Result{Outcome: OutcomeCancelled}, err
			}
			return Result{}, fmt.Errorf("read input: %w", err)
		}
		c.Handle(ev)
	}
}
