package game

import (
	"context"
	"errors"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
)

// NotifierFunc adapts a plain function to MoveNotifier
type NotifierFunc func(ctx context.Context, event domain.MoveEvent) error

func (f NotifierFunc) NotifyMove(ctx context.Context, event domain.MoveEvent) error {
	return f(ctx, event)
}

// Notifiers fans an event out to every sink in order. All sinks are called
// even when one fails; the failures are joined.
type Notifiers []MoveNotifier

func (n Notifiers) NotifyMove(ctx context.Context, event domain.MoveEvent) error {
	var errs []error
	for _, sink := range n {
		if sink == nil {
			continue
		}
		if err := sink.NotifyMove(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
