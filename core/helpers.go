package orchestration

import (
	"context"
	"fmt"
)

type isolatedRun func(context.Context) error

// panicSafeNamed turns any fault inside run, panics included, into a plain
// error so isolation boundaries can reduce it to a log entry.
func panicSafeNamed(name string, run func(context.Context) error) isolatedRun {
	return func(ctx context.Context) (err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				err = fmt.Errorf("%s panicked: %v", name, recovered)
			}
		}()

		if err = run(ctx); err != nil {
			return fmt.Errorf("%s failed: %w", name, err)
		}

		return nil
	}
}
