package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/honeycarbs/review-search/pkg/logging"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Graceful waits for one of signals, or for ctx to end, then stops each
// component in order within a shared timeout
func Graceful(ctx context.Context, signals []os.Signal, timeout time.Duration, log *logging.Logger, components ...Stoppable) error {
	sigCtx, stop := signal.NotifyContext(ctx, signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, c := range components {
		if err := c.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		log.Warn("graceful shutdown completed with error", "err", err)
		return err
	}
	log.Info("graceful shutdown completed successfully")
	return nil
}
