package shutdown

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/review-search/pkg/logging"
)

type recorder struct {
	name  string
	order *[]string
	err   error
}

func (r recorder) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	*r.order = append(*r.order, r.name)
	return r.err
}

func TestGracefulStopsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var order []string
	err := Graceful(ctx, []os.Signal{os.Interrupt}, time.Second, logging.NewNop(),
		recorder{name: "server", order: &order},
		recorder{name: "resources", order: &order},
	)
	require.NoError(t, err)
	require.Equal(t, []string{"server", "resources"}, order)
}

func TestGracefulJoinsErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var order []string
	boom := errors.New("boom")
	err := Graceful(ctx, []os.Signal{os.Interrupt}, time.Second, logging.NewNop(),
		recorder{name: "server", order: &order, err: boom},
		recorder{name: "resources", order: &order},
	)
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"server", "resources"}, order)
}
