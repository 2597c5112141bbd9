package execution

import (
	"context"
	"time"

	"tat/internal/domain"
)

// Surface is the application's UI as driven by a case
type Surface interface {
	Reset(ctx context.Context) error
	Fill(ctx context.Context, text string) error
	TypeSequentially(ctx context.Context, text string, delay time.Duration) error
	Backspace(ctx context.Context) error
	Clear(ctx context.Context) error
	InputValue(ctx context.Context) (string, error)
	OutputText(ctx context.Context) (string, error)
}

// SurfaceFactory opens a surface for a worker. release is called when the worker is done.
type SurfaceFactory func(ctx context.Context, workerID int) (s Surface, release func(), err error)

// Executor executes jobs and streams their results. Implementations close results on return.
type Executor interface {
	Execute(ctx context.Context, jobs []Job, results chan<- domain.Result) (time.Duration, error)
	ExecuteWithOptions(ctx context.Context, jobs []Job, failFast bool, results chan<- domain.Result) (time.Duration, error)
	SetConsumerStopped(stopped <-chan struct{})
}
