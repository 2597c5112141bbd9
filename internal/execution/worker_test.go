package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"tat/internal/config"
	"tat/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func stubJob(id string, pass bool) Job {
	return Job{
		ID:    id,
		Title: id + ": stub",
		run: func(context.Context, *Runner, Surface) domain.Result {
			res := domain.Result{ID: id, Status: domain.StatusPass}
			if !pass {
				res.Status = domain.StatusFail
				res.Err = errors.New("mismatch")
			}
			return res
		},
	}
}

func newPool(t *testing.T, workers int, open SurfaceFactory) *WorkerPool {
	cfg := config.New()
	cfg.Workers = workers
	if open == nil {
		open = func(context.Context, int) (Surface, func(), error) {
			return &fakeSurface{}, func() {}, nil
		}
	}
	return NewWorkerPool(cfg, NewRunnerWithTiming(testTiming(), nil), NewRoundRobinScheduler(), open, zaptest.NewLogger(t))
}

func collect(results <-chan domain.Result) []domain.Result {
	var out []domain.Result
	for res := range results {
		out = append(out, res)
	}
	return out
}

func TestWorkerPool_SingleWorkerKeepsOrder(t *testing.T) {
	jobs := []Job{stubJob("A", true), stubJob("B", false), stubJob("C", true)}
	results := make(chan domain.Result, len(jobs))

	_, err := newPool(t, 1, nil).Execute(context.Background(), jobs, results)
	require.NoError(t, err)

	got := collect(results)
	require.Len(t, got, 3)
	for i, id := range []string{"A", "B", "C"} {
		assert.Equal(t, id, got[i].ID)
		assert.Equal(t, 1, got[i].Worker)
	}
}

func TestWorkerPool_MultipleWorkers(t *testing.T) {
	var jobs []Job
	for i := 0; i < 10; i++ {
		jobs = append(jobs, stubJob(fmt.Sprintf("C%02d", i), i%3 != 0))
	}

	var mu sync.Mutex
	opened, released := map[int]bool{}, int32(0)
	open := func(_ context.Context, workerID int) (Surface, func(), error) {
		mu.Lock()
		opened[workerID] = true
		mu.Unlock()
		return &fakeSurface{}, func() { atomic.AddInt32(&released, 1) }, nil
	}

	results := make(chan domain.Result)
	var got []domain.Result
	done := make(chan struct{})
	go func() {
		got = collect(results)
		close(done)
	}()

	_, err := newPool(t, 3, open).Execute(context.Background(), jobs, results)
	<-done
	require.NoError(t, err)

	assert.Len(t, got, 10)
	assert.Len(t, opened, 3)
	assert.Equal(t, int32(3), atomic.LoadInt32(&released))

	seen := map[string]bool{}
	for _, res := range got {
		seen[res.ID] = true
	}
	assert.Len(t, seen, 10)
}

func TestWorkerPool_FailFast(t *testing.T) {
	jobs := []Job{stubJob("A", true), stubJob("B", false), stubJob("C", true), stubJob("D", true)}
	results := make(chan domain.Result, len(jobs))

	_, err := newPool(t, 1, nil).ExecuteWithOptions(context.Background(), jobs, true, results)
	require.NoError(t, err)

	got := collect(results)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[1].ID)
}

func TestWorkerPool_OpenFailure(t *testing.T) {
	open := func(context.Context, int) (Surface, func(), error) {
		return nil, nil, errors.New("browser exited")
	}
	results := make(chan domain.Result, 1)

	_, err := newPool(t, 1, open).Execute(context.Background(), []Job{stubJob("A", true)}, results)
	assert.ErrorContains(t, err, "browser exited")
	assert.Empty(t, collect(results))
}

func TestWorkerPool_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := make(chan domain.Result)

	_, err := newPool(t, 2, nil).Execute(ctx, []Job{stubJob("A", true), stubJob("B", true)}, results)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, collect(results))
}

func TestWorkerPool_InterruptedJobIsDelivered(t *testing.T) {
	pool := newPool(t, 1, nil)

	for i := 0; i < 50; i++ {
		started := make(chan struct{})
		inFlight := Job{
			ID:    "A",
			Title: "A: blocks until interrupted",
			run: func(ctx context.Context, _ *Runner, _ Surface) domain.Result {
				close(started)
				<-ctx.Done()
				return domain.Result{ID: "A", Status: domain.StatusFail, Err: ctx.Err()}
			},
		}

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			<-started
			cancel()
		}()

		results := make(chan domain.Result)
		var got []domain.Result
		done := make(chan struct{})
		go func() {
			got = collect(results)
			close(done)
		}()

		_, err := pool.Execute(ctx, []Job{inFlight, stubJob("B", true)}, results)
		<-done
		cancel()

		assert.ErrorIs(t, err, context.Canceled)
		require.Len(t, got, 1, "iteration %d", i)
		assert.Equal(t, "A", got[0].ID)
	}
}

func TestWorkerPool_ConsumerStopped(t *testing.T) {
	pool := newPool(t, 1, nil)
	stopped := make(chan struct{})
	close(stopped)
	pool.SetConsumerStopped(stopped)

	results := make(chan domain.Result)
	_, err := pool.Execute(context.Background(), []Job{stubJob("A", true), stubJob("B", true)}, results)

	assert.NoError(t, err)
	assert.Empty(t, collect(results))
}

func TestWorkerPool_NoJobs(t *testing.T) {
	results := make(chan domain.Result)
	d, err := newPool(t, 4, nil).Execute(context.Background(), nil, results)
	assert.NoError(t, err)
	assert.Zero(t, d)
	_, ok := <-results
	assert.False(t, ok)
}

func TestWorkerPool_RealCases(t *testing.T) {
	cases := []domain.TestCase{
		{ID: "Pos_Fun_0001", Input: "mama gedhara yanavaa", Expected: "මම ගෙදර යනවා"},
		{ID: "Neg_Fun_0001", Input: "mata", Expected: "මාට"},
	}
	jobs := Jobs(cases, Scenarios())
	results := make(chan domain.Result, len(jobs))

	_, err := newPool(t, 1, nil).Execute(context.Background(), jobs, results)
	require.NoError(t, err)

	got := collect(results)
	require.Len(t, got, 5)
	assert.Equal(t, domain.StatusPass, got[0].Status)
	assert.Equal(t, domain.StatusFail, got[1].Status)
	assert.Equal(t, "මට", got[1].ActualOutput)
	for _, res := range got[2:] {
		assert.Equal(t, domain.StatusPass, res.Status, res.Name)
	}
}

func TestJobs(t *testing.T) {
	cases := []domain.TestCase{{ID: "Pos_Fun_0001", Scenario: "Greeting", Input: "x"}}
	jobs := Jobs(cases, Scenarios())

	require.Len(t, jobs, 4)
	assert.Equal(t, "Pos_Fun_0001", jobs[0].ID)
	assert.Equal(t, "Pos_Fun_0001: Greeting", jobs[0].Title)
	assert.Equal(t, "Pos_UI_01", jobs[1].ID)
	assert.Equal(t, "Neg_UI_0001", jobs[3].ID)
}

func TestRoundRobinScheduler(t *testing.T) {
	var jobs []Job
	for i := 0; i < 7; i++ {
		jobs = append(jobs, stubJob(fmt.Sprint(i), true))
	}

	tests := []struct {
		name    string
		workers int
		sizes   []int
	}{
		{"single", 1, []int{7}},
		{"three", 3, []int{3, 2, 2}},
		{"more workers than jobs", 9, []int{1, 1, 1, 1, 1, 1, 1, 0, 0}},
		{"zero treated as one", 0, []int{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lanes := NewRoundRobinScheduler().Schedule(jobs, tt.workers)
			require.Len(t, lanes, len(tt.sizes))
			for i, size := range tt.sizes {
				assert.Len(t, lanes[i], size)
			}
		})
	}

	lanes := NewRoundRobinScheduler().Schedule(jobs, 3)
	assert.Equal(t, "0", lanes[0][0].ID)
	assert.Equal(t, "3", lanes[0][1].ID)
	assert.Equal(t, "6", lanes[0][2].ID)
}
