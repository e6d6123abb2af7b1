/*
scheduler.go - Automated pay period close

PURPOSE:
  Periodically computes the most recently ended pay period of every
  employee and stores its snapshot, so payroll finds closed periods already
  computed.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - The closed period is the one before the period containing today
  - Skips periods that already have a snapshot
  - Periods with rule violations are logged and retried on the next check,
    after the entries have been corrected

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewPeriodCloseScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ComputePeriod endpoint (manual computation)
  - timesheet/service.go: ComputePeriod
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/logging"
	"github.com/warp/timesheet-engine/timesheet"
)

// PeriodCloseScheduler computes ended pay periods in the background.
type PeriodCloseScheduler struct {
	Service       *timesheet.Service
	Store         timesheet.Store
	Logger        logging.Logger
	CheckInterval time.Duration
	Enabled       bool

	// Now is overridable in tests.
	Now func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// CloseSummary counts the outcome of one check.
type CloseSummary struct {
	Processed int
	Skipped   int // already computed
	Failed    int
}

// NewPeriodCloseScheduler creates a scheduler sharing the handler's service.
func NewPeriodCloseScheduler(h *Handler) *PeriodCloseScheduler {
	return &PeriodCloseScheduler{
		Service:       h.Service,
		Store:         h.Store,
		Logger:        h.Logger,
		CheckInterval: time.Hour,
		Enabled:       true,
		Now:           time.Now,
	}
}

// Start begins the scheduler.
func (ps *PeriodCloseScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ctx := context.Background()
	if !ps.Enabled || ps.CheckInterval <= 0 {
		ps.Logger.Info(ctx, "period close scheduler disabled")
		return
	}
	if ps.ticker != nil {
		return
	}

	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.stop = make(chan struct{})
	ps.wg.Add(1)
	go ps.run(ps.ticker, ps.stop)

	ps.Logger.Info(ctx, "period close scheduler started", "interval", ps.CheckInterval.String())
}

// Stop stops the scheduler and waits for a running check to finish.
func (ps *PeriodCloseScheduler) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker == nil {
		return
	}
	ps.ticker.Stop()
	close(ps.stop)
	ps.wg.Wait()
	ps.ticker = nil
	ps.Logger.Info(context.Background(), "period close scheduler stopped")
}

func (ps *PeriodCloseScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer ps.wg.Done()

	// Run immediately on start
	ps.RunNow(context.Background())

	for {
		select {
		case <-ticker.C:
			ps.RunNow(context.Background())
		case <-stop:
			return
		}
	}
}

// RunNow closes every employee's most recently ended pay period.
func (ps *PeriodCloseScheduler) RunNow(ctx context.Context) CloseSummary {
	var summary CloseSummary
	today := generic.FromTime(ps.Now())

	employees, err := ps.Store.ListEmployees(ctx)
	if err != nil {
		ps.Logger.Error(ctx, "period close: listing employees failed", "error", err)
		return summary
	}

	for _, emp := range employees {
		log := ps.Logger.With("employee_id", emp.ID)

		current, err := ps.Service.CurrentPeriod(ctx, emp.ID, today)
		if err != nil {
			log.Error(ctx, "period close: resolving pay period failed", "error", err)
			summary.Failed++
			continue
		}
		closed := current.PreviousPeriod()

		done, err := ps.alreadyComputed(ctx, emp.ID, closed)
		if err != nil {
			log.Error(ctx, "period close: listing snapshots failed", "error", err)
			summary.Failed++
			continue
		}
		if done {
			summary.Skipped++
			continue
		}

		if _, err := ps.Service.ComputePeriod(ctx, emp.ID, "", closed.Start); err != nil {
			if timesheet.IsClientError(err) {
				log.Warn(ctx, "period close: entries need correction",
					"period_start", closed.Start.String(), "code", timesheet.ErrorCode(err))
			} else {
				log.Error(ctx, "period close failed", "period_start", closed.Start.String(), "error", err)
			}
			summary.Failed++
			continue
		}
		summary.Processed++
	}

	if summary != (CloseSummary{}) {
		ps.Logger.Info(ctx, "period close completed",
			"processed", summary.Processed, "skipped", summary.Skipped, "failed", summary.Failed)
	}
	return summary
}

func (ps *PeriodCloseScheduler) alreadyComputed(ctx context.Context, employeeID generic.EmployeeID, period generic.Period) (bool, error) {
	snaps, err := ps.Store.ListSnapshots(ctx, employeeID)
	if err != nil {
		return false, err
	}
	for _, s := range snaps {
		if s.Period.Start.Equal(period.Start) {
			return true, nil
		}
	}
	return false, nil
}
