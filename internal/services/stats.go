package services

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kubev2v/datatables/internal/config"
	"github.com/kubev2v/datatables/internal/models"
	srvErrors "github.com/kubev2v/datatables/pkg/errors"
	"github.com/kubev2v/datatables/pkg/scheduler"
)

// RowCounter counts the rows of a table.
type RowCounter interface {
	TableExists(ctx context.Context, table string) (bool, error)
	RowCount(ctx context.Context, table string) (int, error)
}

// StatsService periodically counts the rows of the grid base tables on a
// worker pool and exposes them as the datatables_table_rows gauge.
type StatsService struct {
	counter  RowCounter
	tables   []string
	interval time.Duration
	sched    *scheduler.Scheduler[models.TableStats]
	rows     *prometheus.GaugeVec
	logger   *zap.SugaredLogger

	mu    sync.RWMutex
	stats map[string]models.TableStats

	stopOnce sync.Once
	cancel   context.CancelFunc
	done     chan any
}

func NewStatsService(cfg config.Stats, counter RowCounter, tables []string, reg prometheus.Registerer) *StatsService {
	return &StatsService{
		counter:  counter,
		tables:   tables,
		interval: cfg.Interval,
		sched:    scheduler.NewScheduler[models.TableStats](cfg.Workers),
		rows:     newRowsGauge(reg),
		logger:   zap.S().Named("stats_service"),
		stats:    make(map[string]models.TableStats),
	}
}

// Start refreshes once and then every interval until Stop. A zero interval
// refreshes only once.
func (s *StatsService) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan any)

	go func() {
		defer close(s.done)

		s.Refresh(ctx)
		if s.interval <= 0 {
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Refresh(ctx)
			}
		}
	}()
}

// Refresh counts every table concurrently and waits for all of them.
func (s *StatsService) Refresh(ctx context.Context) {
	futures := make([]*scheduler.Future[models.TableStats], 0, len(s.tables))
	for _, table := range s.tables {
		futures = append(futures, s.sched.AddWork(s.countWork(table)))
	}

	for i, f := range futures {
		st, err := f.Wait(ctx)
		if err != nil {
			f.Stop()
			st = models.TableStats{Name: s.tables[i], Error: err.Error(), UpdatedAt: time.Now()}
			s.logger.Warnw("failed to count table rows", "table", s.tables[i], "error", err)
		} else {
			s.rows.WithLabelValues(st.Name).Set(float64(st.Rows))
		}
		s.set(st)
	}
}

func (s *StatsService) countWork(table string) scheduler.Work[models.TableStats] {
	return func(ctx context.Context) (models.TableStats, error) {
		exists, err := s.counter.TableExists(ctx, table)
		if err != nil {
			return models.TableStats{}, err
		}
		if !exists {
			return models.TableStats{}, srvErrors.NewTableNotFoundError(table)
		}

		count, err := s.counter.RowCount(ctx, table)
		if err != nil {
			return models.TableStats{}, err
		}
		return models.TableStats{Name: table, Rows: count, UpdatedAt: time.Now()}, nil
	}
}

func (s *StatsService) set(st models.TableStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[st.Name] = st
}

// Stats returns the last known stats in table order. Tables not counted yet
// are omitted.
func (s *StatsService) Stats() []models.TableStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TableStats, 0, len(s.tables))
	for _, t := range s.tables {
		if st, found := s.stats[t]; found {
			out = append(out, st)
		}
	}
	return out
}

// Stop ends the refresh loop and closes the worker pool.
func (s *StatsService) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
			<-s.done
		}
		s.sched.Close()
	})
}
