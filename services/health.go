package services

import (
	"context"
	"sync"
	"time"

	"docqa-service/internal/logger"
	"docqa-service/utils"

	"github.com/go-co-op/gocron"
)

const storeHealthTag = "store-health"

// Pinger is anything the monitor can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the result of the last probe.
type HealthStatus struct {
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// HealthMonitor pings the store on a fixed interval and keeps the latest result for /ready.
type HealthMonitor struct {
	scheduler *gocron.Scheduler
	target    Pinger
	interval  time.Duration
	timeout   time.Duration

	mu     sync.RWMutex
	status HealthStatus
}

func NewHealthMonitor(target Pinger, interval time.Duration) *HealthMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()
	s.SingletonModeAll()

	return &HealthMonitor{
		scheduler: s,
		target:    target,
		interval:  interval,
		timeout:   5 * time.Second,
	}
}

// Start runs the first check immediately and then every interval.
func (m *HealthMonitor) Start() error {
	if _, err := m.scheduler.Every(m.interval).Tag(storeHealthTag).Do(m.Check); err != nil {
		return err
	}
	m.scheduler.StartAsync()
	logger.Info("Health monitor started", "interval", m.interval.String())
	return nil
}

func (m *HealthMonitor) Stop() {
	m.scheduler.Stop()
}

// Check probes the target once and stores the result.
func (m *HealthMonitor) Check() {
	ctx, cancel := utils.WithCustomTimeout(context.Background(), m.timeout)
	defer cancel()

	status := HealthStatus{Healthy: true, CheckedAt: time.Now().UTC()}
	if err := m.target.Ping(ctx); err != nil {
		status.Healthy = false
		status.Error = err.Error()
		logger.Warn("Store health check failed", "error", err)
	}

	m.mu.Lock()
	prev := m.status
	m.status = status
	m.mu.Unlock()

	if status.Healthy && !prev.Healthy && !prev.CheckedAt.IsZero() {
		logger.Info("Store health recovered")
	}
}

// Status returns the last result. Before the first check it reports unhealthy.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
