package worker

import (
	"context"
	"sync"
	"time"

	"github.com/Hamzaidb/repo-saas/pkg/logger"
)

// Job は定期実行ジョブを定義します
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Manager はバックグラウンドワーカーを管理します
type Manager struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager は新しいWorker Managerを作成します
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register は定期実行ジョブを登録します
func (m *Manager) Register(job Job) {
	m.jobs = append(m.jobs, job)
}

// Start は全ジョブのワーカーを開始します
func (m *Manager) Start() {
	for _, job := range m.jobs {
		m.wg.Add(1)
		go m.runJob(job)
	}
	logger.Info(m.ctx, "worker manager started", "jobs", len(m.jobs))
}

// runJob は単一ジョブのワーカーループを実行します
// 初回は登録直後に実行します
func (m *Manager) runJob(job Job) {
	defer m.wg.Done()

	m.execute(job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			logger.Debug(m.ctx, "worker stopping", "job", job.Name)
			return
		case <-ticker.C:
			m.execute(job)
		}
	}
}

func (m *Manager) execute(job Job) {
	if err := job.Fn(m.ctx); err != nil && m.ctx.Err() == nil {
		logger.WithError(m.ctx, err).Error("worker job failed", "job", job.Name)
	}
}

// Shutdown はすべてのワーカーを停止し、終了を待ちます
func (m *Manager) Shutdown(timeout time.Duration) {
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info(context.Background(), "worker manager stopped gracefully")
	case <-time.After(timeout):
		logger.Warn(context.Background(), "worker manager shutdown timed out")
	}
}
