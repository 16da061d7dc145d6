package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/pkg/logger"
)

// DispatcherConfig は非同期タスクディスパッチャーの設定です
type DispatcherConfig struct {
	BufferSize  int
	Workers     int
	TaskTimeout time.Duration
}

// DefaultDispatcherConfig はデフォルト設定を返します
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		BufferSize:  256,
		Workers:     4,
		TaskTimeout: 30 * time.Second,
	}
}

type task struct {
	name string
	ctx  context.Context
	fn   func(ctx context.Context) error
}

// Dispatcher はリクエスト処理から切り離してタスクを実行します
type Dispatcher struct {
	config   DispatcherConfig
	tasks    chan task
	done     chan struct{}
	inflight sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// NewDispatcher は新しいDispatcherを作成し、ワーカーを開始します
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	def := DefaultDispatcherConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = def.TaskTimeout
	}

	d := &Dispatcher{
		config: cfg,
		tasks:  make(chan task, cfg.BufferSize),
		done:   make(chan struct{}),
	}

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.processLoop()
		}()
	}
	go func() {
		wg.Wait()
		close(d.done)
	}()

	return d
}

// Dispatch はタスクをキューに追加します（非ブロッキング）
// リクエストのキャンセルは引き継がず、コンテキストの値のみを引き継ぎます
func (d *Dispatcher) Dispatch(ctx context.Context, name string, fn func(ctx context.Context) error) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.Warn(ctx, "dispatcher stopped, dropping task", "task", name)
		return false
	}

	d.inflight.Add(1)
	select {
	case d.tasks <- task{name: name, ctx: context.WithoutCancel(ctx), fn: fn}:
		return true
	default:
		d.inflight.Done()
		logger.Warn(ctx, "dispatcher queue full, dropping task", "task", name)
		return false
	}
}

func (d *Dispatcher) processLoop() {
	for t := range d.tasks {
		d.run(t)
	}
}

func (d *Dispatcher) run(t task) {
	defer d.inflight.Done()

	ctx, cancel := context.WithTimeout(t.ctx, d.config.TaskTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "dispatched task panicked", "task", t.name, "panic", fmt.Sprint(r))
		}
	}()

	if err := t.fn(ctx); err != nil {
		logger.WithError(ctx, err).Error("dispatched task failed", "task", t.name)
	}
}

// Wait はキュー内と実行中のタスクがすべて完了するまで待ちます
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

// Shutdown は新規受付を停止し、残りのタスクを実行してから終了します
func (d *Dispatcher) Shutdown(timeout time.Duration) {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.tasks)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		logger.Info(context.Background(), "dispatcher stopped gracefully")
	case <-time.After(timeout):
		logger.Warn(context.Background(), "dispatcher shutdown timed out")
	}
}

var _ service.TaskDispatcher = (*Dispatcher)(nil)
