package worker

import (
	"context"
	"time"

	"github.com/Hamzaidb/repo-saas/pkg/logger"
)

// AuditRetentionJobConfig は監査ログ削除ジョブの設定です
type AuditRetentionJobConfig struct {
	// RetentionDays は監査ログの保持日数です
	RetentionDays int
	Interval      time.Duration
}

// NewAuditRetentionJob は保持期間を過ぎた監査ログを削除するジョブを作成します
func NewAuditRetentionJob(deleteFn func(ctx context.Context, before time.Time) (int64, error), cfg AuditRetentionJobConfig) Job {
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 90
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}

	return Job{
		Name:     "audit_retention",
		Interval: cfg.Interval,
		Fn: func(ctx context.Context) error {
			before := time.Now().AddDate(0, 0, -cfg.RetentionDays)
			count, err := deleteFn(ctx, before)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info(ctx, "audit log retention completed", "deleted", count)
			}
			return nil
		},
	}
}

// NewHealthCheckJob は依存サービスの疎通確認ジョブを作成します
func NewHealthCheckJob(name string, checkFn func(ctx context.Context) error) Job {
	return Job{
		Name:     "health_check:" + name,
		Interval: 5 * time.Minute,
		Fn: func(ctx context.Context) error {
			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return checkFn(checkCtx)
		},
	}
}
