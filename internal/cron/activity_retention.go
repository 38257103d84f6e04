package cron

import (
	"context"
	"time"

	"github.com/campushq/campus_admin/internal/service"
	"github.com/campushq/campus_admin/pkg/logger"
	"go.uber.org/zap"
)

// 审计日志默认保留天数
const activityRetentionDays = 180

// purgeExpiredActivities 清理超过保留期的审计日志
func purgeExpiredActivities() {
	ctx := context.Background()
	cutoff := time.Now().AddDate(0, 0, -activityRetentionDays)

	remaining, err := service.ActivityServiceInstance.PurgeBefore(ctx, cutoff)
	if err != nil {
		logger.Error(ctx, "purge expired activities failed", zap.Error(err))
		return
	}
	logger.Info(ctx, "purge expired activities done",
		zap.Time("cutoff", cutoff),
		zap.Int64("remaining", remaining))
}
