package service

import (
	"context"
	"time"

	"github.com/campushq/campus_admin/internal/dao"
	"github.com/campushq/campus_admin/internal/domain/models"
	"github.com/campushq/campus_admin/internal/domain/params"
	"github.com/campushq/campus_admin/internal/domain/vo"
	"github.com/campushq/campus_admin/pkg/logger"
	"github.com/campushq/campus_admin/pkg/repository"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ActivityService 审计日志服务
type ActivityService struct {
	activityRepo repository.Repository[models.ActivityLog]
	staffRepo    repository.Repository[models.Staff]
}

// NewActivityService 创建审计日志服务实例
func NewActivityService() *ActivityService {
	return &ActivityService{
		activityRepo: dao.ActivityLogRepo,
		staffRepo:    dao.StaffRepo,
	}
}

// Record 写入一条审计日志，操作人姓名按员工编号补全
func (s *ActivityService) Record(ctx context.Context, entry *models.ActivityLog) error {
	if entry.Action == "" {
		return errors.New("action is required")
	}
	if entry.StaffName == "" && entry.StaffID != "" {
		query := models.Staff{StaffNo: entry.StaffID}
		if staff, err := s.staffRepo.Find(ctx, &query); err == nil {
			entry.StaffName = staff.Name
		}
	}

	if err := s.activityRepo.Create(ctx, entry); err != nil {
		return errors.Wrap(err, "failed to record activity")
	}
	return nil
}

// RecordRequest 由接口请求写入审计日志
func (s *ActivityService) RecordRequest(ctx context.Context, staffID string, req *params.CreateActivityRequest) (*vo.ActivityLog, error) {
	entry := models.ActivityLog{StaffID: staffID}
	if err := copier.Copy(&entry, req); err != nil {
		return nil, errors.Wrap(err, "failed to copy request to activity")
	}

	if err := s.Record(ctx, &entry); err != nil {
		logger.Error(ctx, "Failed to record activity", zap.Error(err), zap.String("action", req.Action))
		return nil, err
	}

	var result vo.ActivityLog
	if err := copier.Copy(&result, &entry); err != nil {
		return nil, errors.Wrap(err, "failed to copy activity to result")
	}
	return &result, nil
}

// GetActivityList 按条件分页查询审计日志，最新的排在最前
func (s *ActivityService) GetActivityList(ctx context.Context, req *params.GetActivityListRequest) ([]vo.ActivityLog, int64, error) {
	qb := s.activityRepo.QueryBuilder()
	if req.StaffID != "" {
		qb = qb.Eq("staff_id", req.StaffID)
	}
	if req.Action != "" {
		qb = qb.Eq("action", req.Action)
	}
	if req.TargetType != "" {
		qb = qb.Eq("target_type", req.TargetType)
	}

	total, err := qb.Count(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to count activities", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to count activities")
	}

	entries, err := qb.OrderBy("create_time desc").
		Limit(req.Limit).
		Offset(req.Offset).
		Find(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve activities", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve activities")
	}

	var result []vo.ActivityLog
	if err := copier.Copy(&result, &entries); err != nil {
		return nil, 0, errors.Wrap(err, "failed to copy activities to result")
	}
	return result, total, nil
}

// PurgeBefore 删除指定时刻之前的审计日志，返回剩余条数
func (s *ActivityService) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := s.activityRepo.QueryBuilder().
		Lt("create_time", cutoff).
		Delete(ctx); err != nil {
		return 0, errors.Wrap(err, "failed to purge activities")
	}
	return s.activityRepo.QueryBuilder().Count(ctx)
}
