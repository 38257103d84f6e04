package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/campushq/campus_admin/internal/authz"
	"github.com/campushq/campus_admin/internal/dao"
	"github.com/campushq/campus_admin/internal/domain/models"
	"github.com/campushq/campus_admin/internal/domain/params"
	"github.com/campushq/campus_admin/internal/domain/vo"
	"github.com/campushq/campus_admin/internal/pages"
	"github.com/campushq/campus_admin/pkg/logger"
	"github.com/campushq/campus_admin/pkg/repository"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// GrantService 页面授权管理服务。
// 授权记录以 (staff_id, page_id) 为逻辑主键，服务内保证每个组合至多一行。
type GrantService struct {
	grantRepo       repository.Repository[models.PagePermission]
	staffRepo       repository.Repository[models.Staff]
	activityService *ActivityService

	// 每员工的授权缓存，任何写操作后整体失效
	grantCache map[string][]models.PagePermission
	cacheMutex sync.RWMutex
}

// NewGrantService 创建页面授权服务实例
func NewGrantService(activityService *ActivityService) *GrantService {
	return &GrantService{
		grantRepo:       dao.GrantRepo,
		staffRepo:       dao.StaffRepo,
		activityService: activityService,
		grantCache:      make(map[string][]models.PagePermission),
	}
}

// LoadGrantsFor 返回某员工的全部授权记录。
// 员工没有任何授权时返回空切片而不是错误。
func (s *GrantService) LoadGrantsFor(ctx context.Context, staffID string) ([]*vo.PagePermission, error) {
	grants, err := s.loadGrantModels(ctx, staffID)
	if err != nil {
		return nil, err
	}

	var result []*vo.PagePermission
	if err := copier.Copy(&result, &grants); err != nil {
		return nil, errors.Wrap(err, "failed to copy grants to result")
	}
	if result == nil {
		result = []*vo.PagePermission{}
	}
	return result, nil
}

func (s *GrantService) loadGrantModels(ctx context.Context, staffID string) ([]models.PagePermission, error) {
	s.cacheMutex.RLock()
	cached, ok := s.grantCache[staffID]
	s.cacheMutex.RUnlock()
	if ok {
		return cached, nil
	}

	grants, err := s.grantRepo.QueryBuilder().
		Eq("staff_id", staffID).
		OrderBy("page_id").
		Find(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to load grants", zap.Error(err), zap.String("staff_id", staffID))
		return nil, errors.Wrap(err, "failed to load grants")
	}

	s.cacheMutex.Lock()
	s.grantCache[staffID] = grants
	s.cacheMutex.Unlock()
	return grants, nil
}

// CheckPermission 判定某员工对 (pageID, action) 是否有权限。
// 查不到记录、页面未注册、动作非法都判为拒绝；加载失败同样拒绝并返回错误。
func (s *GrantService) CheckPermission(ctx context.Context, staffID, pageID string, action authz.Action) (bool, error) {
	grants, err := s.loadGrantModels(ctx, staffID)
	if err != nil {
		return false, err
	}
	snapshot := lo.Map(grants, func(g models.PagePermission, _ int) authz.Grant {
		return authz.Grant{
			PageID:    g.PageID,
			CanView:   g.CanView,
			CanEdit:   g.CanEdit,
			CanDelete: g.CanDelete,
		}
	})
	return authz.Resolve(snapshot, pageID, action), nil
}

// SetPermission 设置单项授权开关。
// 不存在记录时创建，存在时只改 action 对应的字段，其余字段保持原值。
func (s *GrantService) SetPermission(ctx context.Context, req *params.SetPermissionRequest, grantedBy string) (*vo.PagePermission, error) {
	if grantedBy == "" {
		return nil, errors.New("granted_by is required")
	}
	if !pages.Exists(req.PageID) {
		return nil, errors.Errorf("unknown page: %q", req.PageID)
	}
	action, err := authz.ParseAction(req.Action)
	if err != nil {
		return nil, err
	}

	existing, err := s.findGrant(ctx, req.StaffID, req.PageID)
	if err != nil {
		return nil, err
	}

	next := models.PagePermission{
		StaffID:   req.StaffID,
		PageID:    req.PageID,
		GrantedBy: grantedBy,
	}
	if existing != nil {
		next.CanView = existing.CanView
		next.CanEdit = existing.CanEdit
		next.CanDelete = existing.CanDelete
	}
	switch action {
	case authz.ActionView:
		next.CanView = req.Allowed
	case authz.ActionEdit:
		next.CanEdit = req.Allowed
	case authz.ActionDelete:
		next.CanDelete = req.Allowed
	}

	if err := s.replaceGrant(ctx, existing, &next); err != nil {
		logger.Error(ctx, "Failed to set permission", zap.Error(err),
			zap.String("staff_id", req.StaffID), zap.String("page_id", req.PageID))
		return nil, errors.Wrap(err, "failed to set permission")
	}

	s.ClearStaffGrantCache(req.StaffID)
	s.recordAudit(ctx, grantedBy, models.AuditActionGrantUpdate, req.StaffID, req.PageID, map[string]any{
		"action":  action.String(),
		"allowed": req.Allowed,
	})

	var result vo.PagePermission
	if err := copier.Copy(&result, &next); err != nil {
		return nil, errors.Wrap(err, "failed to copy grant to result")
	}
	return &result, nil
}

// GrantAllForPage 整页放开：三个开关全部置为允许，已有记录被覆盖
func (s *GrantService) GrantAllForPage(ctx context.Context, req *params.GrantAllRequest, grantedBy string) (*vo.PagePermission, error) {
	if grantedBy == "" {
		return nil, errors.New("granted_by is required")
	}
	if !pages.Exists(req.PageID) {
		return nil, errors.Errorf("unknown page: %q", req.PageID)
	}

	existing, err := s.findGrant(ctx, req.StaffID, req.PageID)
	if err != nil {
		return nil, err
	}

	next := models.PagePermission{
		StaffID:   req.StaffID,
		PageID:    req.PageID,
		CanView:   true,
		CanEdit:   true,
		CanDelete: true,
		GrantedBy: grantedBy,
	}
	if err := s.replaceGrant(ctx, existing, &next); err != nil {
		logger.Error(ctx, "Failed to grant all", zap.Error(err),
			zap.String("staff_id", req.StaffID), zap.String("page_id", req.PageID))
		return nil, errors.Wrap(err, "failed to grant all")
	}

	s.ClearStaffGrantCache(req.StaffID)
	s.recordAudit(ctx, grantedBy, models.AuditActionGrantAll, req.StaffID, req.PageID, nil)

	var result vo.PagePermission
	if err := copier.Copy(&result, &next); err != nil {
		return nil, errors.Wrap(err, "failed to copy grant to result")
	}
	return &result, nil
}

// RevokeAllForPage 整页回收：物理删除授权记录，记录不存在时静默成功
func (s *GrantService) RevokeAllForPage(ctx context.Context, req *params.RevokeAllRequest, grantedBy string) error {
	if grantedBy == "" {
		return errors.New("granted_by is required")
	}

	existing, err := s.findGrant(ctx, req.StaffID, req.PageID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	if err := s.grantRepo.QueryBuilder().
		Eq("staff_id", req.StaffID).
		Eq("page_id", req.PageID).
		Delete(ctx); err != nil {
		logger.Error(ctx, "Failed to revoke grants", zap.Error(err),
			zap.String("staff_id", req.StaffID), zap.String("page_id", req.PageID))
		return errors.Wrap(err, "failed to revoke grants")
	}

	s.ClearStaffGrantCache(req.StaffID)
	s.recordAudit(ctx, grantedBy, models.AuditActionRevokeAll, req.StaffID, req.PageID, nil)
	return nil
}

// findGrant 查找 (staff_id, page_id) 的授权记录，不存在时返回 nil
func (s *GrantService) findGrant(ctx context.Context, staffID, pageID string) (*models.PagePermission, error) {
	grants, err := s.grantRepo.QueryBuilder().
		Eq("staff_id", staffID).
		Eq("page_id", pageID).
		Find(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query grant")
	}
	if len(grants) == 0 {
		return nil, nil
	}
	return &grants[0], nil
}

// replaceGrant 以删旧插新的方式落盘，保证布尔开关能从 true 降为 false
func (s *GrantService) replaceGrant(ctx context.Context, existing, next *models.PagePermission) error {
	_, err := s.grantRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if existing != nil {
			if err := s.grantRepo.DeleteByID(txCtx, existing.ID); err != nil {
				return nil, err
			}
		}
		return nil, s.grantRepo.Create(txCtx, next)
	})
	return err
}

// recordAudit 异步写审计日志。审计失败只记日志，不影响授权操作结果
func (s *GrantService) recordAudit(ctx context.Context, operator, action, targetStaffID, pageID string, changes map[string]any) {
	if s.activityService == nil {
		return
	}

	var changesJSON string
	if changes != nil {
		if data, err := json.Marshal(changes); err == nil {
			changesJSON = string(data)
		}
	}

	entry := &models.ActivityLog{
		StaffID:    operator,
		Action:     action,
		TargetType: models.AuditTargetStaffPage,
		TargetID:   fmt.Sprintf("%s:%s", targetStaffID, pageID),
		Changes:    changesJSON,
	}
	if page, ok := pages.Find(pageID); ok {
		entry.TargetName = page.Label
	}

	auditCtx := context.WithoutCancel(ctx)
	go func() {
		if err := s.activityService.Record(auditCtx, entry); err != nil {
			logger.Warn(auditCtx, "Failed to record audit entry", zap.Error(err),
				zap.String("action", action), zap.String("target_id", entry.TargetID))
		}
	}()
}

// ClearStaffGrantCache 清除单个员工的授权缓存
func (s *GrantService) ClearStaffGrantCache(staffID string) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	delete(s.grantCache, staffID)
}

// ClearAllGrantCache 清除全部授权缓存
func (s *GrantService) ClearAllGrantCache() {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	s.grantCache = make(map[string][]models.PagePermission)
}
