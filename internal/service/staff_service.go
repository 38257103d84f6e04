package service

import (
	"context"
	"time"

	"github.com/campushq/campus_admin/internal/dao"
	"github.com/campushq/campus_admin/internal/domain/models"
	"github.com/campushq/campus_admin/internal/domain/params"
	"github.com/campushq/campus_admin/internal/domain/types"
	"github.com/campushq/campus_admin/internal/domain/vo"
	"github.com/campushq/campus_admin/pkg/logger"
	"github.com/campushq/campus_admin/pkg/repository"
	"github.com/hashicorp/go-multierror"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// StaffService 员工账号管理服务
type StaffService struct {
	staffRepo    repository.Repository[models.Staff]
	grantService *GrantService
}

// NewStaffService 创建员工服务实例
func NewStaffService(grantService *GrantService) *StaffService {
	return &StaffService{
		staffRepo:    dao.StaffRepo,
		grantService: grantService,
	}
}

// CreateStaff 创建员工账号
func (s *StaffService) CreateStaff(ctx context.Context, req *params.CreateStaffRequest) (*vo.Staff, error) {
	if !isValidRole(req.Role) {
		return nil, errors.Errorf("unknown role: %q", req.Role)
	}

	staff := models.Staff{}
	if err := copier.Copy(&staff, req); err != nil {
		return nil, errors.Wrap(err, "failed to copy request to staff")
	}
	if req.HireDate != "" {
		hired, err := time.Parse(time.DateOnly, req.HireDate)
		if err != nil {
			return nil, errors.Wrap(err, "invalid hire_date")
		}
		staff.HireDate = types.FromTime(hired)
	}
	staff.EncryptPassword()

	if err := s.staffRepo.Create(ctx, &staff); err != nil {
		logger.Error(ctx, "Failed to create staff", zap.Error(err), zap.String("staff_no", req.StaffNo))
		return nil, errors.Wrap(err, "failed to create staff")
	}

	logger.Info(ctx, "Staff created", zap.String("staff_no", staff.StaffNo), zap.String("role", staff.Role))
	return s.toVO(&staff), nil
}

// UpdateStaff 更新员工账号
func (s *StaffService) UpdateStaff(ctx context.Context, req *params.UpdateStaffRequest) (*vo.Staff, error) {
	staff, err := s.staffRepo.FindByID(ctx, req.ID)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve staff", zap.Error(err), zap.Uint64("staff_id", req.ID))
		return nil, errors.Wrap(err, "failed to retrieve staff")
	}
	if req.Role != "" && !isValidRole(req.Role) {
		return nil, errors.Errorf("unknown role: %q", req.Role)
	}

	if err := copier.CopyWithOption(staff, req, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, errors.Wrap(err, "failed to copy request to staff")
	}
	if req.Password != "" {
		staff.Password = models.EncryptPassword(req.Password)
	}

	if err := s.staffRepo.Update(ctx, staff); err != nil {
		logger.Error(ctx, "Failed to update staff", zap.Error(err), zap.Uint64("staff_id", req.ID))
		return nil, errors.Wrap(err, "failed to update staff")
	}
	return s.toVO(staff), nil
}

// DeleteStaffBatch 批量删除员工账号，同时回收其全部页面授权
func (s *StaffService) DeleteStaffBatch(ctx context.Context, ids []uint64) error {
	var result *multierror.Error
	for _, id := range ids {
		if err := s.deleteStaff(ctx, id); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (s *StaffService) deleteStaff(ctx context.Context, id uint64) error {
	staff, err := s.staffRepo.FindByID(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "failed to retrieve staff %d", id)
	}

	if err := s.staffRepo.DeleteByID(ctx, id); err != nil {
		return errors.Wrapf(err, "failed to delete staff %d", id)
	}

	// 级联删除授权记录，避免同编号新账号继承旧授权
	if err := dao.GrantRepo.QueryBuilder().Eq("staff_id", staff.StaffNo).Delete(ctx); err != nil {
		logger.Error(ctx, "Failed to delete grants of removed staff",
			zap.Error(err), zap.String("staff_no", staff.StaffNo))
		return errors.Wrapf(err, "failed to delete grants of staff %s", staff.StaffNo)
	}
	if s.grantService != nil {
		s.grantService.ClearStaffGrantCache(staff.StaffNo)
	}
	return nil
}

// GetStaffByNo 按员工编号查找账号
func (s *StaffService) GetStaffByNo(ctx context.Context, staffNo string) (*models.Staff, error) {
	query := models.Staff{StaffNo: staffNo}
	staff, err := s.staffRepo.Find(ctx, &query)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to retrieve staff %s", staffNo)
	}
	return staff, nil
}

// GetStaffList 分页查询员工列表。
// 置位 INCLUDE_GRANTS 标志时附带每人的页面授权记录。
func (s *StaffService) GetStaffList(ctx context.Context, req *params.GetStaffListRequest) ([]*vo.Staff, int64, error) {
	flags := params.NewResponseFlags(req.Flags)
	if err := flags.Validate(params.ALL_STAFF_FLAGS); err != nil {
		return nil, 0, err
	}

	staffList, total, err := s.staffRepo.FindPage(ctx, req, req.Limit, req.Offset)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve staff list", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve staff list")
	}

	result := make([]*vo.Staff, 0, len(staffList))
	for i := range staffList {
		item := s.toVO(&staffList[i])
		if flags.Has(params.INCLUDE_GRANTS) && s.grantService != nil {
			grants, err := s.grantService.LoadGrantsFor(ctx, staffList[i].StaffNo)
			if err != nil {
				return nil, 0, err
			}
			item.Grants = grants
		}
		result = append(result, item)
	}
	return result, total, nil
}

func (s *StaffService) toVO(staff *models.Staff) *vo.Staff {
	result := &vo.Staff{}
	if err := copier.Copy(result, staff); err != nil {
		logger.Warn(context.Background(), "Failed to copy staff to vo", zap.Error(err))
	}
	result.HireDate = staff.HireDate.String()
	return result
}

func isValidRole(role string) bool {
	switch role {
	case models.StaffRoleAdmin, models.StaffRoleStaff, models.StaffRoleLecturer, models.StaffRoleAgent:
		return true
	}
	return false
}
