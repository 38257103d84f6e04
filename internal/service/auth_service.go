package service

import (
	"context"
	"time"

	"github.com/campushq/campus_admin/internal/dao"
	"github.com/campushq/campus_admin/internal/domain/models"
	"github.com/campushq/campus_admin/internal/domain/vo"
	"github.com/campushq/campus_admin/pkg/jwtauth"
	"github.com/campushq/campus_admin/pkg/logger"
	"github.com/campushq/campus_admin/pkg/repository"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AuthService 认证服务 - 负责员工登录和令牌管理
type AuthService struct {
	staffRepo repository.Repository[models.Staff]
}

// NewAuthService 创建认证服务实例
func NewAuthService() *AuthService {
	return &AuthService{
		staffRepo: dao.StaffRepo,
	}
}

// Login 员工登录。令牌身份位使用员工编号，后续授权查询都以它为键
func (s *AuthService) Login(ctx context.Context, username, password string) (*vo.TokenResponse, error) {
	query := models.Staff{Username: username}
	staff, err := s.staffRepo.Find(ctx, &query)
	if err != nil {
		logger.Error(ctx, "Login failed", zap.Error(err), zap.String("username", username))
		return nil, errors.New("invalid credentials")
	}

	// 校验密码
	if !staff.Verify(password) {
		logger.Warn(ctx, "Invalid password", zap.String("username", username))
		return nil, errors.New("invalid credentials")
	}

	if !staff.IsActive() {
		logger.Warn(ctx, "Disabled account attempted login", zap.String("username", username))
		return nil, errors.New("account disabled")
	}

	tokenInfo, err := jwtauth.Instance.GenerateToken(
		staff.StaffNo,
		staff.Username,
		staff.Role,
	)
	if err != nil {
		logger.Error(ctx, "Failed to generate token", zap.Error(err), zap.String("staff_no", staff.StaffNo))
		return nil, errors.Wrap(err, "failed to generate token")
	}

	staff.LastLoginTime = time.Now()
	if err := s.staffRepo.Update(ctx, staff); err != nil {
		logger.Warn(ctx, "Failed to record login time", zap.Error(err), zap.String("staff_no", staff.StaffNo))
	}

	logger.Info(ctx, "Login successful", zap.String("username", staff.Username))
	return &vo.TokenResponse{
		AccessToken:  tokenInfo.AccessToken,
		RefreshToken: tokenInfo.RefreshToken,
		ExpiresAt:    tokenInfo.ExpiresAt,
	}, nil
}

// RefreshToken 刷新令牌；重新读取账号以携带最新角色
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*vo.TokenResponse, error) {
	if refreshToken == "" {
		return nil, errors.New("refresh token is required")
	}

	claims, err := jwtauth.Instance.ParseToken(refreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "invalid refresh token")
	}

	role := claims.RoleKey
	query := models.Staff{StaffNo: claims.Identity}
	if staff, err := s.staffRepo.Find(ctx, &query); err != nil {
		logger.Warn(ctx, "Failed to reload staff for token refresh",
			zap.Error(err), zap.String("staff_no", claims.Identity))
	} else {
		if !staff.IsActive() {
			return nil, errors.New("account disabled")
		}
		role = staff.Role
	}

	newToken, err := jwtauth.Instance.GenerateToken(
		claims.Identity,
		claims.Nice,
		role,
	)
	if err != nil {
		return nil, errors.Wrap(err, "could not generate new token")
	}

	return &vo.TokenResponse{
		AccessToken:  newToken.AccessToken,
		RefreshToken: newToken.RefreshToken,
		ExpiresAt:    newToken.ExpiresAt,
	}, nil
}
