package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campus_admin/internal/dao"
	"github.com/campushq/campus_admin/internal/domain/models"
	"github.com/campushq/campus_admin/internal/domain/params"
	"github.com/campushq/campus_admin/pkg/repository"
)

func newTestStaffService(t *testing.T) (*StaffService, *GrantService) {
	t.Helper()
	dao.InitRepoWithProcessor(repository.NewMemoryProcessor())
	grant := NewGrantService(NewActivityService())
	return NewStaffService(grant), grant
}

func TestCreateStaff(t *testing.T) {
	svc, _ := newTestStaffService(t)
	ctx := context.Background()

	result, err := svc.CreateStaff(ctx, &params.CreateStaffRequest{
		StaffNo:  "ST-1001",
		Username: "wang",
		Password: "secret",
		Name:     "Wang Wei",
		Email:    "wang@example.edu",
		Role:     models.StaffRoleLecturer,
		HireDate: "2024-09-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "ST-1001", result.StaffNo)
	assert.Equal(t, "2024-09-01", result.HireDate)

	stored, err := svc.GetStaffByNo(ctx, "ST-1001")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", stored.Password, "password must be hashed")
	assert.True(t, stored.Verify("secret"))
}

func TestCreateStaffRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestStaffService(t)

	_, err := svc.CreateStaff(context.Background(), &params.CreateStaffRequest{
		StaffNo:  "ST-1002",
		Username: "chen",
		Password: "secret",
		Role:     "superuser",
	})
	assert.Error(t, err)
}

func TestGetStaffListIncludesGrants(t *testing.T) {
	svc, grant := newTestStaffService(t)
	ctx := context.Background()

	_, err := svc.CreateStaff(ctx, &params.CreateStaffRequest{
		StaffNo:  "ST-1003",
		Username: "liu",
		Password: "secret",
		Name:     "Liu Yang",
		Role:     models.StaffRoleStaff,
	})
	require.NoError(t, err)

	_, err = grant.SetPermission(ctx, &params.SetPermissionRequest{
		StaffID: "ST-1003",
		PageID:  "library",
		Action:  "view",
		Allowed: true,
	}, "ST-ADMIN")
	require.NoError(t, err)

	list, total, err := svc.GetStaffList(ctx, &params.GetStaffListRequest{
		Page:  params.Page{Limit: 10},
		Flags: params.INCLUDE_GRANTS,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	require.Len(t, list[0].Grants, 1)
	assert.Equal(t, "library", list[0].Grants[0].PageID)
}

func TestDeleteStaffCascadesGrants(t *testing.T) {
	svc, grant := newTestStaffService(t)
	ctx := context.Background()

	created, err := svc.CreateStaff(ctx, &params.CreateStaffRequest{
		StaffNo:  "ST-1004",
		Username: "sun",
		Password: "secret",
		Role:     models.StaffRoleAgent,
	})
	require.NoError(t, err)

	_, err = grant.GrantAllForPage(ctx, &params.GrantAllRequest{
		StaffID: "ST-1004",
		PageID:  "finance",
	}, "ST-ADMIN")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStaffBatch(ctx, []uint64{created.ID}))

	grants, err := grant.LoadGrantsFor(ctx, "ST-1004")
	require.NoError(t, err)
	assert.Empty(t, grants)
}
