package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campus_admin/internal/dao"
	"github.com/campushq/campus_admin/internal/domain/models"
	"github.com/campushq/campus_admin/internal/domain/params"
	"github.com/campushq/campus_admin/pkg/repository"
)

func newTestActivityService(t *testing.T) *ActivityService {
	t.Helper()
	dao.InitRepoWithProcessor(repository.NewMemoryProcessor())
	return NewActivityService()
}

func TestRecordBackfillsStaffName(t *testing.T) {
	svc := newTestActivityService(t)
	ctx := context.Background()

	staff := models.Staff{StaffNo: "ST-1001", Username: "zhao", Name: "Zhao Min", Role: models.StaffRoleStaff, Status: models.StaffStatusActive}
	require.NoError(t, dao.StaffRepo.Create(ctx, &staff))

	entry := models.ActivityLog{StaffID: "ST-1001", Action: "login"}
	require.NoError(t, svc.Record(ctx, &entry))
	assert.Equal(t, "Zhao Min", entry.StaffName)

	err := svc.Record(ctx, &models.ActivityLog{StaffID: "ST-1001"})
	assert.Error(t, err, "action is required")
}

func TestGetActivityListFilters(t *testing.T) {
	svc := newTestActivityService(t)
	ctx := context.Background()

	for _, action := range []string{"login", "permission_update", "permission_update"} {
		require.NoError(t, svc.Record(ctx, &models.ActivityLog{
			StaffID: "ST-1002", StaffName: "Li Lei", Action: action,
		}))
	}

	list, total, err := svc.GetActivityList(ctx, &params.GetActivityListRequest{
		Page:   params.Page{Limit: 10},
		Action: "permission_update",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	_, total, err = svc.GetActivityList(ctx, &params.GetActivityListRequest{
		Page:    params.Page{Limit: 10},
		StaffID: "ST-9999",
	})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPurgeBefore(t *testing.T) {
	svc := newTestActivityService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(ctx, &models.ActivityLog{StaffID: "ST-1003", Action: "login"}))
	}

	remaining, err := svc.PurgeBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), remaining, "nothing older than cutoff")

	remaining, err = svc.PurgeBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, remaining)
}
