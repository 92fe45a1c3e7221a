package authz

import (
	"testing"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	"github.com/stretchr/testify/assert"
)

var allRoles = []entities.Role{
	entities.RoleSecretary,
	entities.RoleJudge,
	entities.RoleManagement,
	entities.RoleManagementDepartment,
	entities.RoleExecutor,
	entities.RoleExecutorOrganization,
}

var allStatuses = []entities.RequestStatus{
	entities.StatusRegistered,
	entities.StatusConfirmed,
	entities.StatusInProgress,
	entities.StatusPartiallyFulfilled,
	entities.StatusPlanned,
	entities.StatusCompleted,
	entities.StatusEndingCompleted,
	entities.StatusFinished,
	entities.StatusCancelled,
}

func TestBucket(t *testing.T) {
	assert.Equal(t, BucketRegistered, Bucket(entities.StatusRegistered))
	assert.Equal(t, BucketActive, Bucket(entities.StatusConfirmed))
	assert.Equal(t, BucketActive, Bucket(entities.StatusInProgress))
	assert.Equal(t, BucketActive, Bucket(entities.StatusPartiallyFulfilled))
	assert.Equal(t, BucketActive, Bucket(entities.StatusPlanned))
	assert.Equal(t, BucketCompleted, Bucket(entities.StatusCompleted))
	assert.Equal(t, BucketEndingCompleted, Bucket(entities.StatusEndingCompleted))
	assert.Equal(t, BucketTerminal, Bucket(entities.StatusFinished))
	assert.Equal(t, BucketTerminal, Bucket(entities.StatusCancelled))
}

// Редактирование возможно только до утверждения и только владельцами.
func TestCalculate_EditOnlyWhileRegistered(t *testing.T) {
	for _, status := range allStatuses {
		for _, role := range allRoles {
			r := Calculate(role, status)
			expected := status == entities.StatusRegistered &&
				(role == entities.RoleSecretary || role == entities.RoleJudge)
			assert.Equal(t, expected, r.Edit, "edit для %s в %s", role, status)
		}
	}
}

func TestCalculate_TerminalIsViewOnly(t *testing.T) {
	for _, status := range []entities.RequestStatus{entities.StatusFinished, entities.StatusCancelled} {
		for _, role := range allRoles {
			r := Calculate(role, status)
			assert.Equal(t, Rights{View: true}, r, "роль %s в %s", role, status)
		}
	}
}

func TestCalculate_RegisteredBranch(t *testing.T) {
	judge := Calculate(entities.RoleJudge, entities.StatusRegistered)
	assert.True(t, judge.Approve)
	assert.True(t, judge.RejectBefore)

	secretary := Calculate(entities.RoleSecretary, entities.StatusRegistered)
	assert.True(t, secretary.Edit)
	assert.False(t, secretary.Approve)

	// Исполнительная ветка зарегистрированную заявку не видит.
	for _, role := range []entities.Role{
		entities.RoleManagement,
		entities.RoleManagementDepartment,
		entities.RoleExecutor,
		entities.RoleExecutorOrganization,
	} {
		assert.Equal(t, Rights{}, Calculate(role, entities.StatusRegistered), "роль %s", role)
	}
}

func TestCalculate_ActiveBranch(t *testing.T) {
	mgmt := Calculate(entities.RoleManagement, entities.StatusInProgress)
	assert.True(t, mgmt.RejectAfter)
	assert.True(t, mgmt.RedirectManagementDepartment)
	assert.True(t, mgmt.RedirectExecutor)
	assert.True(t, mgmt.RedirectOrg)

	dept := Calculate(entities.RoleManagementDepartment, entities.StatusConfirmed)
	assert.True(t, dept.RedirectExecutor)
	assert.False(t, dept.RejectAfter)

	executor := Calculate(entities.RoleExecutor, entities.StatusPartiallyFulfilled)
	assert.True(t, executor.Planning)
	assert.True(t, executor.Ready)
	assert.True(t, executor.RedirectOrg)

	org := Calculate(entities.RoleExecutorOrganization, entities.StatusPlanned)
	assert.True(t, org.Ready)
	assert.False(t, org.Planning)

	// Секретарь и судья после утверждения только наблюдают.
	assert.Equal(t, Rights{View: true}, Calculate(entities.RoleSecretary, entities.StatusInProgress))
	assert.Equal(t, Rights{View: true}, Calculate(entities.RoleJudge, entities.StatusPlanned))
}

func TestCalculate_CompletionChain(t *testing.T) {
	dept := Calculate(entities.RoleManagementDepartment, entities.StatusCompleted)
	assert.True(t, dept.ConfirmManagementDepartment)
	assert.False(t, dept.ConfirmManagement)

	mgmt := Calculate(entities.RoleManagement, entities.StatusEndingCompleted)
	assert.True(t, mgmt.ConfirmManagement)
	assert.False(t, mgmt.ConfirmManagementDepartment)
	assert.False(t, mgmt.RejectAfter)

	// Исполнители выполненную заявку уже не трогают.
	executor := Calculate(entities.RoleExecutor, entities.StatusCompleted)
	assert.Equal(t, Rights{View: true}, executor)
}

func TestCalculate_UnknownRole(t *testing.T) {
	assert.Equal(t, Rights{}, Calculate(entities.Role("GUEST"), entities.StatusInProgress))
}
