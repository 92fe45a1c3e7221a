package workflow

import (
	"testing"
	"time"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	"github.com/stretchr/testify/assert"
)

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	overdueItems := []entities.RequestItem{{DeadlineExecutor: &past}}

	t.Run("просрочку видит только исполнительная ветка", func(t *testing.T) {
		executive := []entities.Role{
			entities.RoleManagement,
			entities.RoleManagementDepartment,
			entities.RoleExecutor,
			entities.RoleExecutorOrganization,
		}
		for _, role := range executive {
			assert.True(t, IsOverdue(role, entities.StatusInProgress, overdueItems, now), "роль %s", role)
		}

		assert.False(t, IsOverdue(entities.RoleSecretary, entities.StatusInProgress, overdueItems, now))
		assert.False(t, IsOverdue(entities.RoleJudge, entities.StatusInProgress, overdueItems, now))
	})

	t.Run("закрытая заявка не бывает просроченной", func(t *testing.T) {
		assert.False(t, IsOverdue(entities.RoleExecutor, entities.StatusFinished, overdueItems, now))
		assert.False(t, IsOverdue(entities.RoleExecutor, entities.StatusCancelled, overdueItems, now))
	})

	t.Run("срок в будущем не дает просрочки", func(t *testing.T) {
		items := []entities.RequestItem{{DeadlineExecutor: &future, DeadlinePlanning: &future}}
		assert.False(t, IsOverdue(entities.RoleExecutor, entities.StatusInProgress, items, now))
	})

	t.Run("любой из трех сроков дает просрочку", func(t *testing.T) {
		assert.True(t, IsOverdue(entities.RoleExecutor, entities.StatusInProgress,
			[]entities.RequestItem{{DeadlineOrganization: &past}}, now))
		assert.True(t, IsOverdue(entities.RoleExecutor, entities.StatusInProgress,
			[]entities.RequestItem{{DeadlinePlanning: &past}}, now))
	})

	t.Run("без сроков просрочки нет", func(t *testing.T) {
		items := []entities.RequestItem{{}, {}}
		assert.False(t, IsOverdue(entities.RoleExecutor, entities.StatusInProgress, items, now))
	})
}

// Вариант по свернутому сроку эквивалентен проверке по позициям.
func TestIsOverdueByDeadline(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, IsOverdueByDeadline(entities.RoleExecutor, entities.StatusInProgress, &past, now))
	assert.False(t, IsOverdueByDeadline(entities.RoleExecutor, entities.StatusInProgress, &future, now))
	assert.False(t, IsOverdueByDeadline(entities.RoleExecutor, entities.StatusInProgress, nil, now))

	assert.False(t, IsOverdueByDeadline(entities.RoleSecretary, entities.StatusInProgress, &past, now))
	assert.False(t, IsOverdueByDeadline(entities.RoleJudge, entities.StatusInProgress, &past, now))
	assert.False(t, IsOverdueByDeadline(entities.RoleExecutor, entities.StatusFinished, &past, now))
	assert.False(t, IsOverdueByDeadline(entities.RoleExecutor, entities.StatusCancelled, &past, now))
}
