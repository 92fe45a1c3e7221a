package workflow

import (
	"time"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
)

// ActualStatusOverdue - вычисляемая пометка для выдачи, в БД не хранится.
const ActualStatusOverdue = "OVERDUE"

// IsOverdue вычисляет накладываемый "фактический статус" заявки:
// просрочена ли она по срокам позиций. Смысл имеет только для ролей
// исполнительной ветки и только пока заявка не закрыта. Хранимый статус
// не изменяется никогда - это оверлей на чтение.
func IsOverdue(role entities.Role, status entities.RequestStatus, items []entities.RequestItem, now time.Time) bool {
	if !overdueApplies(role, status) {
		return false
	}

	for _, it := range items {
		for _, d := range []*time.Time{it.DeadlineExecutor, it.DeadlineOrganization, it.DeadlinePlanning} {
			if d != nil && d.Before(now) {
				return true
			}
		}
	}
	return false
}

// IsOverdueByDeadline - вариант для списка, где ближайший срок по
// позициям уже свернут в одно значение на стороне БД.
func IsOverdueByDeadline(role entities.Role, status entities.RequestStatus, deadline *time.Time, now time.Time) bool {
	if !overdueApplies(role, status) {
		return false
	}
	return deadline != nil && deadline.Before(now)
}

func overdueApplies(role entities.Role, status entities.RequestStatus) bool {
	switch role {
	case entities.RoleManagement,
		entities.RoleManagementDepartment,
		entities.RoleExecutor,
		entities.RoleExecutorOrganization:
	default:
		return false
	}
	return status != entities.StatusFinished && status != entities.StatusCancelled
}
