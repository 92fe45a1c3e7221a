package entities

// Role - структурная роль пользователя в документообороте.
// У пользователя не бывает больше одной роли одновременно.
type Role string

const (
	RoleSecretary            Role = "SECRETARY"
	RoleJudge                Role = "JUDGE"
	RoleManagement           Role = "MANAGEMENT"
	RoleManagementDepartment Role = "MANAGEMENT_DEPARTMENT"
	RoleExecutor             Role = "EXECUTOR"
	RoleExecutorOrganization Role = "EXECUTOR_ORGANIZATION"
)

var RoleLabels = map[Role]string{
	RoleSecretary:            "Секретарь",
	RoleJudge:                "Судья",
	RoleManagement:           "Управление",
	RoleManagementDepartment: "Отдел управления",
	RoleExecutor:             "Исполнитель",
	RoleExecutorOrganization: "Организация-исполнитель",
}

func (r Role) Label() string { return RoleLabels[r] }

// Actor - кто действует: пользователь, его роль и id профиля роли.
// Собирается middleware-ом один раз на запрос; сервисы ветвятся по Role
// через switch, а не через опрос полей.
type Actor struct {
	UserID    uint64
	Role      Role
	ProfileID uint64
}

func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// Профили ролей. Каждый профиль знает только свою привязку.

type Secretary struct {
	ID           uint64
	UserID       uint64
	JudgeID      uint64
	DepartmentID uint64
}

type Judge struct {
	ID           uint64
	UserID       uint64
	DepartmentID uint64
}

type Management struct {
	ID     uint64
	UserID uint64
}

type ManagementDepartment struct {
	ID           uint64
	UserID       uint64
	ManagementID uint64
}

type Executor struct {
	ID                     uint64
	UserID                 uint64
	ManagementDepartmentID uint64
}

type ExecutorOrganization struct {
	ID     uint64
	UserID uint64
	Name   string
}
