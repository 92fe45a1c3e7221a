package authz

import "github.com/asamarka-625/ApplicationSystem/internal/entities"

// Rights - набор действий, доступных роли при данном статусе заявки.
// Считается заново при каждом чтении и перед каждой мутацией; побочных
// эффектов нет, хранилище не нужно.
type Rights struct {
	View                         bool `json:"view"`
	Edit                         bool `json:"edit"`
	Approve                      bool `json:"approve"`
	RejectBefore                 bool `json:"reject_before"`
	RejectAfter                  bool `json:"reject_after"`
	RedirectManagementDepartment bool `json:"redirect_management_department"`
	RedirectExecutor             bool `json:"redirect_executor"`
	RedirectOrg                  bool `json:"redirect_org"`
	Deadline                     bool `json:"deadline"`
	Planning                     bool `json:"planning"`
	Ready                        bool `json:"ready"`
	ConfirmManagementDepartment  bool `json:"confirm_management_department"`
	ConfirmManagement            bool `json:"confirm_management"`
}

// StatusBucket - группа статусов, по которой считаются права.
type StatusBucket int

const (
	BucketRegistered StatusBucket = iota
	// BucketActive - все между REGISTERED и терминальными: CONFIRMED,
	// IN_PROGRESS, PARTIALLY_FULFILLED, PLANNED.
	BucketActive
	BucketCompleted
	BucketEndingCompleted
	BucketTerminal
)

func Bucket(status entities.RequestStatus) StatusBucket {
	switch status {
	case entities.StatusRegistered:
		return BucketRegistered
	case entities.StatusCompleted:
		return BucketCompleted
	case entities.StatusEndingCompleted:
		return BucketEndingCompleted
	case entities.StatusFinished, entities.StatusCancelled:
		return BucketTerminal
	default:
		return BucketActive
	}
}

// allowed - явная таблица: какое действие в каком bucket-е доступно
// какой роли. Пересечение "роль структурно умеет" x "статус позволяет".
type ruleKey struct {
	bucket StatusBucket
	role   entities.Role
}

var allowed = map[ruleKey]Rights{
	// Пока заявка только зарегистрирована, ей владеют секретарь и судья.
	{BucketRegistered, entities.RoleSecretary}: {View: true, Edit: true},
	{BucketRegistered, entities.RoleJudge}:     {View: true, Edit: true, Approve: true, RejectBefore: true},

	// После утверждения заявка уходит в исполнительную ветку.
	{BucketActive, entities.RoleSecretary}: {View: true},
	{BucketActive, entities.RoleJudge}:     {View: true},
	{BucketActive, entities.RoleManagement}: {
		View: true, RejectAfter: true,
		RedirectManagementDepartment: true, RedirectExecutor: true, RedirectOrg: true, Deadline: true,
	},
	{BucketActive, entities.RoleManagementDepartment}: {
		View: true, RedirectExecutor: true, RedirectOrg: true, Deadline: true,
	},
	{BucketActive, entities.RoleExecutor}:             {View: true, RedirectOrg: true, Planning: true, Ready: true},
	{BucketActive, entities.RoleExecutorOrganization}: {View: true, Deadline: true, Ready: true},

	// Все позиции выполнены: осталось подтвердить и завершить.
	{BucketCompleted, entities.RoleSecretary}:  {View: true},
	{BucketCompleted, entities.RoleJudge}:      {View: true},
	{BucketCompleted, entities.RoleManagement}: {View: true, RejectAfter: true, RedirectManagementDepartment: true},
	{BucketCompleted, entities.RoleManagementDepartment}: {
		View: true, ConfirmManagementDepartment: true,
	},
	{BucketCompleted, entities.RoleExecutor}:             {View: true},
	{BucketCompleted, entities.RoleExecutorOrganization}: {View: true},

	{BucketEndingCompleted, entities.RoleSecretary}:            {View: true},
	{BucketEndingCompleted, entities.RoleJudge}:                {View: true},
	{BucketEndingCompleted, entities.RoleManagement}:           {View: true, ConfirmManagement: true},
	{BucketEndingCompleted, entities.RoleManagementDepartment}: {View: true},
	{BucketEndingCompleted, entities.RoleExecutor}:             {View: true},
	{BucketEndingCompleted, entities.RoleExecutorOrganization}: {View: true},

	// Терминальные статусы: только просмотр, для всех ролей.
	{BucketTerminal, entities.RoleSecretary}:            {View: true},
	{BucketTerminal, entities.RoleJudge}:                {View: true},
	{BucketTerminal, entities.RoleManagement}:           {View: true},
	{BucketTerminal, entities.RoleManagementDepartment}: {View: true},
	{BucketTerminal, entities.RoleExecutor}:             {View: true},
	{BucketTerminal, entities.RoleExecutorOrganization}: {View: true},
}

// Calculate возвращает права роли для заявки в данном статусе.
// Роли, не упомянутые в таблице для bucket-а (например управление до
// утверждения), получают пустой набор - заявку они даже не видят.
func Calculate(role entities.Role, status entities.RequestStatus) Rights {
	return allowed[ruleKey{Bucket(status), role}]
}
