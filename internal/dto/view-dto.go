package dto

import (
	"time"

	"github.com/asamarka-625/ApplicationSystem/internal/authz"
)

// EnumDTO - пара код/отображаемое название для словарей и статусов.
type EnumDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RequestListRowDTO - строка списка заявок. Права и фактический статус
// пересчитываются на каждое чтение, в кэш не попадают.
type RequestListRowDTO struct {
	RegistrationNumber      string       `json:"registration_number"`
	HumanRegistrationNumber string       `json:"human_registration_number"`
	RequestType             EnumDTO      `json:"request_type"`
	Status                  EnumDTO      `json:"status"`
	ActualStatus            string       `json:"actual_status,omitempty"`
	IsEmergency             bool         `json:"is_emergency"`
	DepartmentName          string       `json:"department_name"`
	CreatedAt               time.Time    `json:"created_at"`
	Rights                  authz.Rights `json:"rights"`
}

// RequestItemDTO - позиция в детальном ответе.
type RequestItemDTO struct {
	ItemID                  uint64     `json:"item_id"`
	Name                    string     `json:"name"`
	Count                   int        `json:"count"`
	Status                  EnumDTO    `json:"status"`
	ExecutorName            string     `json:"executor_name,omitempty"`
	OrganizationName        string     `json:"organization_name,omitempty"`
	DeadlineExecutor        *time.Time `json:"deadline_executor,omitempty"`
	DeadlineOrganization    *time.Time `json:"deadline_organization,omitempty"`
	DeadlinePlanning        *time.Time `json:"deadline_planning,omitempty"`
	DescriptionExecutor     string     `json:"description_executor,omitempty"`
	DescriptionOrganization string     `json:"description_organization,omitempty"`
	DescriptionCompleted    string     `json:"description_completed,omitempty"`
}

// HistoryEntryDTO - запись истории с отрисованным описанием.
type HistoryEntryDTO struct {
	CreatedAt   time.Time `json:"created_at"`
	Action      EnumDTO   `json:"action"`
	Description string    `json:"description"`
	User        string    `json:"user"`
}

// AttachmentDTO - приложенный к заявке файл.
type AttachmentDTO struct {
	FileName     string `json:"file_name"`
	DocumentType string `json:"document_type"`
	Size         int64  `json:"size"`
}

// RequestDetailDTO - полный ответ GET /request/view/detail.
type RequestDetailDTO struct {
	RegistrationNumber      string            `json:"registration_number"`
	HumanRegistrationNumber string            `json:"human_registration_number"`
	RequestType             EnumDTO           `json:"request_type"`
	Status                  EnumDTO           `json:"status"`
	ActualStatus            string            `json:"actual_status,omitempty"`
	IsEmergency             bool              `json:"is_emergency"`
	Description             string            `json:"description,omitempty"`
	DepartmentName          string            `json:"department_name"`
	SecretaryName           string            `json:"secretary_name"`
	JudgeName               string            `json:"judge_name"`
	ManagementName          string            `json:"management_name"`
	ManagementDeptName      string            `json:"management_department_name"`
	CreatedAt               time.Time         `json:"created_at"`
	UpdatedAt               *time.Time        `json:"updated_at,omitempty"`
	CompletedAt             *time.Time        `json:"completed_at,omitempty"`
	Items                   []RequestItemDTO  `json:"items"`
	Attachments             []AttachmentDTO   `json:"attachments"`
	History                 []HistoryEntryDTO `json:"history"`
	Rights                  authz.Rights      `json:"rights"`
}

// RequestDataDTO - редактируемый снимок для формы изменения заявки.
type RequestDataDTO struct {
	RegistrationNumber string         `json:"registration_number"`
	RequestType        string         `json:"request_type"`
	Description        string         `json:"description"`
	IsEmergency        bool           `json:"is_emergency"`
	Items              []ItemCountDTO `json:"items"`
}

// InfoDTO - словари статусов и типов для фронтенда.
type InfoDTO struct {
	Statuses     []EnumDTO `json:"statuses"`
	ItemStatuses []EnumDTO `json:"item_statuses"`
	RequestTypes []EnumDTO `json:"request_types"`
	Roles        []EnumDTO `json:"roles"`
}

// PlanningRowDTO - строка списка планирования для исполнительной ветки.
type PlanningRowDTO struct {
	RegistrationNumber string     `json:"registration_number"`
	ItemID             uint64     `json:"item_id"`
	ItemName           string     `json:"item_name"`
	Count              int        `json:"count"`
	Status             EnumDTO    `json:"status"`
	ExecutorName       string     `json:"executor_name,omitempty"`
	DeadlineExecutor   *time.Time `json:"deadline_executor,omitempty"`
	DeadlinePlanning   *time.Time `json:"deadline_planning,omitempty"`
	Overdue            bool       `json:"overdue"`
}
