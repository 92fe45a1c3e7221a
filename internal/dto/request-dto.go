package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

// ItemCountDTO - позиция заявки при создании/редактировании.
type ItemCountDTO struct {
	ItemID uint64 `json:"item_id" validate:"required,min=1"`
	Count  int    `json:"count" validate:"required,gt=0"`
}

// CreateRequestDTO - тело POST /request/create и PATCH /request/edit.
type CreateRequestDTO struct {
	RequestType string         `json:"request_type" validate:"required,oneof=MATERIAL TECHNICAL"`
	Description string         `json:"description"`
	Items       []ItemCountDTO `json:"items" validate:"dive"`
	IsEmergency bool           `json:"is_emergency"`
}

// RejectRequestDTO - тело PATCH /request/reject.
type RejectRequestDTO struct {
	Comment null.String `json:"comment"`
}

// RedirectManagementDTO - назначение отдела управления.
type RedirectManagementDTO struct {
	OfficerID uint64      `json:"officer_id" validate:"required,min=1"`
	Note      null.String `json:"note"`
}

// RedirectExecutorDTO - назначение исполнителя. Без item_id назначение
// применяется ко всем позициям сразу (пока ни одна не назначена).
type RedirectExecutorDTO struct {
	ItemID     null.Uint64 `json:"item_id"`
	ExecutorID uint64      `json:"executor_id" validate:"required,min=1"`
	Deadline   time.Time   `json:"deadline" validate:"required"`
	Note       null.String `json:"note"`
}

// RedirectOrganizationDTO - назначение организации на одну позицию.
type RedirectOrganizationDTO struct {
	ItemID         uint64      `json:"item_id" validate:"required,min=1"`
	OrganizationID uint64      `json:"organization_id" validate:"required,min=1"`
	Deadline       time.Time   `json:"deadline" validate:"required"`
	Note           null.String `json:"note"`
}

// PlanItemDTO - тело PATCH /request/planning.
type PlanItemDTO struct {
	ItemID   uint64    `json:"item_id" validate:"required,min=1"`
	Deadline time.Time `json:"deadline" validate:"required"`
}

// ExecuteRequestDTO - тело PATCH /request/execute. С item_id исполнитель
// закрывает одну позицию; без item_id отдел управления подтверждает
// выполнение, а управление завершает заявку.
type ExecuteRequestDTO struct {
	ItemID  null.Uint64 `json:"item_id"`
	Comment null.String `json:"comment"`
}
