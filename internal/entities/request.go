package entities

import "time"

// RequestStatus - статус заявки в целом.
type RequestStatus string

const (
	StatusRegistered         RequestStatus = "REGISTERED"
	StatusCancelled          RequestStatus = "CANCELLED"
	StatusConfirmed          RequestStatus = "CONFIRMED"
	StatusInProgress         RequestStatus = "IN_PROGRESS"
	StatusPartiallyFulfilled RequestStatus = "PARTIALLY_FULFILLED"
	StatusPlanned            RequestStatus = "PLANNED"
	StatusCompleted          RequestStatus = "COMPLETED"
	StatusEndingCompleted    RequestStatus = "ENDING_COMPLETED"
	StatusFinished           RequestStatus = "FINISHED"
)

// StatusLabels - отображаемые названия статусов.
var StatusLabels = map[RequestStatus]string{
	StatusRegistered:         "зарегистрирована",
	StatusCancelled:          "отменена",
	StatusConfirmed:          "подтверждена",
	StatusInProgress:         "в работе",
	StatusPartiallyFulfilled: "частично выполнена",
	StatusPlanned:            "запланирована",
	StatusCompleted:          "выполнена",
	StatusEndingCompleted:    "подтверждено выполнение",
	StatusFinished:           "завершена",
}

func (s RequestStatus) Label() string { return StatusLabels[s] }

// IsTerminal - из этих статусов заявка не выходит.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// RequestType - тип заявки.
type RequestType string

const (
	TypeMaterial  RequestType = "MATERIAL"
	TypeTechnical RequestType = "TECHNICAL"
)

var TypeLabels = map[RequestType]string{
	TypeMaterial:  "материалы",
	TypeTechnical: "услуги",
}

func (t RequestType) Label() string { return TypeLabels[t] }

func (t RequestType) Valid() bool {
	return t == TypeMaterial || t == TypeTechnical
}

// Request - заявка на ресурсы или услуги.
type Request struct {
	ID                      uint64
	RegistrationNumber      string
	HumanRegistrationNumber string
	Description             string
	RequestType             RequestType
	Status                  RequestStatus
	IsEmergency             bool
	CreatedAt               time.Time
	UpdatedAt               *time.Time
	CompletedAt             *time.Time
	SecretaryID             uint64
	JudgeID                 uint64
	ManagementID            *uint64
	ManagementDepartmentID  *uint64
	DepartmentID            uint64
}
