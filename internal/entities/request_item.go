package entities

import "time"

// RequestItemStatus - собственный статус позиции заявки.
type RequestItemStatus string

const (
	ItemRegistered RequestItemStatus = "REGISTERED"
	ItemInProgress RequestItemStatus = "IN_PROGRESS"
	ItemPlanned    RequestItemStatus = "PLANNED"
	ItemCompleted  RequestItemStatus = "COMPLETED"
	ItemCancelled  RequestItemStatus = "CANCELLED"
)

var ItemStatusLabels = map[RequestItemStatus]string{
	ItemRegistered: "зарегистрирована",
	ItemInProgress: "в работе",
	ItemPlanned:    "запланирована",
	ItemCompleted:  "выполнена",
	ItemCancelled:  "отменена",
}

func (s RequestItemStatus) Label() string { return ItemStatusLabels[s] }

// IsClosed - позиция больше не назначается и не планируется.
func (s RequestItemStatus) IsClosed() bool {
	return s == ItemCompleted || s == ItemCancelled
}

// RequestItem - связь заявки с предметом каталога, несет независимое
// состояние исполнения: назначенного исполнителя, организацию и сроки.
type RequestItem struct {
	RequestID               uint64
	ItemID                  uint64
	Count                   int
	Status                  RequestItemStatus
	ExecutorID              *uint64
	ExecutorOrganizationID  *uint64
	DeadlineExecutor        *time.Time
	DeadlineOrganization    *time.Time
	DeadlinePlanning        *time.Time
	DescriptionExecutor     string
	DescriptionOrganization string
	DescriptionCompleted    string

	// Заполняется join-ом для отображения
	ItemName string
}
