package entities

import "time"

// RequestAction - действие, записываемое в историю заявки.
type RequestAction string

const (
	ActionRegistered      RequestAction = "REGISTERED"
	ActionUpdate          RequestAction = "UPDATE"
	ActionConfirmed       RequestAction = "CONFIRMED"
	ActionAppointed       RequestAction = "APPOINTED"
	ActionPlanned         RequestAction = "PLANNED"
	ActionCompleted       RequestAction = "COMPLETED"
	ActionCancelled       RequestAction = "CANCELLED"
	ActionEndingCompleted RequestAction = "ENDING_COMPLETED"
	ActionFinished        RequestAction = "FINISHED"
	ActionInProgress      RequestAction = "IN_PROGRESS"
)

var ActionLabels = map[RequestAction]string{
	ActionRegistered:      "зарегистрирована",
	ActionUpdate:          "обновлена",
	ActionConfirmed:       "подтверждена",
	ActionAppointed:       "назначена",
	ActionPlanned:         "запланирована",
	ActionCompleted:       "выполнена",
	ActionCancelled:       "отменена",
	ActionEndingCompleted: "выполнение подтверждено",
	ActionFinished:        "завершена",
	ActionInProgress:      "в работе",
}

func (a RequestAction) Label() string { return ActionLabels[a] }

// RequestHistory - запись журнала действий. Только добавляется,
// пишется в той же транзакции, что и само изменение.
type RequestHistory struct {
	ID        uint64
	RequestID uint64
	UserID    uint64
	Action    RequestAction
	Payload   []byte // структурированные детали действия, JSON
	CreatedAt time.Time
}
