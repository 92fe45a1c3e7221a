package workflow

import "github.com/asamarka-625/ApplicationSystem/internal/entities"

// Aggregate выводит общий статус заявки из статусов ее позиций.
// Вызывается после каждого изменения позиции, но только пока заявка
// находится между CONFIRMED и ENDING_COMPLETED - терминальные и
// предтерминальные статусы агрегат не трогает (см. Applicable).
//
// Правила:
//   - все позиции в {COMPLETED, CANCELLED}            -> COMPLETED
//   - все позиции в {PLANNED, COMPLETED, CANCELLED}   -> PLANNED
//   - иначе                                           -> PARTIALLY_FULFILLED
func Aggregate(items []entities.RequestItemStatus) entities.RequestStatus {
	if len(items) == 0 {
		return entities.StatusPartiallyFulfilled
	}

	allClosed := true
	allPlannedOrClosed := true
	for _, s := range items {
		if s != entities.ItemCompleted && s != entities.ItemCancelled {
			allClosed = false
		}
		if s != entities.ItemPlanned && s != entities.ItemCompleted && s != entities.ItemCancelled {
			allPlannedOrClosed = false
		}
	}

	switch {
	case allClosed:
		return entities.StatusCompleted
	case allPlannedOrClosed:
		return entities.StatusPlanned
	default:
		return entities.StatusPartiallyFulfilled
	}
}

// Applicable сообщает, можно ли применять агрегат к заявке в данном
// статусе. Заявка никогда не понижается из ENDING_COMPLETED, FINISHED
// или CANCELLED - туда ведут только собственные явные операции.
func Applicable(status entities.RequestStatus) bool {
	switch status {
	case entities.StatusInProgress,
		entities.StatusPartiallyFulfilled,
		entities.StatusPlanned,
		entities.StatusCompleted:
		return true
	}
	return false
}
