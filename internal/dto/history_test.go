package dto

import (
	"testing"
	"time"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	"github.com/stretchr/testify/assert"
)

func TestRenderHistory(t *testing.T) {
	deadline := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		action   entities.RequestAction
		payload  HistoryPayload
		expected string
	}{
		{
			name:     "регистрация",
			action:   entities.ActionRegistered,
			expected: "Заявка зарегистрирована",
		},
		{
			name:     "обновление без деталей",
			action:   entities.ActionUpdate,
			expected: "Заявка обновлена",
		},
		{
			name:   "обновление состава",
			action: entities.ActionUpdate,
			payload: HistoryPayload{
				AddedItems:   []string{"Бумага А4"},
				RemovedItems: []string{"Картридж"},
			},
			expected: "Добавлен предмет: Бумага А4\nУдален предмет: Картридж",
		},
		{
			name:     "отклонение с комментарием",
			action:   entities.ActionCancelled,
			payload:  HistoryPayload{Comment: "дубликат"},
			expected: "Заявка отклонена: дубликат",
		},
		{
			name:     "отклонение без комментария",
			action:   entities.ActionCancelled,
			expected: "Заявка отклонена",
		},
		{
			name:     "назначение по позиции",
			action:   entities.ActionAppointed,
			payload:  HistoryPayload{ItemName: "Стол", AssigneeName: "Иванов И.И."},
			expected: "Назначение по позиции \"Стол\": Иванов И.И.",
		},
		{
			name:     "массовое назначение со сроком",
			action:   entities.ActionAppointed,
			payload:  HistoryPayload{BulkAssignment: true, AssigneeName: "Петров П.П.", Deadline: &deadline},
			expected: "Назначен по всем позициям: Петров П.П., срок до 14.03.2025 10:30",
		},
		{
			name:     "планирование позиции",
			action:   entities.ActionPlanned,
			payload:  HistoryPayload{ItemName: "Стол", Deadline: &deadline},
			expected: "Позиция \"Стол\" запланирована на 14.03.2025 10:30",
		},
		{
			name:     "выполнение позиции с комментарием",
			action:   entities.ActionCompleted,
			payload:  HistoryPayload{ItemName: "Стол", Comment: "доставлено"},
			expected: "Позиция \"Стол\" выполнена: доставлено",
		},
		{
			name:     "подтверждение отделом",
			action:   entities.ActionEndingCompleted,
			expected: "Выполнение подтверждено отделом управления",
		},
		{
			name:     "завершение",
			action:   entities.ActionFinished,
			expected: "Заявка завершена",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RenderHistory(tc.action, tc.payload.Marshal()))
		})
	}
}

func TestRenderHistory_BadPayload(t *testing.T) {
	// Битый JSON не должен ронять выдачу истории.
	assert.Equal(t, "Заявка обновлена", RenderHistory(entities.ActionUpdate, []byte("{broken")))
	assert.Equal(t, "Заявка зарегистрирована", RenderHistory(entities.ActionRegistered, nil))
}
