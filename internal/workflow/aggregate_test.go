package workflow

import (
	"testing"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	testCases := []struct {
		name     string
		items    []entities.RequestItemStatus
		expected entities.RequestStatus
	}{
		{
			name:     "все позиции выполнены",
			items:    []entities.RequestItemStatus{entities.ItemCompleted, entities.ItemCompleted},
			expected: entities.StatusCompleted,
		},
		{
			name:     "выполненные и отмененные считаются закрытыми",
			items:    []entities.RequestItemStatus{entities.ItemCompleted, entities.ItemCancelled},
			expected: entities.StatusCompleted,
		},
		{
			name:     "все позиции запланированы",
			items:    []entities.RequestItemStatus{entities.ItemPlanned, entities.ItemPlanned},
			expected: entities.StatusPlanned,
		},
		{
			name:     "запланированные вместе с закрытыми дают PLANNED",
			items:    []entities.RequestItemStatus{entities.ItemPlanned, entities.ItemCompleted, entities.ItemCancelled},
			expected: entities.StatusPlanned,
		},
		{
			name:     "открытая позиция удерживает частичное выполнение",
			items:    []entities.RequestItemStatus{entities.ItemCompleted, entities.ItemRegistered},
			expected: entities.StatusPartiallyFulfilled,
		},
		{
			name:     "позиция в работе удерживает частичное выполнение",
			items:    []entities.RequestItemStatus{entities.ItemPlanned, entities.ItemInProgress},
			expected: entities.StatusPartiallyFulfilled,
		},
		{
			name:     "одна выполненная позиция закрывает заявку",
			items:    []entities.RequestItemStatus{entities.ItemCompleted},
			expected: entities.StatusCompleted,
		},
		{
			name:     "без позиций агрегат не закрывает заявку",
			items:    nil,
			expected: entities.StatusPartiallyFulfilled,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Aggregate(tc.items))
		})
	}
}

func TestApplicable(t *testing.T) {
	applicable := []entities.RequestStatus{
		entities.StatusInProgress,
		entities.StatusPartiallyFulfilled,
		entities.StatusPlanned,
		entities.StatusCompleted,
	}
	for _, s := range applicable {
		assert.True(t, Applicable(s), "агрегат должен применяться к %s", s)
	}

	notApplicable := []entities.RequestStatus{
		entities.StatusRegistered,
		entities.StatusConfirmed,
		entities.StatusEndingCompleted,
		entities.StatusFinished,
		entities.StatusCancelled,
	}
	for _, s := range notApplicable {
		assert.False(t, Applicable(s), "агрегат не должен применяться к %s", s)
	}
}
