package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
)

// HistoryPayload - структурированные детали действия. Движок пишет в
// историю только action + payload; текст собирается здесь, на выдаче.
type HistoryPayload struct {
	Comment        string     `json:"comment,omitempty"`
	TypeFrom       string     `json:"type_from,omitempty"`
	TypeTo         string     `json:"type_to,omitempty"`
	DescriptionTo  string     `json:"description_to,omitempty"`
	AddedItems     []string   `json:"added_items,omitempty"`
	RemovedItems   []string   `json:"removed_items,omitempty"`
	UpdatedItems   []string   `json:"updated_items,omitempty"`
	ItemName       string     `json:"item_name,omitempty"`
	AssigneeName   string     `json:"assignee_name,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	StatusTo       string     `json:"status_to,omitempty"`
	DeletedFile    string     `json:"deleted_file,omitempty"`
	BulkAssignment bool       `json:"bulk_assignment,omitempty"`
}

func (p HistoryPayload) Marshal() []byte {
	raw, err := json.Marshal(p)
	if err != nil {
		return []byte("{}")
	}
	return raw
}

// RenderHistory собирает человекочитаемое описание записи истории.
func RenderHistory(action entities.RequestAction, raw []byte) string {
	var p HistoryPayload
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &p)
	}

	switch action {
	case entities.ActionRegistered:
		return "Заявка зарегистрирована"

	case entities.ActionUpdate:
		var parts []string
		if p.TypeFrom != "" && p.TypeTo != "" {
			parts = append(parts, fmt.Sprintf("Изменен тип заявки: %s -> %s", p.TypeFrom, p.TypeTo))
		}
		if p.DescriptionTo != "" {
			parts = append(parts, fmt.Sprintf("Изменено описание: %s", p.DescriptionTo))
		}
		for _, name := range p.AddedItems {
			parts = append(parts, fmt.Sprintf("Добавлен предмет: %s", name))
		}
		for _, name := range p.RemovedItems {
			parts = append(parts, fmt.Sprintf("Удален предмет: %s", name))
		}
		for _, name := range p.UpdatedItems {
			parts = append(parts, fmt.Sprintf("Изменено количество: %s", name))
		}
		if p.DeletedFile != "" {
			parts = append(parts, fmt.Sprintf("Удалено вложение: %s", p.DeletedFile))
		}
		if len(parts) == 0 {
			return "Заявка обновлена"
		}
		return strings.Join(parts, "\n")

	case entities.ActionConfirmed:
		return "Заявка утверждена"

	case entities.ActionCancelled:
		if p.Comment != "" {
			return fmt.Sprintf("Заявка отклонена: %s", p.Comment)
		}
		return "Заявка отклонена"

	case entities.ActionAppointed:
		target := p.AssigneeName
		if target == "" {
			target = "исполнитель"
		}
		var b strings.Builder
		if p.BulkAssignment {
			b.WriteString(fmt.Sprintf("Назначен по всем позициям: %s", target))
		} else if p.ItemName != "" {
			b.WriteString(fmt.Sprintf("Назначение по позиции %q: %s", p.ItemName, target))
		} else {
			b.WriteString(fmt.Sprintf("Назначение: %s", target))
		}
		if p.Deadline != nil {
			b.WriteString(fmt.Sprintf(", срок до %s", p.Deadline.Format("02.01.2006 15:04")))
		}
		if p.Comment != "" {
			b.WriteString(fmt.Sprintf(" (%s)", p.Comment))
		}
		return b.String()

	case entities.ActionPlanned:
		if p.ItemName != "" && p.Deadline != nil {
			return fmt.Sprintf("Позиция %q запланирована на %s", p.ItemName, p.Deadline.Format("02.01.2006 15:04"))
		}
		return "Выполнение запланировано"

	case entities.ActionCompleted:
		if p.ItemName != "" {
			if p.Comment != "" {
				return fmt.Sprintf("Позиция %q выполнена: %s", p.ItemName, p.Comment)
			}
			return fmt.Sprintf("Позиция %q выполнена", p.ItemName)
		}
		return "Заявка выполнена"

	case entities.ActionEndingCompleted:
		return "Выполнение подтверждено отделом управления"

	case entities.ActionFinished:
		return "Заявка завершена"

	case entities.ActionInProgress:
		return "Заявка отправлена на выполнение"
	}

	return action.Label()
}
