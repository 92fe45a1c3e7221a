package mock

import (
	"bytes"
	"context"
	"fmt"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
)

// DocumentProvider - заглушка генератора печатных форм и сервиса
// подписания. Выдает простой текстовый документ вместо PDF, подпись
// накладывает текстовой отметкой.
type DocumentProvider struct{}

func NewDocumentProvider() *DocumentProvider {
	return &DocumentProvider{}
}

func (p *DocumentProvider) GenerateRequestForm(_ context.Context, req entities.Request, items []entities.RequestItem) ([]byte, error) {
	number := req.HumanRegistrationNumber
	if number == "" {
		// Человекочитаемый номер присваивается после сохранения строки.
		number = req.RegistrationNumber
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Заявка № %s\n", number)
	fmt.Fprintf(&buf, "Тип: %s\n", req.RequestType.Label())
	if req.Description != "" {
		fmt.Fprintf(&buf, "Описание: %s\n", req.Description)
	}
	buf.WriteString("Позиции:\n")
	for _, it := range items {
		fmt.Fprintf(&buf, "  - %s, %d шт.\n", it.ItemName, it.Count)
	}
	return buf.Bytes(), nil
}

func (p *DocumentProvider) ApplySignatureOverlay(_ context.Context, document []byte, signerName string) ([]byte, error) {
	if len(document) == 0 {
		return nil, fmt.Errorf("пустой документ")
	}

	var buf bytes.Buffer
	buf.Write(document)
	fmt.Fprintf(&buf, "Подписано: %s\n", signerName)
	return buf.Bytes(), nil
}
