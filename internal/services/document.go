package services

import (
	"context"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
)

// DocumentGeneratorInterface готовит печатную форму заявки. Реальная
// реализация ходит во внешний сервис генерации, в разработке и тестах
// используется заглушка из internal/integrations/mock.
type DocumentGeneratorInterface interface {
	GenerateRequestForm(ctx context.Context, req entities.Request, items []entities.RequestItem) ([]byte, error)
}

// SignatureServiceInterface накладывает подпись судьи на печатную
// форму. Подписанный документ сохраняется отдельным вложением.
type SignatureServiceInterface interface {
	ApplySignatureOverlay(ctx context.Context, document []byte, signerName string) ([]byte, error)
}
