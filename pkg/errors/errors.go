package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Авторизация
	ErrEmptyAuthHeader   = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidToken      = fmt.Errorf("недопустимый токен")
	ErrTokenExpired      = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotAccess  = fmt.Errorf("требуется access-токен")

	ErrInvalidSigningMethod = fmt.Errorf("неподдерживаемый метод подписи токена")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")
	ErrActorNotFoundInContext  = fmt.Errorf("роль пользователя не найдена в контексте запроса")

	// Общие
	ErrNotFound  = fmt.Errorf("запись не найдена")
	ErrForbidden = fmt.Errorf("недостаточно прав")
	ErrConflict  = fmt.Errorf("заявка уже изменена другим пользователем")
)

// HttpError несет HTTP-код вместе с сообщением для пользователя.
// Техническая причина хранится отдельно и наружу не отдается.
type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err}
}

// NewValidationError - нарушение инварианта или некорректный ввод (400).
func NewValidationError(format string, args ...interface{}) error {
	return &HttpError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NewForbiddenError - у роли нет прав на действие в текущем статусе (403).
func NewForbiddenError(format string, args ...interface{}) error {
	return &HttpError{Code: http.StatusForbidden, Message: fmt.Sprintf(format, args...), Err: ErrForbidden}
}

// NewNotFoundError - неизвестный регистрационный номер, предмет или профиль (404).
func NewNotFoundError(format string, args ...interface{}) error {
	return &HttpError{Code: http.StatusNotFound, Message: fmt.Sprintf(format, args...), Err: ErrNotFound}
}

// NewConflictError - повторная отправка наперегонки с уже ушедшим статусом (409).
func NewConflictError(format string, args ...interface{}) error {
	return &HttpError{Code: http.StatusConflict, Message: fmt.Sprintf(format, args...), Err: ErrConflict}
}

// NewExternalError - сбой внешнего сервиса (генерация документов, подпись, файлы).
func NewExternalError(message string, err error) error {
	return &HttpError{Code: http.StatusBadGateway, Message: message, Err: err}
}

func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }
func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool  { return errors.Is(err, ErrConflict) }
