package validation

import (
	"reflect"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

// CustomValidator - обертка для использования в Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate реализует интерфейс echo.Validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New создает и настраивает валидатор
func New() *CustomValidator {
	v := validator.New()
	registerNullTypes(v)
	return &CustomValidator{validator: v}
}

// registerNullTypes учит валидатор видеть сквозь null-обертки:
// невалидное значение считается отсутствующим полем.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch value := field.Interface().(type) {
		case null.String:
			if value.Valid {
				return value.String
			}
		case null.Uint64:
			if value.Valid {
				return value.Uint64
			}
		case null.Int64:
			if value.Valid {
				return value.Int64
			}
		case null.Bool:
			if value.Valid {
				return value.Bool
			}
		case null.Time:
			if value.Valid {
				return value.Time
			}
		}
		return nil
	}, null.String{}, null.Uint64{}, null.Int64{}, null.Bool{}, null.Time{})
}
