package validator

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// Details преобразует ошибки валидатора в map для ответа клиенту
func Details(err error) map[string]interface{} {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return map[string]interface{}{"error": err.Error()}
	}

	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			details[fe.Namespace()] = fmt.Sprintf("failed on '%s=%s'", fe.Tag(), fe.Param())
		} else {
			details[fe.Namespace()] = fmt.Sprintf("failed on '%s'", fe.Tag())
		}
	}
	return details
}
