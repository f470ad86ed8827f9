package util

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)
	_ = validate.RegisterValidation("length", validateLength)
}

// ValidateFields 校验 DTO 上的 validate 标签，返回 字段 -> 错误信息；全部通过时返回 nil
func ValidateFields(dto any) map[string]string {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}

	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		name := fe.Field()
		if _, exists := fields[name]; exists {
			continue
		}
		fields[name] = fieldMessage(name, fe)
	}
	return fields
}

func fieldMessage(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", name)
	case "length":
		lo, hi, _ := parseLength(fe.Param())
		return fmt.Sprintf("%s must be between %d and %d characters", name, lo, hi)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

// validateLength length=lo:hi，按字符（rune）计数
func validateLength(fl validator.FieldLevel) bool {
	lo, hi, err := parseLength(fl.Param())
	if err != nil || fl.Field().Kind() != reflect.String {
		return false
	}
	n := utf8.RuneCountInString(fl.Field().String())
	return n >= lo && n <= hi
}

func parseLength(param string) (int, int, error) {
	loStr, hiStr, found := strings.Cut(param, ":")
	if !found {
		return 0, 0, fmt.Errorf("bad length param %q", param)
	}
	lo, err := strconv.Atoi(loStr)
	if err != nil {
		return 0, 0, err
	}
	hi, err := strconv.Atoi(hiStr)
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}
