package service

import (
	"errors"
	"sort"
	"strings"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("invalid parameters")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserBan              = errors.New("user is disabled")
	ErrPasswordIncorrect    = errors.New("wrong email or password")
	ErrCaptchaIncorrect     = errors.New("captcha is incorrect or expired")
	ErrRestoreCodeInvalid   = errors.New("password recovery link is outdated")
	ErrRegistrationClosed   = errors.New("registration is closed")
	ErrStatisticsClosed     = errors.New("statistics are not public")
	ErrFileNotSupported     = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file is too large")
	ErrPostNotFound         = errors.New("post not found")
	ErrPostCommentNotFound  = errors.New("comment not found")
	ErrModeratorUnavailable = errors.New("no moderator available")
	ErrSettingNotFound      = errors.New("setting not found")
	ErrSysBoxNotFound       = errors.New("notification not found")
	UnauthorizedError       = errors.New("permission denied")
	UnExpectedError         = errors.New("unexpected error, please retry later")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrUserNotFound:         NotFound,
	ErrUserBan:              Unauthorized,
	ErrPasswordIncorrect:    Unauthorized,
	ErrCaptchaIncorrect:     BadRequest,
	ErrRestoreCodeInvalid:   BadRequest,
	ErrRegistrationClosed:   NotFound,
	ErrStatisticsClosed:     Forbidden,
	ErrFileNotSupported:     BadRequest,
	ErrFileTooLarge:         BadRequest,
	ErrPostNotFound:         NotFound,
	ErrPostCommentNotFound:  NotFound,
	ErrModeratorUnavailable: InternalServerError,
	ErrSettingNotFound:      InternalServerError,
	ErrSysBoxNotFound:       NotFound,
	UnauthorizedError:       Forbidden,
	UnExpectedError:         InternalServerError,
}

// ValidationError 字段名 -> 可读的错误信息
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil 没有字段错误时返回 nil，避免返回带类型的 nil 指针
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
