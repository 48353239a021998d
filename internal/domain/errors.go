package domain

import (
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
)

const (
	ReasonMissingFields      = "MISSING_FIELDS"
	ReasonInvalidFields      = "INVALID_FIELDS"
	ReasonBackendRejected    = "BACKEND_REJECTED"
	ReasonGenerationFailed   = "GENERATION_FAILED"
	ReasonBackendUnreachable = "BACKEND_UNREACHABLE"
	ReasonUnclassified       = "BACKEND_UNCLASSIFIED"
)

// ErrMissingFields 一次性报告所有缺失的必填项
func ErrMissingFields(labels []string) error {
	return errors.BadRequest(ReasonMissingFields, "Please fill in the required fields: "+strings.Join(labels, ", ")).
		WithMetadata(map[string]string{"fields": strings.Join(labels, ",")})
}

// ErrInvalidFields 表单值存在但不合法
func ErrInvalidFields(problems []string) error {
	return errors.BadRequest(ReasonInvalidFields, strings.Join(problems, "; "))
}

// ErrBackendRejected 后端 400，fields 为后端指出的非法字段
func ErrBackendRejected(fields []string, detail string) error {
	msg := "Invalid input"
	if len(fields) > 0 {
		msg = "Invalid input fields: " + strings.Join(fields, ", ")
	} else if detail != "" {
		msg = "Invalid input: " + detail
	}
	return errors.BadRequest(ReasonBackendRejected, msg).
		WithMetadata(map[string]string{"fields": strings.Join(fields, ",")})
}

// ErrGenerationFailed 后端 500
func ErrGenerationFailed(model LLMChoice, detail string) error {
	who := string(model)
	if who == "" {
		who = "the backend"
	}
	msg := fmt.Sprintf("Error generating the memo with %s", who)
	if detail != "" {
		msg += ": " + detail
	}
	return errors.InternalServer(ReasonGenerationFailed, msg)
}

// ErrBackendUnreachable 网络错误或响应无法解析
func ErrBackendUnreachable(cause error) error {
	return errors.ServiceUnavailable(ReasonBackendUnreachable, "Failed to retrieve data from the API.").WithCause(cause)
}

// ErrUnclassified 未列举的非 2xx 状态
func ErrUnclassified(status int, body string) error {
	return errors.New(status, ReasonUnclassified, fmt.Sprintf("Unexpected backend response (status %d)", status)).
		WithMetadata(map[string]string{"body": body})
}
