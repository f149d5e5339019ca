package response

import (
	"errors"

	"scicomp-hub/internal/domain"
)

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New keeps data non-null on the wire.
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// FromError maps a domain error to the wire envelope. Validation errors keep
// the offending field so clients can highlight the input; internal errors are
// collapsed into a generic 500 without the underlying message.
func FromError(err error) Resp {
	var de *domain.Error
	if !errors.As(err, &de) {
		return Error(CodeServerError, "internal error")
	}
	switch de.Kind {
	case domain.KindUnauthenticated:
		return Error(CodeUnauthorized, "unauthenticated")
	case domain.KindForbidden:
		return Error(CodeForbidden, de.Msg)
	case domain.KindNotFound:
		return Error(CodeNotFound, de.Msg)
	case domain.KindConflict:
		return Error(CodeConflict, de.Msg)
	case domain.KindValidation:
		r := Error(CodeInvalid, de.Error())
		if de.Field != "" {
			r.Data = map[string]string{"field": de.Field, "reason": de.Msg}
		}
		return r
	case domain.KindInvalidTransition, domain.KindInvalidOperation:
		return Error(CodeInvalid, de.Msg)
	default:
		return Error(CodeServerError, "internal error")
	}
}
