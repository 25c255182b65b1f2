package stepdef

import (
	"fmt"
	"strings"
)

// MissingInvocableError: step definition được tạo mà không có invocable.
// Đây là lỗi cấu hình lúc đăng ký (authoring mistake), phải fail setup
// chứ không phải test failure.
type MissingInvocableError struct {
	Expression string
}

func (e *MissingInvocableError) Error() string {
	return fmt.Sprintf("ConfigurationError: step definition %q has no handler", e.Expression)
}

// ArityError: số đối số cung cấp không khớp số đối số target chấp nhận.
// Frames[0] là synthetic frame "<file>:<line>:in '<expression>'" của step
// definition, để scenario layer báo lỗi kèm đúng vị trí nguồn.
type ArityError struct {
	Expected int
	Got      int
	Frames   []string
	wrapped  error
}

func (e *ArityError) Error() string {
	msg := fmt.Sprintf("ArityError: wrong number of arguments (given %d, expected %d)", e.Got, e.Expected)
	if len(e.Frames) > 0 {
		msg += "\n\t" + strings.Join(e.Frames, "\n\t")
	}
	return msg
}

func (e *ArityError) Unwrap() error { return e.wrapped }

// ReceiverError: không resolve được receiver cho deferred invocable.
// Propagate như invocation failure thường, không annotate thêm.
type ReceiverError struct {
	Message string // message name của deferred invocable
	Name    string // tên receiver (strategy named), rỗng nếu không áp dụng
	Reason  string
}

func (e *ReceiverError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("ReceiverError: cannot resolve receiver %q for message %q: %s", e.Name, e.Message, e.Reason)
	}
	return fmt.Sprintf("ReceiverError: cannot resolve receiver for message %q: %s", e.Message, e.Reason)
}
