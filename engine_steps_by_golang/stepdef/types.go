package stepdef

// Core type definitions for step definition targets.

import (
	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
)

// HandlerFn là chữ ký hàm behavior của một step.
// Nhận active context và danh sách đối số đã trích xuất từ step text;
// kết quả trả về đi thẳng tới caller, engine không can thiệp.
type HandlerFn func(ctx *Context, args []ir.Arg) (any, error)

// Handler là direct callable kèm arity đã khai báo lúc đăng ký.
type Handler struct {
	// NArgs là số đối số handler chấp nhận; dùng để phát hiện arity mismatch
	// trước khi dispatch.
	NArgs int
	Fn    HandlerFn
}

func (h Handler) isZero() bool { return h.Fn == nil }

// Receiver là capability "nhận call theo tên": deferred invocable gửi
// message name tới một Receiver đã resolve. Active context tự nó là một
// Receiver (named handlers), các receiver khác đăng ký qua RegisterReceiver.
type Receiver interface {
	// Call gửi message với đối số tới receiver.
	Call(message string, ctx *Context, args []ir.Arg) (any, error)

	// Arity trả về số đối số message chấp nhận, ok=false nếu không biết
	// message (khi đó arity check để Call tự xử lý).
	Arity(message string) (int, bool)
}

// ReceiverFn resolve một Receiver từ active context tại thời điểm invoke.
type ReceiverFn func(ctx *Context) (Receiver, error)
