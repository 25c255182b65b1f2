package stepdef

// Invocable là tagged variant cho target của một step definition:
// hoặc direct callable bind lúc đăng ký, hoặc deferred dispatch (message
// name + chiến lược resolve receiver, chọn cố định lúc construct).

type invocableKind int

const (
	kindNone invocableKind = iota
	kindDirect
	kindDeferred
)

// ReceiverStrategy là chiến lược resolve receiver của deferred invocable.
// Cố định sau khi construct; resolve chạy lại MỖI lần invoke (không cache)
// vì active context thay đổi theo từng scenario run.
type ReceiverStrategy int

const (
	// ReceiveSelf: receiver là chính active context.
	ReceiveSelf ReceiverStrategy = iota
	// ReceiveNamed: receiver tra cứu theo tên trên active context.
	ReceiveNamed
	// ReceiveCallable: receiver do một callable resolve từ active context.
	ReceiveCallable
	// ReceiveInvalid: receiver cấu hình sai; resolve LUÔN thất bại,
	// trước khi chạm tới argument binding.
	ReceiveInvalid
)

func (s ReceiverStrategy) String() string {
	switch s {
	case ReceiveSelf:
		return "self"
	case ReceiveNamed:
		return "named"
	case ReceiveCallable:
		return "callable"
	case ReceiveInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

type Invocable struct {
	kind invocableKind

	// direct
	handler Handler

	// deferred
	message      string
	strategy     ReceiverStrategy
	receiverName string
	receiverFn   ReceiverFn
}

// Direct tạo invocable từ một handler bind sẵn.
func Direct(h Handler) Invocable {
	return Invocable{kind: kindDirect, handler: h}
}

// DeferredSelf: gửi message tới chính active context.
func DeferredSelf(message string) Invocable {
	return Invocable{kind: kindDeferred, message: message, strategy: ReceiveSelf}
}

// DeferredNamed: receiver tra cứu theo tên trên active context lúc invoke.
func DeferredNamed(message, receiverName string) Invocable {
	return Invocable{kind: kindDeferred, message: message, strategy: ReceiveNamed, receiverName: receiverName}
}

// DeferredCallable: receiver do fn resolve từ active context lúc invoke.
func DeferredCallable(message string, fn ReceiverFn) Invocable {
	return Invocable{kind: kindDeferred, message: message, strategy: ReceiveCallable, receiverFn: fn}
}

// DeferredInvalid: receiver cấu hình sai từ lúc đăng ký; mọi invoke thất bại.
func DeferredInvalid(message string) Invocable {
	return Invocable{kind: kindDeferred, message: message, strategy: ReceiveInvalid}
}

// IsZero: invocable vắng mặt (chưa bind gì). Với direct, handler.Fn nil
// cũng tính là vắng mặt.
func (iv Invocable) IsZero() bool {
	switch iv.kind {
	case kindDirect:
		return iv.handler.isZero()
	case kindDeferred:
		return iv.message == ""
	default:
		return true
	}
}

func (iv Invocable) IsDirect() bool { return iv.kind == kindDirect }

func (iv Invocable) IsDeferred() bool { return iv.kind == kindDeferred }

func (iv Invocable) Message() string { return iv.message }

func (iv Invocable) Strategy() ReceiverStrategy { return iv.strategy }

func (iv Invocable) HandlerArity() int { return iv.handler.NArgs }

// resolveReceiver thực thi chiến lược resolve tại thời điểm invoke.
func (iv Invocable) resolveReceiver(ctx *Context) (Receiver, error) {
	switch iv.strategy {
	case ReceiveSelf:
		return ctx, nil
	case ReceiveNamed:
		return ctx.LookupReceiver(iv.receiverName)
	case ReceiveCallable:
		return iv.receiverFn(ctx)
	case ReceiveInvalid:
		return nil, &ReceiverError{Message: iv.message, Reason: "receiver misconfigured at registration"}
	default:
		return nil, &ReceiverError{Message: iv.message, Reason: "unknown receiver strategy"}
	}
}
