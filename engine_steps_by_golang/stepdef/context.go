package stepdef

import (
	"fmt"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
)

// Context là active execution context của một scenario: giữ state do step
// handlers chia sẻ, named handlers/receivers cho deferred dispatch, và
// instrumentation theo scenario (số step đã invoke, số đối số đã thấy).
// Không an toàn cho concurrent/goroutine: mỗi scenario chạy song song phải
// có context riêng, và các Invoke trên cùng context phải tuần tự.
type Context struct {
	state     map[string]any
	handlers  map[string]Handler
	receivers map[string]Receiver

	stepsInvoked int
	argsSeen     int
}

func NewContext() *Context {
	return &Context{
		state:     make(map[string]any),
		handlers:  make(map[string]Handler),
		receivers: make(map[string]Receiver),
	}
}

// -------------------- Shared state --------------------

func (c *Context) Set(key string, v any) { c.state[key] = v }

func (c *Context) Get(key string) (any, bool) {
	v, ok := c.state[key]
	return v, ok
}

func (c *Context) Delete(key string) { delete(c.state, key) }

// -------------------- Named dispatch --------------------

// RegisterHandler đăng ký một named handler; biến Context thành Receiver
// cho deferred invocables với strategy self.
func (c *Context) RegisterHandler(message string, h Handler) {
	c.handlers[message] = h
}

// RegisterReceiver đăng ký receiver tra cứu theo tên (strategy named).
func (c *Context) RegisterReceiver(name string, r Receiver) {
	c.receivers[name] = r
}

// LookupReceiver resolve receiver theo tên đã đăng ký.
func (c *Context) LookupReceiver(name string) (Receiver, error) {
	r, ok := c.receivers[name]
	if !ok {
		return nil, &ReceiverError{Name: name, Reason: "no receiver registered under that name"}
	}
	return r, nil
}

// Call triển khai Receiver: gửi message tới named handler tương ứng.
func (c *Context) Call(message string, ctx *Context, args []ir.Arg) (any, error) {
	h, ok := c.handlers[message]
	if !ok {
		return nil, fmt.Errorf("DispatchError: context has no handler for message %q", message)
	}
	return h.Fn(ctx, args)
}

// Arity triển khai Receiver.
func (c *Context) Arity(message string) (int, bool) {
	h, ok := c.handlers[message]
	if !ok {
		return 0, false
	}
	return h.NArgs, true
}

// -------------------- Instrumentation --------------------

func (c *Context) noteInvocation(nargs int) {
	c.stepsInvoked++
	c.argsSeen += nargs
}

// StepsInvoked trả về số step đã invoke trên context này.
func (c *Context) StepsInvoked() int { return c.stepsInvoked }

// ArgsSeen trả về tổng số đối số đã truyền qua context này.
func (c *Context) ArgsSeen() int { return c.argsSeen }
