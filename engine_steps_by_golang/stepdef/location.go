package stepdef

import (
	"reflect"
	"runtime"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
)

// CallerLocation chụp vị trí nguồn của caller tại call-stack depth cho trước.
// Registration API gọi hàm này đồng bộ ngay lúc đăng ký step, thay vì suy
// ngược từ stack lúc runtime.
func CallerLocation(skip int) ir.Location {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ir.Location{}
	}
	return ir.Location{File: file, Line: line}
}

// funcOrigin trả về vị trí khai báo của một direct handler.
func funcOrigin(fn HandlerFn) (ir.Location, bool) {
	if fn == nil {
		return ir.Location{}, false
	}
	pc := reflect.ValueOf(fn).Pointer()
	f := runtime.FuncForPC(pc)
	if f == nil {
		return ir.Location{}, false
	}
	file, line := f.FileLine(pc)
	if file == "" {
		return ir.Location{}, false
	}
	return ir.Location{File: file, Line: line}, true
}
