package generic

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

var regOfAnonymous = regexp.MustCompile(`^(func)?\d+$`)

// FuncName 返回函数值的短名称，匿名函数返回空字符串。
//
//	FuncName(strings.ToUpper)  // "ToUpper"
//	FuncName(func() {})        // ""
func FuncName(fn any) string {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return ""
	}

	full := runtime.FuncForPC(rv.Pointer()).Name()
	name := full[strings.LastIndex(full, ".")+1:]
	name = strings.TrimSuffix(name, "-fm")

	if regOfAnonymous.MatchString(name) {
		return ""
	}
	return name
}
