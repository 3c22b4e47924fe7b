package script

import (
	"encoding/json"
	"strings"

	lua "github.com/Shopify/go-lua"
)

// setupSandbox loads only the safe standard Lua libraries and strips the
// dangerous parts of "os", so a script cannot touch the filesystem,
// spawn processes, or read the environment.
func setupSandbox(l *lua.State) {
	lua.Require(l, "_G", lua.BaseOpen, true)
	l.Pop(1)
	lua.Require(l, "string", lua.StringOpen, true)
	l.Pop(1)
	lua.Require(l, "table", lua.TableOpen, true)
	l.Pop(1)
	lua.Require(l, "math", lua.MathOpen, true)
	l.Pop(1)

	lua.Require(l, "os", lua.OSOpen, true)
	l.Pop(1)
	l.Global("os")
	for _, fn := range []string{"execute", "exit", "getenv", "remove", "rename", "setlocale", "tmpname"} {
		l.PushNil()
		l.SetField(-2, fn)
	}
	l.Pop(1)

	for _, g := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		l.PushNil()
		l.SetGlobal(g)
	}

	l.Register("json_encode", jsonEncode)
	l.Register("json_decode", jsonDecode)
	l.Register("str_trim", strTrim)
	l.Register("str_split", strSplit)
	l.Register("str_contains", strContains)
	l.Register("str_replace", strReplace)
	l.Register("type_of", typeOf)
}

// pushValue converts a Go value to its Lua representation.
func pushValue(l *lua.State, v interface{}) {
	switch val := v.(type) {
	case nil:
		l.PushNil()
	case bool:
		l.PushBoolean(val)
	case int:
		l.PushInteger(val)
	case int64:
		l.PushInteger(int(val))
	case float64:
		l.PushNumber(val)
	case byte:
		l.PushInteger(int(val))
	case string:
		l.PushString(val)
	case []interface{}:
		l.NewTable()
		for i, item := range val {
			l.PushInteger(i + 1)
			pushValue(l, item)
			l.SetTable(-3)
		}
	case map[string]interface{}:
		l.NewTable()
		for k, v := range val {
			l.PushString(k)
			pushValue(l, v)
			l.SetTable(-3)
		}
	default:
		if data, err := json.Marshal(val); err == nil {
			l.PushString(string(data))
		} else {
			l.PushNil()
		}
	}
}

// pullValue converts the Lua value at idx back to a Go value.
func pullValue(l *lua.State, idx int) interface{} {
	switch l.TypeOf(idx) {
	case lua.TypeNil:
		return nil
	case lua.TypeBoolean:
		return l.ToBoolean(idx)
	case lua.TypeNumber:
		n, _ := l.ToNumber(idx)
		return n
	case lua.TypeString:
		s, _ := l.ToString(idx)
		return s
	case lua.TypeTable:
		l.PushValue(idx)

		isArray := true
		maxIndex := 0
		l.PushNil()
		for l.Next(-2) {
			if l.TypeOf(-2) != lua.TypeNumber {
				isArray = false
				l.Pop(2)
				break
			}
			n, _ := l.ToNumber(-2)
			if i := int(n); i > maxIndex {
				maxIndex = i
			}
			l.Pop(1)
		}

		if isArray && maxIndex > 0 {
			arr := make([]interface{}, maxIndex)
			for i := 1; i <= maxIndex; i++ {
				l.PushInteger(i)
				l.Table(-2)
				arr[i-1] = pullValue(l, -1)
				l.Pop(1)
			}
			l.Pop(1)
			return arr
		}

		obj := make(map[string]interface{})
		l.PushNil()
		for l.Next(-2) {
			key, _ := l.ToString(-2)
			obj[key] = pullValue(l, -1)
			l.Pop(1)
		}
		l.Pop(1)
		return obj
	default:
		return nil
	}
}

func jsonEncode(l *lua.State) int {
	data, err := json.Marshal(pullValue(l, 1))
	if err != nil {
		l.PushNil()
		l.PushString(err.Error())
		return 2
	}
	l.PushString(string(data))
	return 1
}

func jsonDecode(l *lua.State) int {
	str := lua.CheckString(l, 1)
	var value interface{}
	if err := json.Unmarshal([]byte(str), &value); err != nil {
		l.PushNil()
		l.PushString(err.Error())
		return 2
	}
	pushValue(l, value)
	return 1
}

func strTrim(l *lua.State) int {
	l.PushString(strings.TrimSpace(lua.CheckString(l, 1)))
	return 1
}

func strSplit(l *lua.State) int {
	parts := strings.Split(lua.CheckString(l, 1), lua.CheckString(l, 2))
	l.NewTable()
	for i, part := range parts {
		l.PushInteger(i + 1)
		l.PushString(part)
		l.SetTable(-3)
	}
	return 1
}

func strContains(l *lua.State) int {
	l.PushBoolean(strings.Contains(lua.CheckString(l, 1), lua.CheckString(l, 2)))
	return 1
}

func strReplace(l *lua.State) int {
	str, old, newStr := lua.CheckString(l, 1), lua.CheckString(l, 2), lua.CheckString(l, 3)
	count := -1
	if l.Top() >= 4 {
		count = lua.CheckInteger(l, 4)
	}
	l.PushString(strings.Replace(str, old, newStr, count))
	return 1
}

func typeOf(l *lua.State) int {
	switch l.TypeOf(1) {
	case lua.TypeNil:
		l.PushString("nil")
	case lua.TypeBoolean:
		l.PushString("boolean")
	case lua.TypeNumber:
		l.PushString("number")
	case lua.TypeString:
		l.PushString("string")
	case lua.TypeTable:
		l.PushString("table")
	case lua.TypeFunction:
		l.PushString("function")
	default:
		l.PushString("unknown")
	}
	return 1
}
