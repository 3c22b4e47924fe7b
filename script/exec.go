package script

import (
	"fmt"

	lua "github.com/Shopify/go-lua"

	"github.com/flowexpr/fex"
)

// Input is implemented by a context type that can hand a script a plain
// Go value to convert into Lua — a script runs sandboxed and cannot see
// the context's Go type, so this is its only window into it.
type Input interface {
	ScriptInput() any
}

// ExecutePredicate runs content's top-level "exec(input)" function and
// interprets its return value as a flow-expression predicate outcome:
// a plain boolean result, or a table {pass = bool, value = any} when the
// script also wants to report a transported value. Any Lua error, or a
// return value of a different shape, is treated as a failed predicate
// rather than propagated, since a Predicate has no error channel.
func ExecutePredicate[T Input](content string, ctx T, slot *fex.ValueSlot) bool {
	l := lua.NewState()
	setupSandbox(l)

	pushValue(l, ctx.ScriptInput())
	l.SetGlobal("input")

	if err := lua.DoString(l, content); err != nil {
		return false
	}

	l.Global("exec")
	if l.TypeOf(-1) != lua.TypeFunction {
		l.Pop(1)
		return false
	}
	pushValue(l, ctx.ScriptInput())
	if err := l.ProtectedCall(1, 1, 0); err != nil {
		return false
	}
	result := pullValue(l, -1)
	l.Pop(1)

	switch v := result.(type) {
	case bool:
		return v
	case map[string]interface{}:
		pass, _ := v["pass"].(bool)
		if !pass {
			return false
		}
		if value, ok := v["value"]; ok {
			return slot.Set(true, value)
		}
		return true
	default:
		return false
	}
}

// ExecuteAction runs content's top-level "exec(input)" function purely
// for its side effects inside the sandbox (string/table/math helpers,
// json_encode/json_decode) and ignores its return value — the script
// analogue of a Builder.Act callback.
func ExecuteAction[T Input](content string, ctx T) error {
	l := lua.NewState()
	setupSandbox(l)

	pushValue(l, ctx.ScriptInput())
	l.SetGlobal("input")

	if err := lua.DoString(l, content); err != nil {
		return fmt.Errorf("script: %w", err)
	}

	l.Global("exec")
	if l.TypeOf(-1) != lua.TypeFunction {
		l.Pop(1)
		return nil
	}
	pushValue(l, ctx.ScriptInput())
	if err := l.ProtectedCall(1, 0, 0); err != nil {
		return fmt.Errorf("script: exec: %w", err)
	}
	return nil
}
