package native

import (
	"fmt"
	"strconv"
	"time"

	"rite/internal/object"
)

func stdFunctions() map[string]Fn {
	return map[string]Fn{
		"print":   fnPrint,
		"println": fnPrintln,
		"clock":   fnClock,
		"len":     fnLen,
		"type":    fnType,
		"str":     fnStr,
		"num":     fnNum,
	}
}

func fnPrint(args []object.Object) object.Object {
	for i, arg := range args {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(arg.Inspect())
	}
	return object.NONE
}

func fnPrintln(args []object.Object) object.Object {
	fnPrint(args)
	fmt.Println()
	return object.NONE
}

// fnClock reports seconds since the Unix epoch, fractional part included.
func fnClock(args []object.Object) object.Object {
	if len(args) != 0 {
		return argCountError("clock", 0, len(args))
	}
	return &object.Number{Value: float64(time.Now().UnixNano()) / float64(time.Second)}
}

func fnLen(args []object.Object) object.Object {
	if len(args) != 1 {
		return argCountError("len", 1, len(args))
	}
	str, ok := args[0].(*object.String)
	if !ok {
		return object.NewError(object.TypeError, -1,
			"len expects a string, got %s", args[0].Type())
	}
	return &object.Number{Value: float64(len([]rune(str.Value)))}
}

func fnType(args []object.Object) object.Object {
	if len(args) != 1 {
		return argCountError("type", 1, len(args))
	}
	return &object.String{Value: string(args[0].Type())}
}

func fnStr(args []object.Object) object.Object {
	if len(args) != 1 {
		return argCountError("str", 1, len(args))
	}
	return &object.String{Value: args[0].Inspect()}
}

func fnNum(args []object.Object) object.Object {
	if len(args) != 1 {
		return argCountError("num", 1, len(args))
	}
	switch arg := args[0].(type) {
	case *object.Number:
		return arg
	case *object.String:
		value, err := strconv.ParseFloat(arg.Value, 64)
		if err != nil {
			return object.NewError(object.NativeError, -1,
				"num cannot parse %q", arg.Value)
		}
		return &object.Number{Value: value}
	default:
		return object.NewError(object.TypeError, -1,
			"num expects a number or string, got %s", args[0].Type())
	}
}

func argCountError(name string, want, got int) *object.Error {
	return object.NewError(object.TypeError, -1,
		"%s expects %d arguments, got %d", name, want, got)
}
