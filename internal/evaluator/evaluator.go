package evaluator

import (
	"rite/internal/ast"
	"rite/internal/object"
)

// Evaluator walks the AST produced by the parser. Native functions are
// dispatched through the registry; a nil registry makes every native
// call fail with a NativeError.
type Evaluator struct {
	natives object.NativeRegistry
}

func New(natives object.NativeRegistry) *Evaluator {
	return &Evaluator{natives: natives}
}

func (e *Evaluator) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return e.evalProgram(node, env)

	case *ast.LetStatement:
		return e.evalLetStatement(node, env)

	case *ast.FunctionStatement:
		fn := &object.Function{
			Name:       node.Name.Value,
			Parameters: node.Parameters,
			Body:       node.Body,
			Env:        env,
		}
		env.Define(node.Name.Value, fn)
		return object.NONE

	case *ast.ClassStatement:
		return e.evalClassStatement(node, env)

	case *ast.ReturnStatement:
		var val object.Object = object.NONE
		if node.ReturnValue != nil {
			val = e.Eval(node.ReturnValue, env)
			if isError(val) {
				return val
			}
		}
		return &object.ReturnValue{Value: val}

	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)

	case *ast.BlockStatement:
		return e.evalBlockStatement(node, object.NewEnclosedEnvironment(env))

	case *ast.IfStatement:
		return e.evalIfStatement(node, env)

	case *ast.WhileStatement:
		return e.evalWhileStatement(node, env)

	// Expressions
	case *ast.NumberLiteral:
		return &object.Number{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value)

	case *ast.None:
		return object.NONE

	case *ast.This:
		if val, ok := env.Get("this"); ok {
			return val
		}
		return newError(object.UndefinedNameError, node.Token.Position,
			"'this' is only available inside methods")

	case *ast.Identifier:
		return e.evalIdentifier(node, env)

	case *ast.PrefixExpression:
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.evalPrefixExpression(node, right)

	case *ast.InfixExpression:
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.evalInfixExpression(node, left, right)

	case *ast.LogicalExpression:
		return e.evalLogicalExpression(node, env)

	case *ast.AssignExpression:
		return e.evalAssignExpression(node, env)

	case *ast.CallExpression:
		return e.evalCallExpression(node, env)

	case *ast.PropertyExpression:
		return e.evalPropertyGet(node, env)
	}

	return object.NONE
}

func (e *Evaluator) evalProgram(program *ast.Program, env *object.Environment) object.Object {
	var result object.Object = object.NONE

	for _, statement := range program.Statements {
		result = e.Eval(statement, env)

		switch result := result.(type) {
		case *object.ReturnValue:
			return result.Value
		case *object.Error:
			return result
		}
	}

	return result
}

// evalBlockStatement runs the statements of a block in the environment it
// is handed. Callers that want a fresh scope (plain blocks, if and while
// bodies) pass an enclosed environment; function application passes the
// frame that already holds the parameters.
func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *object.Environment) object.Object {
	var result object.Object = object.NONE

	for _, statement := range block.Statements {
		result = e.Eval(statement, env)

		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
	}

	return result
}

func (e *Evaluator) evalLetStatement(node *ast.LetStatement, env *object.Environment) object.Object {
	var val object.Object = object.NONE
	if node.Value != nil {
		val = e.Eval(node.Value, env)
		if isError(val) {
			return val
		}
	}
	env.Define(node.Name.Value, val)
	return object.NONE
}

func (e *Evaluator) evalClassStatement(node *ast.ClassStatement, env *object.Environment) object.Object {
	methods := make(map[string]*object.Function, len(node.Methods))
	for _, method := range node.Methods {
		methods[method.Name.Value] = &object.Function{
			Name:       method.Name.Value,
			Parameters: method.Parameters,
			Body:       method.Body,
			Env:        env,
		}
	}

	class := &object.Class{Name: node.Name.Value, Methods: methods}
	env.Define(node.Name.Value, class)
	return object.NONE
}

func (e *Evaluator) evalIfStatement(node *ast.IfStatement, env *object.Environment) object.Object {
	condition := e.Eval(node.Condition, env)
	if isError(condition) {
		return condition
	}

	if isTruthy(condition) {
		return e.Eval(node.ThenBranch, env)
	}
	if node.ElseBranch != nil {
		return e.Eval(node.ElseBranch, env)
	}
	return object.NONE
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement, env *object.Environment) object.Object {
	for {
		condition := e.Eval(node.Condition, env)
		if isError(condition) {
			return condition
		}
		if !isTruthy(condition) {
			return object.NONE
		}

		result := e.Eval(node.Body, env)
		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
	}
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *object.Environment) object.Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	return newError(object.UndefinedNameError, node.Token.Position,
		"undefined name '%s'", node.Value)
}

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, right object.Object) object.Object {
	switch node.Operator {
	case "!", "not":
		return nativeBoolToBooleanObject(!isTruthy(right))
	case "-":
		number, ok := right.(*object.Number)
		if !ok {
			return newError(object.TypeError, node.Token.Position,
				"operand of '-' must be a number, got %s", right.Type())
		}
		return &object.Number{Value: -number.Value}
	default:
		return newError(object.TypeError, node.Token.Position,
			"unknown operator '%s'", node.Operator)
	}
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, left, right object.Object) object.Object {
	op := node.Operator

	switch {
	case op == "is":
		return nativeBoolToBooleanObject(objectsEqual(left, right))
	case op == "not":
		return nativeBoolToBooleanObject(!objectsEqual(left, right))
	case left.Type() == object.NUMBER_OBJ && right.Type() == object.NUMBER_OBJ:
		return e.evalNumberInfixExpression(node, left.(*object.Number), right.(*object.Number))
	case op == "+" && left.Type() == object.STRING_OBJ && right.Type() == object.STRING_OBJ:
		return &object.String{Value: left.(*object.String).Value + right.(*object.String).Value}
	default:
		return newError(object.TypeError, node.Token.Position,
			"operands of '%s' must agree, got %s and %s", op, left.Type(), right.Type())
	}
}

func (e *Evaluator) evalNumberInfixExpression(node *ast.InfixExpression, left, right *object.Number) object.Object {
	switch node.Operator {
	case "+":
		return &object.Number{Value: left.Value + right.Value}
	case "-":
		return &object.Number{Value: left.Value - right.Value}
	case "*":
		return &object.Number{Value: left.Value * right.Value}
	case "/":
		return &object.Number{Value: left.Value / right.Value}
	case "<":
		return nativeBoolToBooleanObject(left.Value < right.Value)
	case "<=":
		return nativeBoolToBooleanObject(left.Value <= right.Value)
	case ">":
		return nativeBoolToBooleanObject(left.Value > right.Value)
	case ">=":
		return nativeBoolToBooleanObject(left.Value >= right.Value)
	default:
		return newError(object.TypeError, node.Token.Position,
			"unknown operator '%s' for numbers", node.Operator)
	}
}

// evalLogicalExpression short-circuits and yields the deciding operand
// itself, not a coerced boolean.
func (e *Evaluator) evalLogicalExpression(node *ast.LogicalExpression, env *object.Environment) object.Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}

	if node.Operator == "or" {
		if isTruthy(left) {
			return left
		}
	} else {
		if !isTruthy(left) {
			return left
		}
	}

	return e.Eval(node.Right, env)
}

func (e *Evaluator) evalAssignExpression(node *ast.AssignExpression, env *object.Environment) object.Object {
	switch target := node.Target.(type) {
	case *ast.Identifier:
		val := e.Eval(node.Value, env)
		if isError(val) {
			return val
		}
		if !env.Assign(target.Value, val) {
			return newError(object.UndefinedNameError, target.Token.Position,
				"cannot assign to undefined name '%s'", target.Value)
		}
		return val

	case *ast.PropertyExpression:
		obj := e.Eval(target.Object, env)
		if isError(obj) {
			return obj
		}
		instance, ok := obj.(*object.Instance)
		if !ok {
			return newError(object.TypeError, target.Token.Position,
				"only instances have settable properties, got %s", obj.Type())
		}
		val := e.Eval(node.Value, env)
		if isError(val) {
			return val
		}
		instance.Fields[target.Name.Value] = val
		return val

	default:
		// The parser rejects other targets already.
		return newError(object.TypeError, node.Token.Position, "invalid assignment target")
	}
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *object.Environment) object.Object {
	callee := e.Eval(node.Function, env)
	if isError(callee) {
		return callee
	}

	args, err := e.evalExpressions(node.Arguments, env)
	if err != nil {
		return err
	}

	return e.applyCallee(callee, args, node.Token.Position)
}

func (e *Evaluator) evalExpressions(exps []ast.Expression, env *object.Environment) ([]object.Object, object.Object) {
	result := make([]object.Object, 0, len(exps))

	for _, exp := range exps {
		evaluated := e.Eval(exp, env)
		if isError(evaluated) {
			return nil, evaluated
		}
		result = append(result, evaluated)
	}

	return result, nil
}

func (e *Evaluator) applyCallee(callee object.Object, args []object.Object, pos int) object.Object {
	switch callee := callee.(type) {
	case *object.Function:
		if len(args) != len(callee.Parameters) {
			return newError(object.TypeError, pos,
				"'%s' expects %d arguments, got %d", callee.Name, len(callee.Parameters), len(args))
		}
		frame := object.NewEnclosedEnvironment(callee.Env)
		for i, param := range callee.Parameters {
			frame.Define(param.Value, args[i])
		}
		result := e.evalBlockStatement(callee.Body, frame)
		return unwrapReturnValue(result)

	case *object.Class:
		if len(args) != 0 {
			return newError(object.TypeError, pos,
				"class '%s' takes no arguments, got %d", callee.Name, len(args))
		}
		return &object.Instance{Class: callee, Fields: make(map[string]object.Object)}

	case *object.Native:
		if e.natives == nil {
			return newError(object.NativeError, pos,
				"no native registry for '%s'", callee.Name)
		}
		result := e.natives.Call(callee.Name, args)
		// registry errors have no source position of their own; the call
		// site is the closest thing the script author can act on
		if err, ok := result.(*object.Error); ok && err.Position < 0 {
			err.Position = pos
		}
		return result

	default:
		return newError(object.TypeError, pos, "%s is not callable", callee.Type())
	}
}

func (e *Evaluator) evalPropertyGet(node *ast.PropertyExpression, env *object.Environment) object.Object {
	obj := e.Eval(node.Object, env)
	if isError(obj) {
		return obj
	}

	instance, ok := obj.(*object.Instance)
	if !ok {
		return newError(object.TypeError, node.Token.Position,
			"only instances have properties, got %s", obj.Type())
	}

	// Fields shadow methods of the same name.
	if field, ok := instance.Fields[node.Name.Value]; ok {
		return field
	}

	if method := instance.Class.Method(node.Name.Value); method != nil {
		return bindMethod(method, instance)
	}

	return newError(object.UndefinedNameError, node.Name.Token.Position,
		"undefined property '%s' on %s", node.Name.Value, instance.Class.Name)
}

// bindMethod builds a function whose environment resolves 'this' to the
// receiver. The binding lives for as long as the returned function does,
// so bound methods can be stored and called later.
func bindMethod(method *object.Function, instance *object.Instance) *object.Function {
	bound := object.NewEnclosedEnvironment(method.Env)
	bound.Define("this", instance)
	return &object.Function{
		Name:       method.Name,
		Parameters: method.Parameters,
		Body:       method.Body,
		Env:        bound,
	}
}

func unwrapReturnValue(obj object.Object) object.Object {
	if returnValue, ok := obj.(*object.ReturnValue); ok {
		return returnValue.Value
	}
	if isError(obj) {
		return obj
	}
	return object.NONE
}

// isTruthy treats none and false as falsy. Everything else, zero and the
// empty string included, is truthy.
func isTruthy(obj object.Object) bool {
	switch obj {
	case object.NONE, object.FALSE:
		return false
	default:
		return true
	}
}

func objectsEqual(left, right object.Object) bool {
	if left.Type() != right.Type() {
		return false
	}
	switch left := left.(type) {
	case *object.Number:
		return left.Value == right.(*object.Number).Value
	case *object.String:
		return left.Value == right.(*object.String).Value
	case *object.Boolean:
		return left.Value == right.(*object.Boolean).Value
	case *object.None:
		return true
	default:
		// Functions, classes, instances and natives compare by identity.
		return left == right
	}
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return object.TRUE
	}
	return object.FALSE
}

func newError(kind object.ErrorKind, pos int, format string, a ...interface{}) *object.Error {
	return object.NewError(kind, pos, format, a...)
}

func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}
