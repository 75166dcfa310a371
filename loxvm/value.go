package loxvm

import (
	"math"
	"strconv"
)

// Value is a runtime datum. The set of variants is closed:
// Nil, Bool, Number and the objects *String, *Function, *NativeFunc.
type Value interface {
	String() string
	isValue()
}

// Object is a heap-allocated Value.
type Object interface {
	Value
	isObject()
}

type Nil struct{}

type Bool bool

type Number float64

type String struct {
	Chars string
}

var (
	_ Value  = Nil{}
	_ Value  = Bool(false)
	_ Value  = Number(0)
	_ Object = new(String)
	_ Object = new(Function)
	_ Object = new(NativeFunc)
)

func (Nil) isValue()         {}
func (Bool) isValue()        {}
func (Number) isValue()      {}
func (*String) isValue()     {}
func (*Function) isValue()   {}
func (*NativeFunc) isValue() {}

func (*String) isObject()     {}
func (*Function) isObject()   {}
func (*NativeFunc) isObject() {}

func (Nil) String() string {
	return "nil"
}

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (s *String) String() string {
	return s.Chars
}

func NewString(s string) *String {
	return &String{
		Chars: s,
	}
}

// Truthy reports whether v counts as true in a condition.
// Only nil and false are falsey.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil, Nil:
		return false
	case Bool:
		return bool(v)
	}
	return true
}

func Equal(a, b Value) bool {
	switch a := a.(type) {
	case nil, Nil:
		switch b.(type) {
		case nil, Nil:
			return true
		}
		return false
	case Bool:
		b, ok := b.(Bool)
		return ok && a == b
	case Number:
		b, ok := b.(Number)
		return ok && a == b
	case *String:
		b, ok := b.(*String)
		return ok && a.Chars == b.Chars
	case *Function:
		b, ok := b.(*Function)
		return ok && a == b
	case *NativeFunc:
		b, ok := b.(*NativeFunc)
		return ok && a == b
	}
	return false
}

func TypeName(v Value) string {
	switch v.(type) {
	case nil, Nil:
		return "nil"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case *String:
		return "string"
	case *Function:
		return "function"
	case *NativeFunc:
		return "native function"
	}
	return "unknown"
}
