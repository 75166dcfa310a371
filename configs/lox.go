package configs

import (
	"fmt"
	"math"
	"reflect"

	"github.com/reusee/dscope"
	"github.com/reusee/tailox/loxvm"
)

// LoxFork overrides every Configurable type in scope whose ConfigName is defined in globals.
func LoxFork(scope dscope.Scope, globals map[string]loxvm.Value) (ret dscope.Scope, err error) {
	var defs []any
	for t := range scope.AllTypes() {
		if !t.Implements(configurableType) {
			continue
		}
		name := reflect.Zero(t).Interface().(Configurable).ConfigName()
		value, ok := globals[name]
		if !ok {
			continue
		}
		converted, err := fromLoxValue(value, t)
		if err != nil {
			return scope, fmt.Errorf("config %s: %w", name, err)
		}
		ptr := reflect.New(t)
		ptr.Elem().Set(converted)
		defs = append(defs, ptr.Interface())
	}
	if len(defs) == 0 {
		return scope, nil
	}
	return scope.Fork(defs...), nil
}

func fromLoxValue(value loxvm.Value, t reflect.Type) (reflect.Value, error) {
	ret := reflect.New(t).Elem()
	switch t.Kind() {

	case reflect.Bool:
		ret.SetBool(loxvm.Truthy(value))
		return ret, nil

	case reflect.String:
		s, ok := value.(*loxvm.String)
		if !ok {
			return ret, fmt.Errorf("expecting string, got %s", loxvm.TypeName(value))
		}
		ret.SetString(s.Chars)
		return ret, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := value.(loxvm.Number)
		if !ok {
			return ret, fmt.Errorf("expecting number, got %s", loxvm.TypeName(value))
		}
		f := float64(n)
		if f != math.Trunc(f) || ret.OverflowInt(int64(f)) {
			return ret, fmt.Errorf("%v is not a valid %v", value, t)
		}
		ret.SetInt(int64(f))
		return ret, nil

	case reflect.Float32, reflect.Float64:
		n, ok := value.(loxvm.Number)
		if !ok {
			return ret, fmt.Errorf("expecting number, got %s", loxvm.TypeName(value))
		}
		ret.SetFloat(float64(n))
		return ret, nil

	}
	return ret, fmt.Errorf("unsupported config type: %v", t)
}
