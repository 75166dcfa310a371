package configs

import "reflect"

// Configurable is implemented by setting types that a config script may override.
// ConfigName is the global variable name the script assigns.
type Configurable interface {
	ConfigName() string
}

var configurableType = reflect.TypeFor[Configurable]()
