package container

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/argbind/argbind/pkg/convert"
)

// Instance is a reconstructed container: the converted value of every
// declared field, keyed by field name. Instances are built once at the end
// of extraction and read-only afterwards.
type Instance struct {
	container string
	values    map[string]any
}

// Container returns the name of the container this instance was built from.
func (i *Instance) Container() string { return i.container }

// Has reports whether the instance holds a value for name, nil included.
func (i *Instance) Has(name string) bool {
	_, ok := i.values[name]
	return ok
}

// Get returns the raw converted value for name, or nil.
func (i *Instance) Get(name string) any { return i.values[name] }

// String returns the field as a string. Path values render as their path.
func (i *Instance) String(name string) string {
	switch v := i.values[name].(type) {
	case string:
		return v
	case convert.Path:
		return v.String()
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the field as a bool, false when absent or not boolean.
func (i *Instance) Bool(name string) bool {
	b, _ := i.values[name].(bool)
	return b
}

// Int returns the field as an int, zero when absent or not an int.
func (i *Instance) Int(name string) int {
	n, _ := i.values[name].(int)
	return n
}

// Float returns the field as a float64, zero when absent or not a float.
func (i *Instance) Float(name string) float64 {
	f, _ := i.values[name].(float64)
	return f
}

// Path returns the field as a convert.Path.
func (i *Instance) Path(name string) convert.Path {
	p, _ := i.values[name].(convert.Path)
	return p
}

// Symbol returns the field as an enum symbol.
func (i *Instance) Symbol(name string) convert.Symbol {
	s, _ := i.values[name].(convert.Symbol)
	return s
}

// Slice returns a list-kind field's converted elements.
func (i *Instance) Slice(name string) []any {
	s, _ := i.values[name].([]any)
	return s
}

// Set returns a set-kind field's converted elements.
func (i *Instance) Set(name string) map[any]struct{} {
	s, _ := i.values[name].(map[any]struct{})
	return s
}

// Strings flattens a list-kind field whose elements stringify cleanly.
func (i *Instance) Strings(name string) []string {
	switch v := i.values[name].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, len(v))
		for idx, item := range v {
			out[idx] = fmt.Sprint(item)
		}
		return out
	default:
		return nil
	}
}

// Sub returns the nested instance a Command field selected.
func (i *Instance) Sub(name string) *Instance {
	sub, _ := i.values[name].(*Instance)
	return sub
}

// Values returns a copy of the field-name to value mapping.
func (i *Instance) Values() map[string]any {
	out := make(map[string]any, len(i.values))
	for k, v := range i.values {
		out[k] = v
	}
	return out
}

// Equal reports deep value equality between two instances, nested command
// instances included. go-cmp honors it when diffing instances in tests.
func (i *Instance) Equal(other *Instance) bool {
	if i == nil || other == nil {
		return i == other
	}
	return i.container == other.container && reflect.DeepEqual(i.values, other.values)
}

// GoString renders the instance for debugging, fields sorted by name.
func (i *Instance) GoString() string {
	names := make([]string, 0, len(i.values))
	for name := range i.values {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(i.container)
	b.WriteByte('(')
	for idx, name := range names {
		if idx > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%#v", name, i.values[name])
	}
	b.WriteByte(')')
	return b.String()
}
