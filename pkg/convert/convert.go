// Package convert resolves declared field types into value converters.
//
// A field declares its type as a Spec: a concrete converter, a named forward
// reference, a parameterized collection, or a union. Resolution is
// best-effort and never fails; a type that cannot be resolved simply yields
// no converter and the raw string is passed through unchanged.
package convert

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Converter turns one raw string token into a typed value.
type Converter func(raw string) (any, error)

// Collection identifies the container kind a resolved type materializes.
type Collection int

const (
	NoCollection Collection = iota
	ListKind
	SetKind
	TupleKind
)

// Path is the converted form of filesystem path arguments.
type Path string

func (p Path) String() string { return string(p) }

// Spec is a declared type expression. Exactly one representation is set.
type Spec struct {
	name  string
	conv  Converter
	elem  *Spec
	coll  Collection
	union []*Spec
}

// Name declares an unresolved forward reference, e.g. "int" or "list[path]".
func Name(name string) *Spec { return &Spec{name: name} }

// Func declares a concrete type by its converter function.
func Func(fn Converter) *Spec { return &Spec{conv: fn} }

// ListOf declares a list whose elements have type elem.
func ListOf(elem *Spec) *Spec { return &Spec{coll: ListKind, elem: elem} }

// SetOf declares a set whose elements have type elem.
func SetOf(elem *Spec) *Spec { return &Spec{coll: SetKind, elem: elem} }

// TupleOf declares a fixed sequence whose elements have type elem.
func TupleOf(elem *Spec) *Spec { return &Spec{coll: TupleKind, elem: elem} }

// Union declares an ambiguous type; no converter is ever produced for it.
func Union(members ...*Spec) *Spec { return &Spec{union: members} }

// Predeclared specs for the built-in scalar types.
var (
	String   = Func(func(s string) (any, error) { return s, nil })
	Int      = Func(intConverter)
	Float    = Func(floatConverter)
	Bool     = Func(boolConverter)
	Bytes    = Func(func(s string) (any, error) { return []byte(s), nil })
	PathType = Func(func(s string) (any, error) { return Path(s), nil })
)

func intConverter(s string) (any, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	return v, nil
}

func floatConverter(s string) (any, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

func boolConverter(s string) (any, error) {
	switch strings.ToLower(s) {
	case "1", "t", "true", "yes", "on":
		return true, nil
	case "0", "f", "false", "no", "off":
		return false, nil
	}
	return nil, fmt.Errorf("not a boolean: %q", s)
}

// Resolved is the outcome of type resolution: an element converter (nil
// means pass the raw value through) and the collection kind to build.
type Resolved struct {
	Elem Converter
	Coll Collection
}

// Resolver maps forward-referenced type names to specs.
type Resolver struct {
	names map[string]*Spec
}

// NewResolver returns a resolver seeded with the built-in name registry.
func NewResolver() *Resolver {
	r := &Resolver{names: make(map[string]*Spec)}
	r.RegisterName("int", Int)
	r.RegisterName("float", Float)
	r.RegisterName("bool", Bool)
	r.RegisterName("str", String)
	r.RegisterName("bytes", Bytes)
	r.RegisterName("bytearray", Bytes)
	r.RegisterName("path", PathType)
	r.RegisterName("Path", PathType)
	r.RegisterName("list", ListOf(nil))
	r.RegisterName("tuple", TupleOf(nil))
	r.RegisterName("set", SetOf(nil))
	r.RegisterName("frozenset", SetOf(nil))
	return r
}

// RegisterName makes spec visible to forward-reference resolution as name.
func (r *Resolver) RegisterName(name string, spec *Spec) {
	r.names[name] = spec
}

// Resolve turns a declared type into a Resolved strategy. An explicit
// converter always wins over the type-derived element converter. Resolve
// never fails; unknown types degrade to pass-through.
func (r *Resolver) Resolve(spec *Spec, explicit Converter) Resolved {
	res := r.resolve(spec, 0)
	if explicit != nil {
		res.Elem = explicit
	}
	return res
}

const maxResolveDepth = 8

func (r *Resolver) resolve(spec *Spec, depth int) Resolved {
	if spec == nil || depth > maxResolveDepth {
		return Resolved{}
	}
	switch {
	case spec.union != nil:
		// Ambiguous; cannot pick one member's converter.
		return Resolved{}
	case spec.conv != nil:
		return Resolved{Elem: spec.conv}
	case spec.coll != NoCollection:
		inner := r.resolve(spec.elem, depth+1)
		return Resolved{Elem: inner.Elem, Coll: spec.coll}
	case spec.name != "":
		return r.resolveName(spec.name, depth)
	}
	return Resolved{}
}

// resolveName implements the fallback ladder for string annotations: exact
// registry match, then bracketed collection syntax, then a best-effort
// prefix match, then pass-through.
func (r *Resolver) resolveName(name string, depth int) Resolved {
	if found, ok := r.names[name]; ok {
		return r.resolve(found, depth+1)
	}
	if base, inner, ok := splitBrackets(name); ok {
		outer := r.resolveName(base, depth+1)
		if outer.Coll != NoCollection {
			outer.Elem = r.resolveName(inner, depth+1).Elem
			return outer
		}
	}
	if found, ok := r.prefixMatch(name); ok {
		return r.resolve(found, depth+1)
	}
	return Resolved{}
}

// prefixMatch checks registered keywords against the start of name, longest
// keyword first so "frozenset" is not shadowed by "set".
func (r *Resolver) prefixMatch(name string) (*Spec, bool) {
	keys := make([]string, 0, len(r.names))
	for k := range r.names {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		if strings.HasPrefix(name, k) {
			return r.names[k], true
		}
	}
	return nil, false
}

func splitBrackets(name string) (base, inner string, ok bool) {
	open := strings.IndexByte(name, '[')
	if open <= 0 || !strings.HasSuffix(name, "]") {
		return "", "", false
	}
	return name[:open], name[open+1 : len(name)-1], true
}

var defaultResolver = NewResolver()

// Resolve resolves spec against the default resolver.
func Resolve(spec *Spec, explicit Converter) Resolved {
	return defaultResolver.Resolve(spec, explicit)
}

// ConversionError reports a raw value an element converter rejected.
type ConversionError struct {
	Value any
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert argument value %v: %v", e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Coerce applies the resolved strategy to a raw parsed value. Raw may be
// nil, a single string, an already-typed default, or a slice of strings.
// When a collection kind is set, nil produces an empty container.
func (r Resolved) Coerce(raw any) (any, error) {
	if r.Coll == NoCollection {
		return r.coerceScalar(raw)
	}

	var items []any
	switch v := raw.(type) {
	case nil:
		items = nil
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	case []any:
		items = v
	default:
		items = []any{v}
	}

	converted := make([]any, 0, len(items))
	for _, item := range items {
		out, err := r.applyElem(item)
		if err != nil {
			return nil, err
		}
		converted = append(converted, out)
	}

	switch r.Coll {
	case SetKind:
		set := make(map[any]struct{}, len(converted))
		for _, item := range converted {
			set[item] = struct{}{}
		}
		return set, nil
	default:
		return converted, nil
	}
}

func (r Resolved) coerceScalar(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		// Multi-valued field with a scalar declared type: convert per item.
		out := make([]any, len(v))
		for i, s := range v {
			item, err := r.applyElem(s)
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	default:
		return r.applyElem(raw)
	}
}

// applyElem converts a single item. Only raw strings are converted; values
// that are already typed (defaults, booleans from switches) pass through.
func (r Resolved) applyElem(item any) (any, error) {
	s, ok := item.(string)
	if !ok || r.Elem == nil {
		return item, nil
	}
	out, err := r.Elem(s)
	if err != nil {
		return nil, &ConversionError{Value: s, Err: err}
	}
	return out, nil
}
