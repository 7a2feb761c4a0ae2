package convert

import (
	"fmt"
	"strings"
)

// Symbol is one member of an enumeration: a declared name plus the value it
// stands for.
type Symbol struct {
	Name  string
	Value any
}

// Enum is a fixed symbol set usable as an argument type. A raw token is
// accepted when it matches either a symbol's name or its underlying value.
type Enum struct {
	name    string
	symbols []Symbol
}

// NewEnum builds an enumeration named name over the given symbols.
func NewEnum(name string, symbols ...Symbol) *Enum {
	return &Enum{name: name, symbols: symbols}
}

// Name returns the enumeration's declared name.
func (e *Enum) Name() string { return e.name }

// Symbols returns the members in declaration order.
func (e *Enum) Symbols() []Symbol {
	out := make([]Symbol, len(e.symbols))
	copy(out, e.symbols)
	return out
}

// Names returns the member names in declaration order.
func (e *Enum) Names() []string {
	names := make([]string, len(e.symbols))
	for i, s := range e.symbols {
		names[i] = s.Name
	}
	return names
}

// Lookup finds the symbol matching token by name first, then by the string
// form of its underlying value.
func (e *Enum) Lookup(token string) (Symbol, bool) {
	for _, s := range e.symbols {
		if s.Name == token {
			return s, true
		}
	}
	for _, s := range e.symbols {
		if fmt.Sprint(s.Value) == token {
			return s, true
		}
	}
	return Symbol{}, false
}

// Converter returns the element converter for the enumeration. Unrecognized
// tokens fail with an error listing every allowed name.
func (e *Enum) Converter() Converter {
	return func(raw string) (any, error) {
		if sym, ok := e.Lookup(raw); ok {
			return sym, nil
		}
		return nil, fmt.Errorf("invalid %s value %q (choose from %s)",
			e.name, raw, strings.Join(e.Names(), ", "))
	}
}

// Spec returns a type spec whose converter is the enumeration converter.
func (e *Enum) Spec() *Spec { return Func(e.Converter()) }
