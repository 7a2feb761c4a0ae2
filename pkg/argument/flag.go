package argument

import (
	"github.com/argbind/argbind/pkg/cmdline"
	"github.com/argbind/argbind/pkg/convert"
)

// Flag binds a field to a named option that carries a typed value, despite
// the boolean-sounding name: a count, a path, a level. It differs from
// Option in its alias handling and its environment-variable fallback.
//
// Default resolution: an explicit default wins, else a value read from Env
// becomes the default, else the flag is required.
type Flag struct {
	Names []string
	// ExtraNames are additional aliases merged into the name set.
	ExtraNames []string
	Arity      Arity
	// Convert overrides the type-derived element converter.
	Convert convert.Converter
	// Default is the explicit default. nil means none.
	Default any
	// Env names the environment variable consulted for a fallback default.
	Env  string
	Help string
}

// NewFlag returns a flag with the given console names.
func NewFlag(names ...string) *Flag { return &Flag{Names: names} }

func (f *Flag) Register(prefix string, field Field, parser *cmdline.Parser, env Environment) error {
	def := f.Default
	if def == nil && f.Env != "" && env != nil {
		if v, ok := env(f.Env); ok {
			def = v
		}
	}
	names := append(append([]string{}, f.Names...), f.ExtraNames...)
	return parser.AddOption(cmdline.Option{
		Names:      consoleNames(names, field.Name),
		Dest:       prefix + field.Name,
		Arity:      f.Arity,
		Default:    def,
		HasDefault: def != nil,
		Required:   def == nil,
		Help:       f.Help,
	})
}

func (f *Flag) Extract(prefix string, field Field, res cmdline.Results) (any, error) {
	return convert.Resolve(field.Type, f.Convert).Coerce(res[prefix+field.Name])
}
