package argument

import (
	"github.com/argbind/argbind/pkg/cmdline"
	"github.com/argbind/argbind/pkg/convert"
)

// Enum binds a field to a named option whose values are restricted to a
// fixed symbol set. A raw token is accepted as either a symbol name or its
// underlying value; anything else fails extraction with an error listing
// every allowed name.
type Enum struct {
	Enum  *convert.Enum
	Names []string
	// Default is a raw token or an already-resolved symbol. nil means the
	// option is required unless Env supplies a value.
	Default any
	Env     string
	Help    string
}

// NewEnum returns an enum option over the given symbol set.
func NewEnum(e *convert.Enum, names ...string) *Enum {
	return &Enum{Enum: e, Names: names}
}

func (e *Enum) CheckDeclaration(owner string, field Field) error {
	if e.Enum == nil || len(e.Enum.Symbols()) == 0 {
		return &DeclarationError{
			Container: owner,
			Field:     field.Name,
			Reason:    "enum argument has no symbols",
		}
	}
	return nil
}

func (e *Enum) Register(prefix string, field Field, parser *cmdline.Parser, env Environment) error {
	def := e.Default
	if def == nil && e.Env != "" && env != nil {
		if v, ok := env(e.Env); ok {
			def = v
		}
	}
	return parser.AddOption(cmdline.Option{
		Names:      consoleNames(e.Names, field.Name),
		Dest:       prefix + field.Name,
		Default:    def,
		HasDefault: def != nil,
		Required:   def == nil,
		Help:       e.Help,
	})
}

func (e *Enum) Extract(prefix string, field Field, res cmdline.Results) (any, error) {
	return convert.Resolve(field.Type, e.Enum.Converter()).Coerce(res[prefix+field.Name])
}
