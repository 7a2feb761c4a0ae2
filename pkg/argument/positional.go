package argument

import (
	"github.com/argbind/argbind/pkg/cmdline"
	"github.com/argbind/argbind/pkg/convert"
)

// Positional binds a field to bare tokens consumed by position. The field
// name doubles as the display metavar; collection conversion is deferred to
// extraction so the tokenizer only ever sees raw strings.
type Positional struct {
	// Arity defaults to exactly one token.
	Arity Arity
	Help  string
	// Convert overrides the type-derived element converter.
	Convert convert.Converter
	// Default fills in when an Optional or ZeroOrMore positional got no
	// tokens. nil means no default.
	Default any
}

// NewPositional returns a required single-token positional.
func NewPositional() *Positional { return &Positional{} }

func (p *Positional) Register(prefix string, field Field, parser *cmdline.Parser, _ Environment) error {
	return parser.AddPositional(cmdline.Positional{
		Name:  field.Name,
		Dest:  prefix + field.Name,
		Arity: p.Arity,
		Help:  p.Help,
	})
}

func (p *Positional) Extract(prefix string, field Field, res cmdline.Results) (any, error) {
	raw := res[prefix+field.Name]
	if raw == nil && p.Default != nil {
		raw = p.Default
	}
	return convert.Resolve(field.Type, p.Convert).Coerce(raw)
}
