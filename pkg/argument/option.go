package argument

import (
	"github.com/argbind/argbind/pkg/cmdline"
	"github.com/argbind/argbind/pkg/convert"
)

// Option binds a field to a named, value-consuming option. When no explicit
// name is given the long option is derived from the field name. The option
// is required exactly when it has no default and no Required override.
type Option struct {
	Names []string
	Arity Arity
	// Convert overrides the type-derived element converter.
	Convert convert.Converter
	// Default is the raw default value; it runs through the same coercion
	// as parsed tokens. nil means no default.
	Default any
	// Required overrides the derived required-ness when non-nil.
	Required *bool
	// Choices restricts accepted raw values; the tokenizer rejects others.
	Choices []string
	Help    string
}

// NewOption returns an option with the given console names.
func NewOption(names ...string) *Option { return &Option{Names: names} }

func (o *Option) Register(prefix string, field Field, parser *cmdline.Parser, _ Environment) error {
	required := o.Default == nil
	if o.Required != nil {
		required = *o.Required
	}
	return parser.AddOption(cmdline.Option{
		Names:      consoleNames(o.Names, field.Name),
		Dest:       prefix + field.Name,
		Arity:      o.Arity,
		Default:    o.Default,
		HasDefault: o.Default != nil,
		Required:   required,
		Choices:    o.Choices,
		Help:       o.Help,
	})
}

func (o *Option) Extract(prefix string, field Field, res cmdline.Results) (any, error) {
	return convert.Resolve(field.Type, o.Convert).Coerce(res[prefix+field.Name])
}
