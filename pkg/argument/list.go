package argument

import (
	"strings"

	"github.com/argbind/argbind/pkg/cmdline"
	"github.com/argbind/argbind/pkg/convert"
)

// List binds a field to a named option whose single raw value is a
// delimiter-joined string. Extraction splits on the delimiter, converts
// each piece and materializes a list or a set. An empty string produces an
// empty container, not a one-element container.
type List struct {
	Names []string
	// Delim defaults to ",".
	Delim string
	// Item converts one split piece. nil keeps the raw string.
	Item convert.Converter
	// AsSet materializes a set instead of a list.
	AsSet bool
	// Default is the raw joined string used when the option is absent.
	// nil means the option is required unless Env supplies a value.
	Default any
	Env     string
	Help    string
}

// NewList returns a comma-delimited list option.
func NewList(names ...string) *List { return &List{Names: names, Delim: ","} }

func (l *List) delimiter() string {
	if l.Delim == "" {
		return ","
	}
	return l.Delim
}

func (l *List) Register(prefix string, field Field, parser *cmdline.Parser, env Environment) error {
	def := l.Default
	if def == nil && l.Env != "" && env != nil {
		if v, ok := env(l.Env); ok {
			def = v
		}
	}
	return parser.AddOption(cmdline.Option{
		Names:      consoleNames(l.Names, field.Name),
		Dest:       prefix + field.Name,
		Default:    def,
		HasDefault: def != nil,
		Required:   def == nil,
		Help:       l.Help,
	})
}

func (l *List) Extract(prefix string, field Field, res cmdline.Results) (any, error) {
	raw := res[prefix+field.Name]

	coll := convert.ListKind
	if l.AsSet {
		coll = convert.SetKind
	}
	resolved := convert.Resolved{Elem: l.Item, Coll: coll}

	s, ok := raw.(string)
	if !ok {
		// nil becomes an empty container; an already-typed default passes
		// through coercion untouched.
		return resolved.Coerce(raw)
	}
	if s == "" {
		return resolved.Coerce(nil)
	}
	return resolved.Coerce(strings.Split(s, l.delimiter()))
}
