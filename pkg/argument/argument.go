// Package argument defines the descriptor kinds a container field can carry
// and how each kind binds to the command-line surface.
//
// Every descriptor implements the same two-method capability: Register adds
// the field's CLI surface to a tokenizer scope under a namespace prefix, and
// Extract coerces the raw parsed value for that field back into a typed
// value. The set of kinds is closed: Positional, Option, Flag, Switch,
// Enum, List and Command.
package argument

import (
	"os"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/argbind/argbind/pkg/cmdline"
	"github.com/argbind/argbind/pkg/convert"
)

// Arity re-exports the tokenizer's token-count specifier.
type Arity = cmdline.Arity

const (
	One        = cmdline.One
	Optional   = cmdline.Optional
	ZeroOrMore = cmdline.ZeroOrMore
	OneOrMore  = cmdline.OneOrMore
)

// Environment looks up an environment variable. Injectable so tests can
// substitute a fake without touching process-wide state.
type Environment func(key string) (string, bool)

// OSEnvironment reads the process environment.
func OSEnvironment(key string) (string, bool) { return os.LookupEnv(key) }

// Field is one declared container field: a name, a declared type expression
// and the descriptor that binds it. A nil Type passes raw strings through
// unconverted; a nil Arg is treated as a required positional.
type Field struct {
	Name string
	Type *convert.Spec
	Arg  Descriptor
}

// Descriptor is the shared capability of every argument kind.
type Descriptor interface {
	// Register adds the field's CLI surface to the parser scope. Destination
	// keys are prefixed with prefix to stay collision-free across nested
	// command trees.
	Register(prefix string, field Field, parser *cmdline.Parser, env Environment) error
	// Extract coerces the field's raw parsed value into its typed value.
	Extract(prefix string, field Field, res cmdline.Results) (any, error)
}

// Validator is implemented by descriptors that take part in the pre-parse
// validation pass over the raw argument vector.
type Validator interface {
	Validate(owner string, field Field, argv []string) error
}

// DeclarationChecker is implemented by descriptors that can reject their
// configuration at container-definition time.
type DeclarationChecker interface {
	CheckDeclaration(owner string, field Field) error
}

// Binder is one level of bound container surface. The container package
// implements it; the Command descriptor consumes it. The indirection is
// what lets sub-command trees nest containers inside descriptors.
type Binder interface {
	Name() string
	Register(prefix string, parser *cmdline.Parser, env Environment) error
	Extract(prefix string, res cmdline.Results) (any, error)
	PreValidate(argv []string) error
}

// consoleName converts a field name into its CLI spelling.
func consoleName(name string) string {
	return strcase.ToKebab(name)
}

// consoleNames normalizes explicit option names and appends the derived
// long option when no explicit name is a long one.
func consoleNames(explicit []string, fieldName string) []string {
	names := make([]string, 0, len(explicit)+1)
	for _, name := range explicit {
		if !strings.HasPrefix(name, "-") {
			name = "--" + name
		}
		names = append(names, name)
	}
	hasLong := false
	for _, name := range names {
		if strings.HasPrefix(name, "--") {
			hasLong = true
			break
		}
	}
	if !hasLong {
		names = append(names, "--"+consoleName(fieldName))
	}
	return names
}
