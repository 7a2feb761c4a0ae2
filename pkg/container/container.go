// Package container binds declared field tables to the command-line
// surface and reconstructs typed instances from parsed results.
//
// A Container is one level of CLI arguments: an ordered table of fields,
// each paired with an argument descriptor. Declaration order is
// load-bearing; positional registration order is observable in the
// generated usage text. Containers are write-once at definition time and
// read-only afterwards, so they are safe to share across concurrent parse
// calls.
package container

import (
	"fmt"

	"github.com/argbind/argbind/pkg/argument"
	"github.com/argbind/argbind/pkg/cmdline"
)

// Container is a declared record type whose fields describe one level of
// CLI arguments. It implements argument.Binder so it can nest inside a
// Command descriptor.
type Container struct {
	name   string
	fields []argument.Field
}

// New validates the declaration and returns the bound container. Fields
// without a descriptor become required single-token positionals.
func New(name string, fields ...argument.Field) (*Container, error) {
	if name == "" {
		return nil, &argument.DeclarationError{Container: name, Reason: "container has no name"}
	}
	bound := make([]argument.Field, len(fields))
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, &argument.DeclarationError{Container: name, Reason: "field has no name"}
		}
		if seen[f.Name] {
			return nil, &argument.DeclarationError{
				Container: name,
				Field:     f.Name,
				Reason:    "field declared twice",
			}
		}
		seen[f.Name] = true
		if f.Arg == nil {
			f.Arg = argument.NewPositional()
		}
		if checker, ok := f.Arg.(argument.DeclarationChecker); ok {
			if err := checker.CheckDeclaration(name, f); err != nil {
				return nil, err
			}
		}
		bound[i] = f
	}
	return &Container{name: name, fields: bound}, nil
}

// MustNew is New, panicking on declaration errors. Intended for
// package-level container definitions.
func MustNew(name string, fields ...argument.Field) *Container {
	c, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the container's declared name.
func (c *Container) Name() string { return c.name }

// Fields returns the field table in declaration order.
func (c *Container) Fields() []argument.Field {
	out := make([]argument.Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Register adds every field's CLI surface to the parser scope under the
// namespace prefix.
func (c *Container) Register(prefix string, parser *cmdline.Parser, env argument.Environment) error {
	for _, f := range c.fields {
		if err := f.Arg.Register(prefix, f, parser, env); err != nil {
			return fmt.Errorf("register %s.%s: %w", c.name, f.Name, err)
		}
	}
	return nil
}

// Extract reconstructs the container's instance from raw parsed results.
// The first failing field aborts the whole extraction; no partial instance
// is ever produced. The returned value is a *Instance.
func (c *Container) Extract(prefix string, res cmdline.Results) (any, error) {
	values := make(map[string]any, len(c.fields))
	for _, f := range c.fields {
		v, err := f.Arg.Extract(prefix, f, res)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", c.name, f.Name, err)
		}
		values[f.Name] = v
	}
	return &Instance{container: c.name, values: values}, nil
}

// PreValidate walks the declared fields over the raw argument vector before
// tokenization, recursing through the chosen sub-command branch, and
// rejects combinations the tokenizer would accept silently.
func (c *Container) PreValidate(argv []string) error {
	for _, f := range c.fields {
		if v, ok := f.Arg.(argument.Validator); ok {
			if err := v.Validate(c.name, f, argv); err != nil {
				return err
			}
		}
	}
	return nil
}
