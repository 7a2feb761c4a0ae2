package argument

import (
	"sort"

	"github.com/argbind/argbind/pkg/cmdline"
)

// extraKey is the reserved overflow key for dynamically supplied branches.
const extraKey = "extra"

// Branch names one sub-command and the container bound to it.
type Branch struct {
	Name      string
	Container Binder
}

// Command binds a field to a required, mutually-exclusive sub-command
// choice. Each branch registers its container's fields recursively under
// the extended namespace prefix, and extraction delegates to the selected
// branch, producing a nested container instance.
type Command struct {
	branches []Branch
	extra    map[string]Binder
}

// NewCommand returns a command over the given branches, in order.
func NewCommand(branches ...Branch) *Command {
	return &Command{branches: branches}
}

// WithExtra merges dynamically assembled branches under the reserved
// overflow key. Collisions with declared branches are rejected at
// declaration time rather than merged.
func (c *Command) WithExtra(extra map[string]Binder) *Command {
	c.extra = extra
	return c
}

func (c *Command) CheckDeclaration(owner string, field Field) error {
	seen := make(map[string]bool, len(c.branches))
	for _, br := range c.branches {
		if br.Name == extraKey && c.extra != nil {
			return &DeclarationError{
				Container: owner,
				Field:     field.Name,
				Reason:    "extra is not allowed as a command name; supply overflow branches through WithExtra",
			}
		}
		if br.Container == nil {
			return &DeclarationError{
				Container: owner,
				Field:     field.Name,
				Reason:    "command branch " + br.Name + " has no container",
			}
		}
		if seen[br.Name] {
			return &DeclarationError{
				Container: owner,
				Field:     field.Name,
				Reason:    "command branch " + br.Name + " declared twice",
			}
		}
		seen[br.Name] = true
	}
	for name, b := range c.extra {
		if seen[name] {
			return &DeclarationError{
				Container: owner,
				Field:     field.Name,
				Reason:    "command branch " + name + " declared both directly and as extra",
			}
		}
		if b == nil {
			return &DeclarationError{
				Container: owner,
				Field:     field.Name,
				Reason:    "extra command branch " + name + " has no container",
			}
		}
	}
	return nil
}

// ordered returns every branch: declared ones in declaration order, extra
// ones after, sorted by name for a stable CLI surface.
func (c *Command) ordered() []Branch {
	out := make([]Branch, 0, len(c.branches)+len(c.extra))
	out = append(out, c.branches...)
	extraNames := make([]string, 0, len(c.extra))
	for name := range c.extra {
		extraNames = append(extraNames, name)
	}
	sort.Strings(extraNames)
	for _, name := range extraNames {
		out = append(out, Branch{Name: name, Container: c.extra[name]})
	}
	return out
}

func (c *Command) lookup(name string) (Binder, bool) {
	for _, br := range c.branches {
		if br.Name == name {
			return br.Container, true
		}
	}
	b, ok := c.extra[name]
	return b, ok
}

func (c *Command) Register(prefix string, field Field, parser *cmdline.Parser, env Environment) error {
	if err := c.CheckDeclaration(parser.Name(), field); err != nil {
		return err
	}
	group, err := parser.AddCommandGroup(prefix + field.Name)
	if err != nil {
		return err
	}
	childPrefix := prefix + field.Name + "-"
	for _, br := range c.ordered() {
		scope, err := group.AddBranch(br.Name)
		if err != nil {
			return err
		}
		if err := br.Container.Register(childPrefix, scope, env); err != nil {
			return err
		}
	}
	return nil
}

func (c *Command) Extract(prefix string, field Field, res cmdline.Results) (any, error) {
	selected, _ := res[prefix+field.Name].(string)
	if selected == "" {
		return nil, &SelectionError{Field: field.Name}
	}
	branch, ok := c.lookup(selected)
	if !ok {
		return nil, &SelectionError{Field: field.Name}
	}
	return branch.Extract(prefix+field.Name+"-", res)
}

// Validate follows the chosen branch by scanning the raw vector for the
// first branch whose name token literally appears. This is a linear scan,
// not a parse: a positional value that happens to equal a branch name can
// misdirect it. The approximation is deliberate and documented.
func (c *Command) Validate(_ string, _ Field, argv []string) error {
	for _, br := range c.ordered() {
		for i, tok := range argv {
			if tok == br.Name {
				return br.Container.PreValidate(argv[i+1:])
			}
		}
	}
	return nil
}
