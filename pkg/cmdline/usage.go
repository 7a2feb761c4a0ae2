package cmdline

import (
	"fmt"
	"strings"
)

// Usage renders the generated help text for the scope: a usage line, the
// description, the flag table from pflag, positional metavars and the
// available sub-commands.
func (p *Parser) Usage() string {
	var b strings.Builder

	b.WriteString("usage: ")
	b.WriteString(p.name)
	if len(p.options) > 0 {
		b.WriteString(" [options]")
	}
	for _, pos := range p.positionals {
		b.WriteByte(' ')
		b.WriteString(positionalMetavar(pos))
	}
	if p.group != nil {
		b.WriteString(" {")
		b.WriteString(strings.Join(p.group.Branches(), ","))
		b.WriteString("} ...")
	}
	b.WriteByte('\n')

	if p.description != "" {
		b.WriteByte('\n')
		b.WriteString(p.description)
		b.WriteByte('\n')
	}

	if len(p.positionals) > 0 {
		b.WriteString("\narguments:\n")
		for _, pos := range p.positionals {
			fmt.Fprintf(&b, "  %-24s %s\n", positionalMetavar(pos), pos.Help)
		}
	}

	usages := p.flags.FlagUsages()
	shortOnly := p.shortOnlyUsages()
	if usages != "" || shortOnly != "" {
		b.WriteString("\noptions:\n")
		b.WriteString(usages)
		b.WriteString(shortOnly)
	}

	if p.group != nil {
		b.WriteString("\ncommands:\n")
		for _, name := range p.group.Branches() {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}
	return b.String()
}

// shortOnlyUsages renders the options pflag cannot: those with no long
// spelling.
func (p *Parser) shortOnlyUsages() string {
	var b strings.Builder
	for _, o := range p.options {
		if hasLongName(o) {
			continue
		}
		spelling := strings.Join(o.Names, ", ")
		if !o.Bool {
			spelling += " value"
		}
		fmt.Fprintf(&b, "  %-20s %s\n", spelling, o.Help)
	}
	return b.String()
}

func hasLongName(o *Option) bool {
	for _, name := range o.Names {
		if strings.HasPrefix(name, "--") {
			return true
		}
	}
	return false
}

func positionalMetavar(pos *Positional) string {
	switch pos.Arity {
	case Optional:
		return "[" + pos.Metavar + "]"
	case ZeroOrMore:
		return "[" + pos.Metavar + "...]"
	case OneOrMore:
		return pos.Metavar + "..."
	default:
		return pos.Metavar
	}
}
