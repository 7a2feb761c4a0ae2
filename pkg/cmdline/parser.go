// Package cmdline tokenizes argument vectors against a registered option,
// positional and sub-command surface.
//
// The package is the tokenizing collaborator of the binding engine: callers
// register option specs keyed by destination, call Parse, and read raw
// values back out of a flat Results map. Flag definitions, usage rendering
// and the help sentinel come from spf13/pflag; the walk itself is custom
// because pflag has no notion of positionals or sub-command scopes.
package cmdline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// Arity says how many raw tokens one field consumes.
type Arity int

const (
	// One consumes exactly one token.
	One Arity = iota
	// Optional consumes one token when available.
	Optional
	// ZeroOrMore consumes any number of tokens.
	ZeroOrMore
	// OneOrMore consumes at least one token.
	OneOrMore
)

// Results maps destination keys to raw parsed values: a string, a []string,
// a bool, a registered default, or nil when nothing was supplied.
type Results map[string]any

// Option describes one named option registration.
type Option struct {
	// Names holds every console spelling, dashes included ("-r", "--root").
	Names      []string
	Dest       string
	Arity      Arity
	Default    any
	HasDefault bool
	Required   bool
	Choices    []string
	Help       string
	// Bool marks a presence-only option; BoolValue is stored on a hit.
	Bool      bool
	BoolValue bool
}

// Positional describes one positional registration.
type Positional struct {
	Name    string
	Dest    string
	Arity   Arity
	Metavar string
	Help    string
}

// UsageError reports malformed user input at the CLI boundary.
type UsageError struct {
	Parser string
	Msg    string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Parser, e.Msg)
}

// Parser is one registration scope: a set of options and positionals plus
// at most one sub-command group.
type Parser struct {
	name          string
	description   string
	errorHandling pflag.ErrorHandling
	out           io.Writer
	flags         *pflag.FlagSet
	options       []*Option
	byName        map[string]*Option
	positionals   []*Positional
	group         *CommandGroup
}

// New returns an empty parser scope. The default error handling mode is
// pflag.ExitOnError, mirroring standard CLI ergonomics.
func New(name string) *Parser {
	return &Parser{
		name:          name,
		errorHandling: pflag.ExitOnError,
		out:           os.Stderr,
		flags:         pflag.NewFlagSet(name, pflag.ContinueOnError),
		byName:        make(map[string]*Option),
	}
}

// Name returns the scope name used in usage and error text.
func (p *Parser) Name() string { return p.name }

// SetDescription sets the text printed under the usage line.
func (p *Parser) SetDescription(s string) { p.description = s }

// SetErrorHandling selects what Parse does on malformed input.
func (p *Parser) SetErrorHandling(h pflag.ErrorHandling) { p.errorHandling = h }

// SetOutput redirects usage and error text. Defaults to stderr.
func (p *Parser) SetOutput(w io.Writer) { p.out = w }

// Flags exposes the underlying pflag set for host customization.
func (p *Parser) Flags() *pflag.FlagSet { return p.flags }

// AddOption registers a named option. Every name must be unique within the
// scope.
func (p *Parser) AddOption(o Option) error {
	if len(o.Names) == 0 {
		return fmt.Errorf("option for %q has no console names", o.Dest)
	}
	opt := o
	for _, name := range opt.Names {
		if !strings.HasPrefix(name, "-") {
			return fmt.Errorf("option name %q must start with a dash", name)
		}
		if _, dup := p.byName[name]; dup {
			return fmt.Errorf("option name %q registered twice", name)
		}
	}
	for _, name := range opt.Names {
		p.byName[name] = &opt
	}
	p.options = append(p.options, &opt)
	p.defineUsageFlag(&opt)
	return nil
}

// defineUsageFlag mirrors the option into the pflag set so FlagUsages can
// render aligned help text. Values are never read back from the set.
func (p *Parser) defineUsageFlag(o *Option) {
	long, short := "", ""
	for _, name := range o.Names {
		switch {
		case strings.HasPrefix(name, "--") && long == "":
			long = strings.TrimPrefix(name, "--")
		case !strings.HasPrefix(name, "--") && len(name) == 2 && short == "":
			short = name[1:]
		}
	}
	if long == "" {
		// Short-only options render in Usage directly; pflag would print
		// the short spelling with a double dash.
		return
	}
	if p.flags.Lookup(long) != nil {
		return
	}
	help := o.Help
	if len(o.Choices) > 0 {
		help = fmt.Sprintf("%s (one of %s)", help, strings.Join(o.Choices, ", "))
	}
	if o.Bool {
		p.flags.BoolP(long, short, false, help)
		return
	}
	def := ""
	if o.HasDefault && o.Default != nil {
		def = fmt.Sprint(o.Default)
	}
	p.flags.StringP(long, short, def, help)
}

// AddPositional registers a positional token consumer. Registration order is
// the consumption order.
func (p *Parser) AddPositional(pos Positional) error {
	if pos.Name == "" {
		return errors.New("positional has no name")
	}
	if pos.Metavar == "" {
		pos.Metavar = strings.ToUpper(pos.Name)
	}
	p.positionals = append(p.positionals, &pos)
	return nil
}

// CommandGroup is a required, mutually-exclusive set of named branch scopes.
type CommandGroup struct {
	dest     string
	parent   *Parser
	order    []string
	branches map[string]*Parser
}

// AddCommandGroup registers the scope's sub-command choice point. A scope
// holds at most one group.
func (p *Parser) AddCommandGroup(dest string) (*CommandGroup, error) {
	if p.group != nil {
		return nil, fmt.Errorf("parser %q already has a command group", p.name)
	}
	p.group = &CommandGroup{
		dest:     dest,
		parent:   p,
		branches: make(map[string]*Parser),
	}
	return p.group, nil
}

// AddBranch creates the nested scope for one sub-command token.
func (g *CommandGroup) AddBranch(name string) (*Parser, error) {
	if _, dup := g.branches[name]; dup {
		return nil, fmt.Errorf("command %q registered twice", name)
	}
	child := New(g.parent.name + " " + name)
	child.errorHandling = g.parent.errorHandling
	child.out = g.parent.out
	g.branches[name] = child
	g.order = append(g.order, name)
	return child, nil
}

// Branches returns the branch names in registration order.
func (g *CommandGroup) Branches() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Parse tokenizes argv into a flat Results map. On malformed input the
// configured error handling applies: ExitOnError prints usage and
// terminates the process with status 2, ContinueOnError returns the error.
func (p *Parser) Parse(argv []string) (Results, error) {
	res := make(Results)
	if err := p.parseInto(argv, res); err != nil {
		return nil, p.fail(err)
	}
	return res, nil
}

func (p *Parser) fail(err error) error {
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprint(p.out, p.Usage())
		if p.errorHandling == pflag.ExitOnError {
			os.Exit(0)
		}
		return err
	}
	switch p.errorHandling {
	case pflag.ContinueOnError:
		return err
	case pflag.PanicOnError:
		panic(err)
	default:
		fmt.Fprintf(p.out, "error: %v\n%s", err, p.Usage())
		os.Exit(2)
		return err
	}
}

func (p *Parser) usageErrorf(format string, args ...any) error {
	return &UsageError{Parser: p.name, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) parseInto(argv []string, res Results) error {
	var posTokens []string
	provided := make(map[*Option]bool)
	destSet := make(map[string]bool)
	noMoreFlags := false
	dispatched := false

	i := 0
	for i < len(argv) {
		tok := argv[i]
		switch {
		case !noMoreFlags && tok == "--":
			noMoreFlags = true
			i++

		case !noMoreFlags && isFlagToken(tok):
			name, inline, hasInline := splitInline(tok)
			if name == "--help" || name == "-h" {
				if _, overridden := p.byName[name]; !overridden {
					return pflag.ErrHelp
				}
			}
			opt, ok := p.byName[name]
			if !ok {
				return p.usageErrorf("unknown option %s", name)
			}
			consumed, err := p.consumeOption(opt, name, inline, hasInline, argv, i, res)
			if err != nil {
				return err
			}
			provided[opt] = true
			destSet[opt.Dest] = true
			i = consumed

		default:
			if p.group != nil && len(posTokens) >= p.minPositionals() {
				if child, ok := p.group.branches[tok]; ok {
					res[p.group.dest] = tok
					if err := child.parseInto(argv[i+1:], res); err != nil {
						return err
					}
					dispatched = true
					i = len(argv)
					break
				}
			}
			posTokens = append(posTokens, tok)
			i++
		}
	}

	if err := p.distribute(posTokens, res); err != nil {
		return err
	}

	for _, opt := range p.options {
		if provided[opt] || destSet[opt.Dest] {
			continue
		}
		switch {
		case opt.Required:
			return p.usageErrorf("option %s is required", opt.Names[0])
		case opt.HasDefault:
			res[opt.Dest] = opt.Default
		default:
			if _, exists := res[opt.Dest]; !exists {
				res[opt.Dest] = nil
			}
		}
	}

	if p.group != nil && !dispatched {
		if _, exists := res[p.group.dest]; !exists {
			res[p.group.dest] = nil
		}
	}
	return nil
}

// consumeOption applies one option hit starting at argv[i] and returns the
// index of the next unconsumed token.
func (p *Parser) consumeOption(opt *Option, name, inline string, hasInline bool, argv []string, i int, res Results) (int, error) {
	if opt.Bool {
		if hasInline {
			return 0, p.usageErrorf("option %s does not take a value", name)
		}
		res[opt.Dest] = opt.BoolValue
		return i + 1, nil
	}

	var values []string
	next := i + 1
	switch {
	case hasInline:
		values = []string{inline}
	case opt.Arity == One:
		if next >= len(argv) {
			return 0, p.usageErrorf("option %s expects a value", name)
		}
		values = []string{argv[next]}
		next++
	case opt.Arity == Optional:
		if next < len(argv) && !isFlagToken(argv[next]) {
			values = []string{argv[next]}
			next++
		}
	default: // ZeroOrMore, OneOrMore
		for next < len(argv) && !isFlagToken(argv[next]) {
			values = append(values, argv[next])
			next++
		}
		if opt.Arity == OneOrMore && len(values) == 0 {
			return 0, p.usageErrorf("option %s expects at least one value", name)
		}
	}

	if len(opt.Choices) > 0 {
		for _, v := range values {
			if !contains(opt.Choices, v) {
				return 0, p.usageErrorf("option %s: invalid choice %q (choose from %s)",
					name, v, strings.Join(opt.Choices, ", "))
			}
		}
	}

	if opt.Arity == One || opt.Arity == Optional {
		// An Optional option given without a value stores nil, so callers
		// can tell a bare hit from an empty value.
		if len(values) == 0 {
			res[opt.Dest] = nil
		} else {
			res[opt.Dest] = values[0]
		}
	} else {
		prev, _ := res[opt.Dest].([]string)
		res[opt.Dest] = append(prev, values...)
	}
	return next, nil
}

// minPositionals is the number of tokens the scope's positionals require at
// minimum; a sub-command token is only recognized once that many bare
// tokens have been seen.
func (p *Parser) minPositionals() int {
	min := 0
	for _, pos := range p.positionals {
		if pos.Arity == One || pos.Arity == OneOrMore {
			min++
		}
	}
	return min
}

// distribute assigns collected bare tokens to positional specs in
// registration order. The first variadic spec takes every surplus token.
func (p *Parser) distribute(tokens []string, res Results) error {
	total := p.minPositionals()
	if len(tokens) < total {
		need := 0
		for _, pos := range p.positionals {
			if pos.Arity == One || pos.Arity == OneOrMore {
				need++
				if need > len(tokens) {
					return p.usageErrorf("missing required argument %s", pos.Metavar)
				}
			}
		}
		return p.usageErrorf("not enough arguments")
	}

	surplus := len(tokens) - total
	idx := 0
	for _, pos := range p.positionals {
		switch pos.Arity {
		case One:
			res[pos.Dest] = tokens[idx]
			idx++
		case Optional:
			if surplus > 0 {
				res[pos.Dest] = tokens[idx]
				idx++
				surplus--
			} else {
				res[pos.Dest] = nil
			}
		default: // ZeroOrMore, OneOrMore
			take := surplus
			if pos.Arity == OneOrMore {
				take++
			}
			out := make([]string, take)
			copy(out, tokens[idx:idx+take])
			res[pos.Dest] = out
			idx += take
			surplus = 0
		}
	}
	if idx < len(tokens) {
		return p.usageErrorf("unrecognized arguments: %s", strings.Join(tokens[idx:], " "))
	}
	return nil
}

// isFlagToken reports whether tok names an option. A lone dash and
// negative-number-looking tokens count as positional values.
func isFlagToken(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	c := tok[1]
	return !(c >= '0' && c <= '9') && c != '.'
}

// splitInline splits "--name=value" forms.
func splitInline(tok string) (name, value string, ok bool) {
	if eq := strings.IndexByte(tok, '='); eq > 0 {
		return tok[:eq], tok[eq+1:], true
	}
	return tok, "", false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
