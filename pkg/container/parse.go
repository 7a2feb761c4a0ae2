package container

import (
	"fmt"
	"io"
	"os"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/pflag"

	"github.com/argbind/argbind/pkg/argument"
	"github.com/argbind/argbind/pkg/cmdline"
)

// ParseOption customizes one parser build.
type ParseOption func(*parseConfig)

type parseConfig struct {
	program       string
	description   string
	env           argument.Environment
	errorHandling pflag.ErrorHandling
	output        io.Writer
	callbacks     []func(*cmdline.Parser)
}

// WithProgramName overrides the program name in usage text; defaults to
// the container name.
func WithProgramName(name string) ParseOption {
	return func(c *parseConfig) { c.program = name }
}

// WithDescription sets the description printed under the usage line.
func WithDescription(text string) ParseOption {
	return func(c *parseConfig) { c.description = text }
}

// WithEnvironment substitutes the environment lookup used for Flag and
// Switch defaults. Defaults to the process environment.
func WithEnvironment(env argument.Environment) ParseOption {
	return func(c *parseConfig) { c.env = env }
}

// WithErrorHandling selects what malformed input does. The default,
// pflag.ExitOnError, prints usage and terminates the process.
func WithErrorHandling(h pflag.ErrorHandling) ParseOption {
	return func(c *parseConfig) { c.errorHandling = h }
}

// WithOutput redirects usage and error text.
func WithOutput(w io.Writer) ParseOption {
	return func(c *parseConfig) { c.output = w }
}

// WithParserCallback registers a hook run against the built parser before
// parsing, for host customization of the underlying scope.
func WithParserCallback(cb func(*cmdline.Parser)) ParseOption {
	return func(c *parseConfig) { c.callbacks = append(c.callbacks, cb) }
}

func (c *Container) buildConfig(opts []ParseOption) *parseConfig {
	cfg := &parseConfig{
		program:       c.name,
		env:           argument.OSEnvironment,
		errorHandling: pflag.ExitOnError,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NewParser builds a tokenizer scope pre-configured with the container's
// full CLI surface, namespace prefixes included.
func (c *Container) NewParser(opts ...ParseOption) (*cmdline.Parser, error) {
	cfg := c.buildConfig(opts)
	p := cmdline.New(cfg.program)
	p.SetErrorHandling(cfg.errorHandling)
	if cfg.description != "" {
		p.SetDescription(cfg.description)
	}
	if cfg.output != nil {
		p.SetOutput(cfg.output)
	}
	if err := c.Register("", p, cfg.env); err != nil {
		return nil, err
	}
	for _, cb := range cfg.callbacks {
		cb(p)
	}
	return p, nil
}

// ParseArgs runs one complete parse pass: build the parser, pre-validate
// the raw vector, tokenize, and extract the typed instance. A nil argv
// parses the process's own argument list. Each call rebuilds the parser
// from scratch; no state is shared between calls.
func (c *Container) ParseArgs(argv []string, opts ...ParseOption) (*Instance, error) {
	if argv == nil {
		argv = os.Args[1:]
	}
	parser, err := c.NewParser(opts...)
	if err != nil {
		return nil, err
	}
	if err := c.PreValidate(argv); err != nil {
		return nil, err
	}
	res, err := parser.Parse(argv)
	if err != nil {
		return nil, err
	}
	out, err := c.Extract("", res)
	if err != nil {
		return nil, err
	}
	return out.(*Instance), nil
}

// ParseString splits one shell-quoted command line into an argument vector
// and parses it.
func (c *Container) ParseString(line string, opts ...ParseOption) (*Instance, error) {
	argv, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("split command line: %w", err)
	}
	return c.ParseArgs(argv, opts...)
}
