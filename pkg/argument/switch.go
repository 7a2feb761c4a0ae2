package argument

import (
	"strconv"

	"github.com/argbind/argbind/pkg/cmdline"
)

// Switch binds a field to a true boolean on/off pair: --name sets true,
// --no-name sets false, both writing the same destination. The default
// resolves from Env when configured, else from Default.
//
// Use NewSwitch; a zero Switch registers no options and is rejected at
// declaration time.
type Switch struct {
	// Name overrides the console name derived from the field name.
	Name    string
	Enable  bool
	Disable bool
	Default bool
	// Env names the environment variable consulted for the default; its
	// value is parsed as a boolean and ignored when malformed.
	Env  string
	Help string
	// HelpSuffix completes the generated "Enable ..."/"Disable ..." help
	// when Help is empty. Defaults to the console name.
	HelpSuffix string
}

// NewSwitch returns a switch with both directions active and a false
// default.
func NewSwitch() *Switch { return &Switch{Enable: true, Disable: true} }

func (s *Switch) consoleName(field Field) string {
	if s.Name != "" {
		return s.Name
	}
	return consoleName(field.Name)
}

// EnableOption returns the console token that sets the field true.
func (s *Switch) EnableOption(field Field) string { return "--" + s.consoleName(field) }

// DisableOption returns the console token that sets the field false.
func (s *Switch) DisableOption(field Field) string { return "--no-" + s.consoleName(field) }

func (s *Switch) CheckDeclaration(owner string, field Field) error {
	if !s.Enable && !s.Disable {
		return &DeclarationError{
			Container: owner,
			Field:     field.Name,
			Reason:    "switch has neither direction active",
		}
	}
	return nil
}

func (s *Switch) help(direction, suffix string) string {
	if s.Help != "" {
		return s.Help
	}
	return direction + " " + suffix
}

func (s *Switch) Register(prefix string, field Field, parser *cmdline.Parser, env Environment) error {
	def := s.Default
	if s.Env != "" && env != nil {
		if v, ok := env(s.Env); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				def = b
			}
		}
	}

	suffix := s.HelpSuffix
	if suffix == "" {
		suffix = s.consoleName(field)
	}
	dest := prefix + field.Name

	if s.Enable {
		err := parser.AddOption(cmdline.Option{
			Names:      []string{s.EnableOption(field)},
			Dest:       dest,
			Bool:       true,
			BoolValue:  true,
			Default:    def,
			HasDefault: true,
			Help:       s.help("Enable", suffix),
		})
		if err != nil {
			return err
		}
	}
	if s.Disable {
		err := parser.AddOption(cmdline.Option{
			Names:      []string{s.DisableOption(field)},
			Dest:       dest,
			Bool:       true,
			BoolValue:  false,
			Default:    def,
			HasDefault: true,
			Help:       s.help("Disable", suffix),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Switch) Extract(prefix string, field Field, res cmdline.Results) (any, error) {
	if b, ok := res[prefix+field.Name].(bool); ok {
		return b, nil
	}
	return s.Default, nil
}

// Validate rejects argument vectors that name both directions of the
// switch. The tokenizer would silently apply last-wins semantics, hiding
// the usage mistake.
func (s *Switch) Validate(owner string, field Field, argv []string) error {
	if !s.Enable || !s.Disable {
		return nil
	}
	enable, disable := s.EnableOption(field), s.DisableOption(field)
	if containsToken(argv, enable) && containsToken(argv, disable) {
		return &ConflictError{
			Container:     owner,
			EnableOption:  enable,
			DisableOption: disable,
		}
	}
	return nil
}

func containsToken(argv []string, tok string) bool {
	for _, a := range argv {
		if a == tok {
			return true
		}
	}
	return false
}
