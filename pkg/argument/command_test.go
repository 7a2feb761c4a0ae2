package argument

import (
	"errors"
	"reflect"
	"testing"

	"github.com/argbind/argbind/pkg/cmdline"
)

// stubBinder records the prefixes and vectors the Command descriptor hands
// to its branches.
type stubBinder struct {
	name       string
	registered []string
	extracted  []string
	validated  [][]string
}

func (s *stubBinder) Name() string { return s.name }

func (s *stubBinder) Register(prefix string, parser *cmdline.Parser, _ Environment) error {
	s.registered = append(s.registered, prefix)
	return nil
}

func (s *stubBinder) Extract(prefix string, _ cmdline.Results) (any, error) {
	s.extracted = append(s.extracted, prefix)
	return s.name, nil
}

func (s *stubBinder) PreValidate(argv []string) error {
	s.validated = append(s.validated, argv)
	return nil
}

func TestCommandRegisterNestsPrefixes(t *testing.T) {
	build := &stubBinder{name: "build"}
	clean := &stubBinder{name: "clean"}
	cmd := NewCommand(
		Branch{Name: "build", Container: build},
		Branch{Name: "clean", Container: clean},
	)
	field := Field{Name: "command"}

	scope := newScope(t)
	if err := cmd.Register("ws-", field, scope, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// Every branch registers under the extended, strictly longer prefix.
	for _, b := range []*stubBinder{build, clean} {
		if !reflect.DeepEqual(b.registered, []string{"ws-command-"}) {
			t.Errorf("%s registered under %v, want [ws-command-]", b.name, b.registered)
		}
	}
}

func TestCommandExtractDelegates(t *testing.T) {
	build := &stubBinder{name: "build"}
	cmd := NewCommand(Branch{Name: "build", Container: build})
	field := Field{Name: "command"}

	got, err := cmd.Extract("", field, cmdline.Results{"command": "build"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "build" {
		t.Errorf("Extract = %v, want build", got)
	}
	if !reflect.DeepEqual(build.extracted, []string{"command-"}) {
		t.Errorf("branch extracted under %v, want [command-]", build.extracted)
	}
}

func TestCommandSelectionRequired(t *testing.T) {
	cmd := NewCommand(Branch{Name: "build", Container: &stubBinder{name: "build"}})
	field := Field{Name: "command"}

	_, err := cmd.Extract("", field, cmdline.Results{"command": nil})
	var sel *SelectionError
	if !errors.As(err, &sel) {
		t.Fatalf("error %v is not a SelectionError", err)
	}
	if !errors.Is(err, ErrInvalidArguments) {
		t.Error("selection error does not match ErrInvalidArguments")
	}
}

func TestCommandValidateFollowsFirstBranchToken(t *testing.T) {
	build := &stubBinder{name: "build"}
	clean := &stubBinder{name: "clean"}
	cmd := NewCommand(
		Branch{Name: "build", Container: build},
		Branch{Name: "clean", Container: clean},
	)
	field := Field{Name: "command"}

	if err := cmd.Validate("ws", field, []string{"root", "build", "--force"}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !reflect.DeepEqual(build.validated, [][]string{{"--force"}}) {
		t.Errorf("build validated with %v, want [[--force]]", build.validated)
	}
	if len(clean.validated) != 0 {
		t.Errorf("clean validated with %v, want nothing", clean.validated)
	}

	// No branch token anywhere: nothing to recurse into.
	if err := cmd.Validate("ws", field, []string{"root"}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestCommandExtraBranches(t *testing.T) {
	build := &stubBinder{name: "build"}
	zeta := &stubBinder{name: "zeta"}
	alpha := &stubBinder{name: "alpha"}
	cmd := NewCommand(Branch{Name: "build", Container: build}).
		WithExtra(map[string]Binder{"zeta": zeta, "alpha": alpha})

	ordered := cmd.ordered()
	gotNames := make([]string, len(ordered))
	for i, br := range ordered {
		gotNames[i] = br.Name
	}
	// Declared branches first, extra ones after in sorted order.
	if !reflect.DeepEqual(gotNames, []string{"build", "alpha", "zeta"}) {
		t.Errorf("ordered = %v, want [build alpha zeta]", gotNames)
	}
}

func TestCommandDeclarationChecks(t *testing.T) {
	build := &stubBinder{name: "build"}
	field := Field{Name: "command"}

	tests := []struct {
		name string
		cmd  *Command
	}{
		{
			name: "reserved overflow key",
			cmd: NewCommand(Branch{Name: "extra", Container: build}).
				WithExtra(map[string]Binder{"other": build}),
		},
		{
			name: "duplicate branch",
			cmd: NewCommand(
				Branch{Name: "build", Container: build},
				Branch{Name: "build", Container: build},
			),
		},
		{
			name: "branch without container",
			cmd:  NewCommand(Branch{Name: "build"}),
		},
		{
			name: "extra colliding with declared",
			cmd: NewCommand(Branch{Name: "build", Container: build}).
				WithExtra(map[string]Binder{"build": build}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.CheckDeclaration("ws", field)
			var decl *DeclarationError
			if !errors.As(err, &decl) {
				t.Fatalf("error %v is not a DeclarationError", err)
			}
		})
	}
}
