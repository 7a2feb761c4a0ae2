package convert

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestResolveLadder(t *testing.T) {
	explicit := func(s string) (any, error) { return "explicit:" + s, nil }

	tests := []struct {
		name     string
		spec     *Spec
		explicit Converter
		wantColl Collection
		wantElem bool
	}{
		{name: "nil spec passes through", spec: nil, wantColl: NoCollection, wantElem: false},
		{name: "explicit always wins", spec: Int, explicit: explicit, wantColl: NoCollection, wantElem: true},
		{name: "concrete converter", spec: Int, wantColl: NoCollection, wantElem: true},
		{name: "named builtin", spec: Name("int"), wantColl: NoCollection, wantElem: true},
		{name: "named collection", spec: Name("list"), wantColl: ListKind, wantElem: false},
		{name: "bracketed element", spec: Name("list[path]"), wantColl: ListKind, wantElem: true},
		{name: "prefix heuristic", spec: Name("list[str] | None"), wantColl: ListKind, wantElem: false},
		{name: "frozenset not shadowed by set", spec: Name("frozenset"), wantColl: SetKind, wantElem: false},
		{name: "unknown name passes through", spec: Name("Unknown"), wantColl: NoCollection, wantElem: false},
		{name: "union passes through", spec: Union(Int, String), wantColl: NoCollection, wantElem: false},
		{name: "parameterized set", spec: SetOf(PathType), wantColl: SetKind, wantElem: true},
		{name: "tuple of int", spec: TupleOf(Int), wantColl: TupleKind, wantElem: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.spec, tt.explicit)
			if got.Coll != tt.wantColl {
				t.Errorf("collection = %v, want %v", got.Coll, tt.wantColl)
			}
			if (got.Elem != nil) != tt.wantElem {
				t.Errorf("element converter present = %v, want %v", got.Elem != nil, tt.wantElem)
			}
		})
	}
}

func TestResolveNeverFails(t *testing.T) {
	// The fallback ladder is best-effort by contract; garbage annotations
	// must degrade to pass-through, not panic or error.
	for _, name := range []string{"", "???", "list[", "[int]", "dict[str, int]"} {
		res := Resolve(Name(name), nil)
		out, err := res.Coerce("x")
		if err != nil {
			t.Errorf("Coerce after resolving %q returned error: %v", name, err)
		}
		if res.Coll == NoCollection && out != "x" {
			t.Errorf("resolving %q did not pass through, got %v", name, out)
		}
	}
}

func TestBuiltinConverters(t *testing.T) {
	tests := []struct {
		spec    *Spec
		raw     string
		want    any
		wantErr bool
	}{
		{spec: Int, raw: "42", want: 42},
		{spec: Int, raw: "-7", want: -7},
		{spec: Int, raw: "x", wantErr: true},
		{spec: Int, raw: "12abc", wantErr: true},
		{spec: Int, raw: "3.5", wantErr: true},
		{spec: Float, raw: "2.5", want: 2.5},
		{spec: Float, raw: "2.5x", wantErr: true},
		{spec: Bool, raw: "true", want: true},
		{spec: Bool, raw: "off", want: false},
		{spec: Bool, raw: "maybe", wantErr: true},
		{spec: PathType, raw: "a/b", want: Path("a/b")},
		{spec: String, raw: "x", want: "x"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.raw), func(t *testing.T) {
			got, err := Resolve(tt.spec, nil).Coerce(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				var convErr *ConversionError
				if !errors.As(err, &convErr) {
					t.Errorf("error %v is not a ConversionError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Coerce(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Coerce(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCoerceCollections(t *testing.T) {
	tests := []struct {
		name string
		spec *Spec
		raw  any
		want any
	}{
		{
			name: "nil yields empty list",
			spec: ListOf(String),
			raw:  nil,
			want: []any{},
		},
		{
			name: "nil yields empty set",
			spec: SetOf(String),
			raw:  nil,
			want: map[any]struct{}{},
		},
		{
			name: "scalar wrapped into list",
			spec: ListOf(Int),
			raw:  "3",
			want: []any{3},
		},
		{
			name: "strings into set of paths",
			spec: SetOf(PathType),
			raw:  []string{"a", "b"},
			want: map[any]struct{}{Path("a"): {}, Path("b"): {}},
		},
		{
			name: "tuple keeps order",
			spec: TupleOf(Int),
			raw:  []string{"2", "1"},
			want: []any{2, 1},
		},
		{
			name: "typed default passes through elements",
			spec: ListOf(Int),
			raw:  []any{1, 2},
			want: []any{1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.spec, nil).Coerce(tt.raw)
			if err != nil {
				t.Fatalf("Coerce error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Coerce = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCoerceElementFailureAborts(t *testing.T) {
	_, err := Resolve(ListOf(Int), nil).Coerce([]string{"1", "x", "3"})
	if err == nil {
		t.Fatal("expected conversion error")
	}
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("error %v is not a ConversionError", err)
	}
	if convErr.Value != "x" {
		t.Errorf("offending value = %v, want x", convErr.Value)
	}
}

func TestCoerceScalarMultiValue(t *testing.T) {
	// A multi-valued raw result against a scalar declared type converts
	// per item without inventing a container kind.
	got, err := Resolve(Int, nil).Coerce([]string{"1", "2"})
	if err != nil {
		t.Fatalf("Coerce error: %v", err)
	}
	if !reflect.DeepEqual(got, []any{1, 2}) {
		t.Errorf("Coerce = %#v, want [1 2]", got)
	}
}

func TestResolverRegisterName(t *testing.T) {
	r := NewResolver()
	r.RegisterName("Level", Func(func(s string) (any, error) { return "level:" + s, nil }))

	got, err := r.Resolve(Name("Level"), nil).Coerce("hot")
	if err != nil {
		t.Fatalf("Coerce error: %v", err)
	}
	if got != "level:hot" {
		t.Errorf("Coerce = %v, want level:hot", got)
	}
}
