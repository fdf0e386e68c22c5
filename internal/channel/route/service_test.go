package route

import (
	"errors"
	"testing"

	"github.com/yagapon/oshirase/internal/department"
)

func newTestResolver() *Resolver {
	dir := department.NewDirectory(
		map[string]string{"IT局": "it-channel"},
		map[string]string{"IT局": "it-role", "広報局": "pr-role"},
	)
	return NewResolver(dir, "default-channel")
}

func TestResolveExplicitChannel(t *testing.T) {
	t.Parallel()

	r := newTestResolver()
	for _, dept := range []string{"IT局", "広報局", ""} {
		got, err := r.Resolve("123", dept)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if got != (Destination{ChannelID: "123"}) {
			t.Fatalf("Resolve(123, %q) = %+v, want channel 123 without role", dept, got)
		}
	}
}

func TestResolvePresetEqualsAbsent(t *testing.T) {
	t.Parallel()

	r := newTestResolver()
	for _, dept := range []string{"IT局", "広報局", "総務局", ""} {
		preset, err := r.Resolve(PresetChannel, dept)
		if err != nil {
			t.Fatalf("Resolve preset: %v", err)
		}
		absent, err := r.Resolve("", dept)
		if err != nil {
			t.Fatalf("Resolve absent: %v", err)
		}
		if preset != absent {
			t.Fatalf("dept %q: preset %+v != absent %+v", dept, preset, absent)
		}
	}
}

func TestResolveDepartmentAndDefault(t *testing.T) {
	t.Parallel()

	r := newTestResolver()
	cases := []struct {
		dept string
		want Destination
	}{
		{"IT局", Destination{ChannelID: "it-channel", RoleID: "it-role"}},
		{"広報局", Destination{ChannelID: "default-channel", RoleID: "pr-role"}},
		{"総務局", Destination{ChannelID: "default-channel"}},
		{"", Destination{ChannelID: "default-channel"}},
	}
	for _, tc := range cases {
		got, err := r.Resolve("", tc.dept)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tc.dept, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%q) = %+v, want %+v", tc.dept, got, tc.want)
		}
	}
}

func TestResolveWithoutDefault(t *testing.T) {
	t.Parallel()

	r := NewResolver(department.NewDirectory(nil, nil), "")
	if _, err := r.Resolve("", "IT局"); !errors.Is(err, ErrNoDestination) {
		t.Fatalf("err = %v, want ErrNoDestination", err)
	}
}
