package source

import (
	"errors"
	"testing"
)

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register("pornhub", "Pornhub", true)
	r.Register("xvideos", "Xvideos", true)
	r.Register("xnxx", "XNXX", true)
	return r
}

func TestListOrder(t *testing.T) {
	r := newTestRegistry()
	descs := r.List()
	want := []string{"pornhub", "xvideos", "xnxx"}
	if len(descs) != len(want) {
		t.Fatalf("List() returned %d descriptors, want %d", len(descs), len(want))
	}
	for i, d := range descs {
		if d.Slug != want[i] {
			t.Errorf("List()[%d].Slug = %q, want %q", i, d.Slug, want[i])
		}
	}
}

func TestResolve(t *testing.T) {
	r := newTestRegistry()
	if _, err := r.SetEnabled("xnxx", false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}

	tests := []struct {
		name      string
		selection []string
		want      []string
	}{
		{"all sentinel", []string{"all"}, []string{"pornhub", "xvideos"}},
		{"empty selection", nil, []string{"pornhub", "xvideos"}},
		{"explicit subset sorted", []string{"xvideos", "pornhub"}, []string{"pornhub", "xvideos"}},
		{"disabled dropped", []string{"xnxx", "pornhub"}, []string{"pornhub"}},
		{"unknown dropped", []string{"nosuchsite", "xvideos"}, []string{"xvideos"}},
		{"duplicates collapsed", []string{"pornhub", "pornhub"}, []string{"pornhub"}},
		{"only unknown yields empty", []string{"nosuchsite"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.selection)
			if len(got) != len(tt.want) {
				t.Fatalf("Resolve(%v) = %v, want %v", tt.selection, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Resolve(%v) = %v, want %v", tt.selection, got, tt.want)
				}
			}
		})
	}
}

func TestToggle(t *testing.T) {
	r := newTestRegistry()

	enabled, err := r.Toggle("pornhub")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if enabled {
		t.Error("Toggle should have disabled pornhub")
	}

	resolved := r.Resolve([]string{"all"})
	for _, slug := range resolved {
		if slug == "pornhub" {
			t.Error("disabled source still resolved")
		}
	}

	enabled, err = r.Toggle("pornhub")
	if err != nil || !enabled {
		t.Fatalf("Toggle back: enabled=%v err=%v", enabled, err)
	}

	if _, err := r.Toggle("nosuchsite"); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("Toggle(nosuchsite) err = %v, want ErrUnknownSource", err)
	}
}

func TestRegisterReplaceKeepsOrder(t *testing.T) {
	r := newTestRegistry()
	r.Register("pornhub", "Pornhub", false)

	descs := r.List()
	if descs[0].Slug != "pornhub" || descs[0].Enabled {
		t.Errorf("re-registered descriptor = %+v, want pornhub disabled at position 0", descs[0])
	}
}
