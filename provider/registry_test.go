package provider

import (
	"context"
	"errors"
	"testing"
)

type fakeProvider struct {
	name      string
	available bool
}

func (f *fakeProvider) Name() string                        { return f.name }
func (f *fakeProvider) IsAvailable(_ context.Context) bool { return f.available }

func TestRegistry_CreateFromFactory(t *testing.T) {
	reg := NewRegistry[Provider]()
	reg.RegisterFactory("fake", func(cfg map[string]any) (Provider, error) {
		name, _ := cfg["name"].(string)
		return &fakeProvider{name: name}, nil
	})

	p, err := reg.Create("fake", map[string]any{"name": "diart"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "diart" {
		t.Errorf("got %q, want diart", p.Name())
	}
}

func TestRegistry_CreateUnregistered(t *testing.T) {
	reg := NewRegistry[Provider]()
	if _, err := reg.Create("missing", nil); err == nil {
		t.Fatal("expected error for unregistered factory")
	}
}

func TestRegistry_FactoryError(t *testing.T) {
	reg := NewRegistry[Provider]()
	wantErr := errors.New("bad config")
	reg.RegisterFactory("fail", func(_ map[string]any) (Provider, error) {
		return nil, wantErr
	})
	if _, err := reg.Create("fail", nil); !errors.Is(err, wantErr) {
		t.Errorf("got %v, want %v", err, wantErr)
	}
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	reg := NewRegistry[Provider]()
	reg.RegisterFactory("dup", func(_ map[string]any) (Provider, error) {
		return &fakeProvider{name: "first"}, nil
	})
	reg.RegisterFactory("dup", func(_ map[string]any) (Provider, error) {
		return &fakeProvider{name: "second"}, nil
	})

	p, err := reg.Create("dup", nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "second" {
		t.Errorf("got %q, want second", p.Name())
	}
}
