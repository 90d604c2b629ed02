package slugger

import (
	"context"
	"errors"
	"strings"
	"testing"

	"catalog-service/internal/core/domain"
)

// fakeProbe отвечает занятостью slug по заранее заданной карте.
type fakeProbe struct {
	taken map[string]int64
	calls []string
}

func (p *fakeProbe) IDBySlug(_ context.Context, slug string) (int64, error) {
	p.calls = append(p.calls, slug)
	if id, ok := p.taken[slug]; ok {
		return id, nil
	}
	return 0, domain.ErrListingNotFound
}

func TestGeneratorGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("free base slug is returned as is", func(t *testing.T) {
		gen, _ := NewGenerator(&fakeProbe{})
		got, err := gen.Generate(ctx, "Москва, Ленина 1", "Дом у парка", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "moskva-lenina-1-dom-u-parka" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("taken slug gets numeric suffix", func(t *testing.T) {
		probe := &fakeProbe{taken: map[string]int64{
			"lenina-5":   10,
			"lenina-5-1": 11,
		}}
		gen, _ := NewGenerator(probe)
		got, err := gen.Generate(ctx, "Ленина 5", "", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "lenina-5-2" {
			t.Errorf("got %q, want lenina-5-2", got)
		}
	})

	t.Run("own slug does not conflict on update", func(t *testing.T) {
		probe := &fakeProbe{taken: map[string]int64{"lenina-5": 42}}
		gen, _ := NewGenerator(probe)
		got, err := gen.Generate(ctx, "Ленина 5", "", 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "lenina-5" {
			t.Errorf("got %q, want lenina-5", got)
		}
		if len(probe.calls) != 1 {
			t.Errorf("expected a single probe, got %d", len(probe.calls))
		}
	})

	t.Run("empty base falls back to property id on update", func(t *testing.T) {
		gen, _ := NewGenerator(&fakeProbe{})
		got, err := gen.Generate(ctx, "  ", "", 17)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "property-17" {
			t.Errorf("got %q, want property-17", got)
		}
	})

	t.Run("empty base on create uses timestamp fallback", func(t *testing.T) {
		gen, _ := NewGenerator(&fakeProbe{})
		got, err := gen.Generate(ctx, "", "", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(got, "property-") || got == "property-" {
			t.Errorf("got %q, want property-<timestamp>", got)
		}
	})

	t.Run("probe failure stops the loop", func(t *testing.T) {
		gen, _ := NewGenerator(&errorProbe{})
		if _, err := gen.Generate(ctx, "Ленина 5", "", 0); err == nil {
			t.Fatal("expected an error")
		}
	})
}

type errorProbe struct{}

func (errorProbe) IDBySlug(context.Context, string) (int64, error) {
	return 0, errors.New("storage is down")
}

func TestNewGeneratorRequiresProbe(t *testing.T) {
	if _, err := NewGenerator(nil); err == nil {
		t.Fatal("expected an error for nil probe")
	}
}
