package celebrate

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"self-care":  CategorySelfCare,
		" Courage ":  CategoryCourage,
		"REST":       CategoryRest,
		"connection": CategoryConnection,
		"boundaries": CategoryBoundaries,
		"gardening":  CategoryCustom,
		"":           CategoryCustom,
	}
	for in, want := range tests {
		if got := ParseCategory(in); got != want {
			t.Errorf("ParseCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEveryCategoryHasAPool(t *testing.T) {
	for _, c := range Categories() {
		pool := Pool(c)
		if len(pool) == 0 {
			t.Errorf("category %s has no celebrations", c)
		}
		for _, cfg := range pool {
			if !strings.Contains(cfg.MessageTemplate, "{win}") {
				t.Errorf("%s template %q does not mention the win", c, cfg.MessageTemplate)
			}
		}
	}
}

func TestSelectIsDeterministicForASeed(t *testing.T) {
	a := rand.New(rand.NewPCG(42, 1))
	b := rand.New(rand.NewPCG(42, 1))
	for i := 0; i < 20; i++ {
		for _, c := range Categories() {
			if Select(c, a).MessageTemplate != Select(c, b).MessageTemplate {
				t.Fatalf("selection differs for %s on draw %d", c, i)
			}
		}
	}
}

func TestSelectStaysInPool(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	pool := Pool(CategoryCourage)
	for i := 0; i < 50; i++ {
		got := Select(CategoryCourage, rng)
		found := false
		for _, cfg := range pool {
			if cfg.MessageTemplate == got.MessageTemplate {
				found = true
			}
		}
		if !found {
			t.Fatalf("selected %q outside the courage pool", got.MessageTemplate)
		}
	}

	if got := Select("unknown", rng); ParseCategory("unknown") != CategoryCustom || got.MessageTemplate == "" {
		t.Error("unknown category should draw from the custom pool")
	}
}

func TestRender(t *testing.T) {
	cfg := Config{MessageTemplate: "That took courage: {win}."}
	if got := cfg.Render("  asked for help "); got != "That took courage: asked for help." {
		t.Errorf("Render = %q", got)
	}
}
