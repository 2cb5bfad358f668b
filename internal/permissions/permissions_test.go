package permissions

import (
	"testing"

	"storefront-builder-backend/internal/constants"
	"storefront-builder-backend/internal/sections"
)

func TestIsAllowedExplicitSet(t *testing.T) {
	if !IsAllowed(constants.PagePolicy, constants.SectionRichText) {
		t.Fatal("rich text must be allowed on policy pages")
	}
	if IsAllowed(constants.PagePolicy, constants.SectionHeroBanner) {
		t.Fatal("hero banner must not be allowed on policy pages")
	}
}

func TestIsAllowedOpenPageChecksCatalog(t *testing.T) {
	if !IsAllowed(constants.PageHomepage, constants.SectionHeroBanner) {
		t.Fatal("catalog section must be allowed on homepage")
	}
	if IsAllowed(constants.PageHomepage, "countdown_timer") {
		t.Fatal("unregistered section must be rejected even on an allow-all page")
	}
}

func TestIsAllowedExcludesStructuralSections(t *testing.T) {
	for _, structural := range []string{constants.SectionHeader, constants.SectionFooter} {
		if IsAllowed(constants.PageHomepage, structural) {
			t.Fatalf("structural section %q must not be insertable", structural)
		}
	}
}

func TestIsAllowedFailsClosedOnUnknownPageType(t *testing.T) {
	if IsAllowed("landing_v2", constants.SectionRichText) {
		t.Fatal("unknown page type must reject every section")
	}
}

func TestFunctionalPagesAcceptNothing(t *testing.T) {
	functional := []string{
		constants.PageCart, constants.PageCheckout,
		constants.PageProfile, constants.PageOrderTracking,
	}
	for _, pageType := range functional {
		if IsAllowed(pageType, constants.SectionRichText) {
			t.Fatalf("%q must accept no sections", pageType)
		}
		if CanAcceptMore(pageType, 0) {
			t.Fatalf("%q must have a zero section cap", pageType)
		}
		if got := AllowedTypes(pageType); len(got) != 0 {
			t.Fatalf("%q must expose an empty allowed set, got %v", pageType, got)
		}
	}
}

func TestCanAcceptMore(t *testing.T) {
	if !CanAcceptMore(constants.PageSearch, 3) {
		t.Fatal("search page must accept a fourth section")
	}
	if CanAcceptMore(constants.PageSearch, 4) {
		t.Fatal("search page must reject a fifth section")
	}
	if !CanAcceptMore(constants.PageHomepage, 500) {
		t.Fatal("homepage must be unbounded")
	}
	if CanAcceptMore("landing_v2", 0) {
		t.Fatal("unknown page type must fail closed")
	}
}

func TestAllowedTypesOpenPageMatchesCatalog(t *testing.T) {
	got := AllowedTypes(constants.PageHomepage)
	want := sections.AllTypes()
	if len(got) != len(want) {
		t.Fatalf("expected %d types, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("catalog order mismatch at %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInfoReturnsCopies(t *testing.T) {
	info := Info(constants.PageAbout)
	if len(info.Allowed) == 0 {
		t.Fatal("expected a populated allowed set")
	}
	info.Allowed[0] = "mutated"

	again := Info(constants.PageAbout)
	if again.Allowed[0] == "mutated" {
		t.Fatal("Info must not expose the shared table slice")
	}
}

func TestInfoSynthesizesUnknownPageType(t *testing.T) {
	info := Info("landing_v2")
	if info.PageType != "landing_v2" {
		t.Fatalf("unexpected page type %q", info.PageType)
	}
	if info.AllowAll || info.MaxSections != 0 || len(info.Allowed) != 0 {
		t.Fatalf("unknown page type must get a zero-allowance record, got %+v", info)
	}
}

func TestKnownPageType(t *testing.T) {
	if !KnownPageType(constants.PageProduct) {
		t.Fatal("product must be a known page type")
	}
	if KnownPageType("landing_v2") {
		t.Fatal("landing_v2 must not be a known page type")
	}
}

func TestPageTypesCoversTable(t *testing.T) {
	got := PageTypes()
	if len(got) != 12 {
		t.Fatalf("expected 12 page types, got %d", len(got))
	}
	seen := make(map[string]bool, len(got))
	for _, pageType := range got {
		seen[pageType] = true
	}
	for _, required := range []string{constants.PageHomepage, constants.PageCustom, constants.PageCart} {
		if !seen[required] {
			t.Fatalf("expected %q in page types", required)
		}
	}
}
