package permissions

import (
	"storefront-builder-backend/internal/constants"
	"storefront-builder-backend/internal/sections"
	"storefront-builder-backend/pkg/logger"
)

// Unbounded marks a page type without a section cap.
const Unbounded = -1

// PagePermission describes which section types a page type accepts and how
// many sections it may hold. AllowAll short-circuits the explicit set.
type PagePermission struct {
	PageType    string   `json:"page_type"`
	AllowAll    bool     `json:"allow_all"`
	Allowed     []string `json:"allowed,omitempty"`
	MaxSections int      `json:"max_sections"`
	Description string   `json:"description"`
}

// table is the static page-type permission table, defined once at package
// load. Functional pages (cart, checkout, profile, order tracking) accept no
// composable sections at all.
var table = map[string]PagePermission{
	constants.PageHomepage: {
		PageType:    constants.PageHomepage,
		AllowAll:    true,
		MaxSections: Unbounded,
		Description: "The store landing page; any composable section, no cap",
	},
	constants.PageCustom: {
		PageType:    constants.PageCustom,
		AllowAll:    true,
		MaxSections: Unbounded,
		Description: "Free-form page; any composable section, no cap",
	},
	constants.PageAbout: {
		PageType: constants.PageAbout,
		Allowed: []string{
			constants.SectionHeroBanner, constants.SectionImageBanner,
			constants.SectionRichText, constants.SectionImageWithText,
			constants.SectionFAQ, constants.SectionTestimonials,
			constants.SectionLogoList, constants.SectionNewsletterSignup,
			constants.SectionCustomHTML, constants.SectionSpacer,
		},
		MaxSections: 12,
		Description: "About page; content and marketing sections",
	},
	constants.PageContact: {
		PageType: constants.PageContact,
		Allowed: []string{
			constants.SectionHeroBanner, constants.SectionRichText,
			constants.SectionFAQ, constants.SectionCustomHTML,
			constants.SectionSpacer,
		},
		MaxSections: 8,
		Description: "Contact page; informational sections around the contact form",
	},
	constants.PagePolicy: {
		PageType: constants.PagePolicy,
		Allowed: []string{
			constants.SectionRichText, constants.SectionFAQ,
			constants.SectionSpacer,
		},
		MaxSections: 6,
		Description: "Legal and policy pages; text-centric sections only",
	},
	constants.PageProduct: {
		PageType: constants.PageProduct,
		Allowed: []string{
			constants.SectionProductGrid, constants.SectionFeaturedProducts,
			constants.SectionRichText, constants.SectionImageWithText,
			constants.SectionTestimonials, constants.SectionFAQ,
			constants.SectionSpacer,
		},
		MaxSections: 10,
		Description: "Product detail page; sections rendered below the product view",
	},
	constants.PageCategory: {
		PageType: constants.PageCategory,
		Allowed: []string{
			constants.SectionHeroBanner, constants.SectionImageBanner,
			constants.SectionProductGrid, constants.SectionCollectionList,
			constants.SectionRichText, constants.SectionSpacer,
		},
		MaxSections: 8,
		Description: "Category listing page; sections around the product listing",
	},
	constants.PageSearch: {
		PageType: constants.PageSearch,
		Allowed: []string{
			constants.SectionProductGrid, constants.SectionCategoryGrid,
			constants.SectionRichText, constants.SectionSpacer,
		},
		MaxSections: 4,
		Description: "Search results page; limited supporting sections",
	},
	constants.PageCart: {
		PageType:    constants.PageCart,
		Allowed:     []string{},
		MaxSections: 0,
		Description: "Cart is a system view and accepts no composable sections",
	},
	constants.PageCheckout: {
		PageType:    constants.PageCheckout,
		Allowed:     []string{},
		MaxSections: 0,
		Description: "Checkout is a system view and accepts no composable sections",
	},
	constants.PageProfile: {
		PageType:    constants.PageProfile,
		Allowed:     []string{},
		MaxSections: 0,
		Description: "Customer profile is a system view and accepts no composable sections",
	},
	constants.PageOrderTracking: {
		PageType:    constants.PageOrderTracking,
		Allowed:     []string{},
		MaxSections: 0,
		Description: "Order tracking is a system view and accepts no composable sections",
	},
}

// IsAllowed reports whether a section type may be inserted on a page of the
// given type. Unknown page types fail closed.
func IsAllowed(pageType, sectionType string) bool {
	perm, ok := table[pageType]
	if !ok {
		logger.Warn("Permission check for unknown page type", map[string]interface{}{
			"page_type":    pageType,
			"section_type": sectionType,
		})
		return false
	}

	if perm.AllowAll {
		_, known := sections.Lookup(sectionType)
		return known && sectionType != constants.SectionHeader && sectionType != constants.SectionFooter
	}

	for _, allowed := range perm.Allowed {
		if allowed == sectionType {
			return true
		}
	}
	return false
}

// AllowedTypes returns the full set of section types permitted on the page
// type, in catalog display order. Unknown page types get an empty set.
func AllowedTypes(pageType string) []string {
	perm, ok := table[pageType]
	if !ok {
		logger.Warn("Allowed-types query for unknown page type", map[string]interface{}{
			"page_type": pageType,
		})
		return []string{}
	}

	if perm.AllowAll {
		return sections.AllTypes()
	}

	out := make([]string, len(perm.Allowed))
	copy(out, perm.Allowed)
	return out
}

// CanAcceptMore reports whether a page of the given type may hold one more
// section on top of currentCount. Unknown page types fail closed.
func CanAcceptMore(pageType string, currentCount int) bool {
	perm, ok := table[pageType]
	if !ok {
		return false
	}
	if perm.MaxSections == Unbounded {
		return true
	}
	return currentCount < perm.MaxSections
}

// Info returns the permission record for a page type. Unknown page types get
// a synthetic zero-allowance record; this function never fails.
func Info(pageType string) PagePermission {
	if perm, ok := table[pageType]; ok {
		out := perm
		out.Allowed = append([]string(nil), perm.Allowed...)
		return out
	}
	return PagePermission{
		PageType:    pageType,
		Allowed:     []string{},
		MaxSections: 0,
		Description: "Unknown page type; no sections allowed",
	}
}

// KnownPageType reports whether the page type has a permission entry.
func KnownPageType(pageType string) bool {
	_, ok := table[pageType]
	return ok
}

// PageTypes returns every page type with a permission entry.
func PageTypes() []string {
	out := make([]string, 0, len(table))
	for pageType := range table {
		out = append(out, pageType)
	}
	return out
}
