package constants

// Section type tags. The set is closed: the registry in internal/sections is
// the authority on which of these are composable.
const (
	SectionHeroBanner       = "hero_banner"
	SectionSlideshow        = "slideshow"
	SectionImageBanner      = "image_banner"
	SectionProductGrid      = "product_grid"
	SectionFeaturedProducts = "featured_products"
	SectionCategoryGrid     = "category_grid"
	SectionCollectionList   = "collection_list"
	SectionRichText         = "rich_text"
	SectionImageWithText    = "image_with_text"
	SectionFAQ              = "faq"
	SectionTestimonials     = "testimonials"
	SectionNewsletterSignup = "newsletter_signup"
	SectionCustomHTML       = "custom_html"
	SectionLogoList         = "logo_list"
	SectionSpacer           = "spacer"

	// Header and footer are structural: every page has exactly one of each,
	// managed outside the composable-section flow.
	SectionHeader = "header"
	SectionFooter = "footer"
)

// Section display categories used to group types in the editor palette.
const (
	CategoryHero       = "hero"
	CategoryProducts   = "products"
	CategoryCategories = "categories"
	CategoryContent    = "content"
	CategoryMarketing  = "marketing"
	CategoryLayout     = "layout"
)

const (
	// DefaultProductGridCount defines how many products a new product grid shows.
	DefaultProductGridCount = 8
	// MaxProductGridCount caps product grids to keep storefront pages fast.
	MaxProductGridCount = 24

	// DefaultGridColumns defines the column count for new grid sections.
	DefaultGridColumns = 4
	// MinGridColumns sets the lower bound for grid column counts.
	MinGridColumns = 2
	// MaxGridColumns sets the upper bound for grid column counts.
	MaxGridColumns = 6

	// DefaultCategoryGridCount defines how many categories a new category grid shows.
	DefaultCategoryGridCount = 6

	// DefaultSpacerHeight defines the height in pixels of a new spacer section.
	DefaultSpacerHeight = 64

	// DefaultSlideshowInterval defines the autoplay interval in seconds.
	DefaultSlideshowInterval = 5
)

// TestimonialsLayoutCarousel shows testimonials in a horizontal carousel.
const TestimonialsLayoutCarousel = "carousel"

// TestimonialsLayoutGrid shows testimonials side by side in a grid.
const TestimonialsLayoutGrid = "grid"

// TestimonialsLayoutStacked shows testimonials stacked vertically.
const TestimonialsLayoutStacked = "stacked"

var spacerHeightOptions = []int{16, 32, 48, 64, 96, 128}

// SpacerHeightOptions returns the allowed spacer heights in pixels.
// A copy of the slice is returned to prevent external mutation of the internal list.
func SpacerHeightOptions() []int {
	options := make([]int, len(spacerHeightOptions))
	copy(options, spacerHeightOptions)
	return options
}
