package sections

import (
	"storefront-builder-backend/internal/constants"
	"storefront-builder-backend/internal/models"
)

// SectionTypeDefinition describes one entry of the static section catalog:
// the editor-facing label, the palette category and the default configuration
// a freshly inserted section starts with.
type SectionTypeDefinition struct {
	Type        string                 `json:"type"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Icon        string                 `json:"icon"`
	Schema      map[string]interface{} `json:"schema,omitempty"`

	defaultConfig func() models.SectionConfig
}

// DefaultConfig returns a fresh copy of the type's default configuration.
// Each call builds a new value so callers can mutate freely.
func (d SectionTypeDefinition) DefaultConfig() models.SectionConfig {
	if d.defaultConfig == nil {
		return models.SectionConfig{Extra: models.JSONMap{}}
	}
	return d.defaultConfig()
}

// catalog is defined once at package load and never mutated afterwards.
var catalog = []SectionTypeDefinition{
	{
		Type:        constants.SectionHeroBanner,
		Name:        "Hero Banner",
		Description: "Full-width banner with headline, subtitle and call to action",
		Category:    constants.CategoryHero,
		Icon:        "image",
		Schema: map[string]interface{}{
			"title":            map[string]interface{}{"type": "string", "label": "Headline"},
			"subtitle":         map[string]interface{}{"type": "string", "label": "Subtitle"},
			"button_label":     map[string]interface{}{"type": "string", "label": "Button label"},
			"button_link":      map[string]interface{}{"type": "string", "label": "Button link"},
			"background_image": map[string]interface{}{"type": "image", "label": "Background image"},
			"background_color": map[string]interface{}{"type": "color", "label": "Background color"},
			"text_color":       map[string]interface{}{"type": "color", "label": "Text color"},
			"alignment": map[string]interface{}{
				"type":    "select",
				"label":   "Alignment",
				"options": []string{"left", "center", "right"},
				"default": "center",
			},
		},
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{HeroBanner: &models.HeroBannerConfig{
				Title:     "Welcome to our store",
				Subtitle:  "Discover our latest arrivals",
				Alignment: "center",
			}}
		},
	},
	{
		Type:        constants.SectionSlideshow,
		Name:        "Slideshow",
		Description: "Rotating full-width image slides",
		Category:    constants.CategoryHero,
		Icon:        "images",
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{Slideshow: &models.SlideshowConfig{
				Slides:          []models.Slide{},
				AutoPlay:        true,
				IntervalSeconds: constants.DefaultSlideshowInterval,
			}}
		},
	},
	{
		Type:        constants.SectionImageBanner,
		Name:        "Image Banner",
		Description: "Single promotional image, optionally linked",
		Category:    constants.CategoryHero,
		Icon:        "photo",
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{ImageBanner: &models.ImageBannerConfig{Height: 400}}
		},
	},
	{
		Type:        constants.SectionProductGrid,
		Name:        "Product Grid",
		Description: "Products from a collection laid out in a grid",
		Category:    constants.CategoryProducts,
		Icon:        "grid",
		Schema: map[string]interface{}{
			"title": map[string]interface{}{"type": "string", "label": "Section title"},
			"count": map[string]interface{}{
				"type":    "number",
				"label":   "Number of products",
				"min":     1,
				"max":     constants.MaxProductGridCount,
				"default": constants.DefaultProductGridCount,
			},
			"columns": map[string]interface{}{
				"type":    "number",
				"label":   "Columns",
				"min":     constants.MinGridColumns,
				"max":     constants.MaxGridColumns,
				"default": constants.DefaultGridColumns,
			},
			"show_price":       map[string]interface{}{"type": "boolean", "label": "Show price", "default": true},
			"show_add_to_cart": map[string]interface{}{"type": "boolean", "label": "Show add to cart", "default": true},
		},
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{ProductGrid: &models.ProductGridConfig{
				Count:         constants.DefaultProductGridCount,
				Columns:       constants.DefaultGridColumns,
				SortBy:        "newest",
				ShowPrice:     true,
				ShowAddToCart: true,
			}}
		},
	},
	{
		Type:        constants.SectionFeaturedProducts,
		Name:        "Featured Products",
		Description: "Hand-picked products to highlight",
		Category:    constants.CategoryProducts,
		Icon:        "star",
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{FeaturedProducts: &models.FeaturedProductsConfig{
				ProductIDs: []string{},
				Columns:    constants.DefaultGridColumns,
				ShowPrice:  true,
			}}
		},
	},
	{
		Type:        constants.SectionCategoryGrid,
		Name:        "Category Grid",
		Description: "Store categories laid out in a grid",
		Category:    constants.CategoryCategories,
		Icon:        "folder",
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{CategoryGrid: &models.CategoryGridConfig{
				Count:     constants.DefaultCategoryGridCount,
				Columns:   3,
				ShowNames: true,
			}}
		},
	},
	{
		Type:        constants.SectionCollectionList,
		Name:        "Collection List",
		Description: "Selected collections shown as banners",
		Category:    constants.CategoryCategories,
		Icon:        "collection",
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{CollectionList: &models.CollectionListConfig{
				CollectionIDs: []string{},
				Layout:        "banner",
			}}
		},
	},
	{
		Type:        constants.SectionRichText,
		Name:        "Rich Text",
		Description: "Heading and formatted body text",
		Category:    constants.CategoryContent,
		Icon:        "type",
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{RichText: &models.RichTextConfig{Alignment: "left"}}
		},
	},
	{
		Type:        constants.SectionImageWithText,
		Name:        "Image with Text",
		Description: "Image beside a text block",
		Category:    constants.CategoryContent,
		Icon:        "columns",
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{ImageWithText: &models.ImageWithTextConfig{ImageSide: "left"}}
		},
	},
	{
		Type:        constants.SectionFAQ,
		Name:        "FAQ",
		Description: "Collapsible list of questions and answers",
		Category:    constants.CategoryContent,
		Icon:        "help-circle",
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{FAQ: &models.FAQConfig{Items: []models.FAQItem{}}}
		},
	},
	{
		Type:        constants.SectionTestimonials,
		Name:        "Testimonials",
		Description: "Customer quotes in a carousel or grid",
		Category:    constants.CategoryMarketing,
		Icon:        "message-circle",
		Schema: map[string]interface{}{
			"title": map[string]interface{}{"type": "string", "label": "Section title"},
			"layout": map[string]interface{}{
				"type":  "select",
				"label": "Layout",
				"options": []string{
					constants.TestimonialsLayoutCarousel,
					constants.TestimonialsLayoutGrid,
					constants.TestimonialsLayoutStacked,
				},
				"default": constants.TestimonialsLayoutCarousel,
			},
		},
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{Testimonials: &models.TestimonialsConfig{
				Layout:       constants.TestimonialsLayoutCarousel,
				Testimonials: []models.Testimonial{},
			}}
		},
	},
	{
		Type:        constants.SectionNewsletterSignup,
		Name:        "Newsletter Signup",
		Description: "Email capture form",
		Category:    constants.CategoryMarketing,
		Icon:        "mail",
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{NewsletterSignup: &models.NewsletterConfig{
				Heading:        "Stay in the loop",
				ButtonLabel:    "Subscribe",
				SuccessMessage: "Thanks for subscribing!",
			}}
		},
	},
	{
		Type:        constants.SectionCustomHTML,
		Name:        "Custom HTML",
		Description: "Raw HTML block for advanced users",
		Category:    constants.CategoryContent,
		Icon:        "code",
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{Extra: models.JSONMap{"html": ""}}
		},
	},
	{
		Type:        constants.SectionLogoList,
		Name:        "Logo List",
		Description: "Row of partner or brand logos",
		Category:    constants.CategoryMarketing,
		Icon:        "award",
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{Extra: models.JSONMap{"logos": []interface{}{}, "grayscale": true}}
		},
	},
	{
		Type:        constants.SectionSpacer,
		Name:        "Spacer",
		Description: "Vertical whitespace between sections",
		Category:    constants.CategoryLayout,
		Icon:        "minus",
		Schema: map[string]interface{}{
			"height": map[string]interface{}{
				"type":    "select",
				"label":   "Height",
				"options": constants.SpacerHeightOptions(),
				"default": constants.DefaultSpacerHeight,
			},
		},
		defaultConfig: func() models.SectionConfig {
			return models.SectionConfig{Spacer: &models.SpacerConfig{Height: constants.DefaultSpacerHeight}}
		},
	},
}

var catalogByType = func() map[string]SectionTypeDefinition {
	m := make(map[string]SectionTypeDefinition, len(catalog))
	for _, def := range catalog {
		m[def.Type] = def
	}
	return m
}()

// Lookup returns the definition for a section type tag. A missing entry is a
// programming error in the caller, not user input.
func Lookup(sectionType string) (SectionTypeDefinition, bool) {
	def, ok := catalogByType[sectionType]
	return def, ok
}

// AllTypes returns every composable section type tag in display order.
// Header and footer are structural and never appear here.
func AllTypes() []string {
	types := make([]string, 0, len(catalog))
	for _, def := range catalog {
		types = append(types, def.Type)
	}
	return types
}

// Definitions returns a copy of the full catalog in display order.
func Definitions() []SectionTypeDefinition {
	defs := make([]SectionTypeDefinition, len(catalog))
	copy(defs, catalog)
	return defs
}
