package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"storefront-builder-backend/internal/constants"
)

// SectionConfig is the tagged variant holding a section's configuration
// payload. Exactly one typed payload is set for section types with a
// dedicated shape; Extra is the open fallback for the rest. The type tag
// itself lives on the owning Section row, so the stored jsonb is the bare
// payload object and Resolve decodes it once the tag is known.
type SectionConfig struct {
	HeroBanner       *HeroBannerConfig       `json:"-"`
	Slideshow        *SlideshowConfig        `json:"-"`
	ImageBanner      *ImageBannerConfig      `json:"-"`
	ProductGrid      *ProductGridConfig      `json:"-"`
	FeaturedProducts *FeaturedProductsConfig `json:"-"`
	CategoryGrid     *CategoryGridConfig     `json:"-"`
	CollectionList   *CollectionListConfig   `json:"-"`
	RichText         *RichTextConfig         `json:"-"`
	ImageWithText    *ImageWithTextConfig    `json:"-"`
	FAQ              *FAQConfig              `json:"-"`
	Testimonials     *TestimonialsConfig     `json:"-"`
	NewsletterSignup *NewsletterConfig       `json:"-"`
	Spacer           *SpacerConfig           `json:"-"`

	Extra JSONMap `json:"-"`

	raw json.RawMessage
}

type HeroBannerConfig struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	ButtonLabel     string `json:"button_label"`
	ButtonLink      string `json:"button_link"`
	BackgroundImage string `json:"background_image"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	Alignment       string `json:"alignment"`
}

type Slide struct {
	ImageURL string `json:"image_url"`
	Heading  string `json:"heading"`
	Link     string `json:"link"`
}

type SlideshowConfig struct {
	Slides          []Slide `json:"slides"`
	AutoPlay        bool    `json:"auto_play"`
	IntervalSeconds int     `json:"interval_seconds"`
}

type ImageBannerConfig struct {
	ImageURL string `json:"image_url"`
	Alt      string `json:"alt"`
	Link     string `json:"link"`
	Height   int    `json:"height"`
}

type ProductGridConfig struct {
	Title         string `json:"title"`
	Count         int    `json:"count"`
	Columns       int    `json:"columns"`
	Collection    string `json:"collection"`
	SortBy        string `json:"sort_by"`
	ShowPrice     bool   `json:"show_price"`
	ShowAddToCart bool   `json:"show_add_to_cart"`
}

type FeaturedProductsConfig struct {
	Title      string   `json:"title"`
	ProductIDs []string `json:"product_ids"`
	Columns    int      `json:"columns"`
	ShowPrice  bool     `json:"show_price"`
}

type CategoryGridConfig struct {
	Title     string `json:"title"`
	Count     int    `json:"count"`
	Columns   int    `json:"columns"`
	ShowNames bool   `json:"show_names"`
}

type CollectionListConfig struct {
	Title         string   `json:"title"`
	CollectionIDs []string `json:"collection_ids"`
	Layout        string   `json:"layout"`
}

type RichTextConfig struct {
	Heading   string `json:"heading"`
	Body      string `json:"body"`
	Alignment string `json:"alignment"`
}

type ImageWithTextConfig struct {
	ImageURL    string `json:"image_url"`
	Heading     string `json:"heading"`
	Body        string `json:"body"`
	ImageSide   string `json:"image_side"`
	ButtonLabel string `json:"button_label"`
	ButtonLink  string `json:"button_link"`
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FAQConfig struct {
	Title string    `json:"title"`
	Items []FAQItem `json:"items"`
}

type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

type TestimonialsConfig struct {
	Title        string        `json:"title"`
	Layout       string        `json:"layout"`
	Testimonials []Testimonial `json:"testimonials"`
}

type NewsletterConfig struct {
	Heading        string `json:"heading"`
	Subheading     string `json:"subheading"`
	ButtonLabel    string `json:"button_label"`
	SuccessMessage string `json:"success_message"`
}

type SpacerConfig struct {
	Height int `json:"height"`
}

// payload returns the active typed payload, or nil when the config uses the
// open fallback.
func (c *SectionConfig) payload() interface{} {
	switch {
	case c.HeroBanner != nil:
		return c.HeroBanner
	case c.Slideshow != nil:
		return c.Slideshow
	case c.ImageBanner != nil:
		return c.ImageBanner
	case c.ProductGrid != nil:
		return c.ProductGrid
	case c.FeaturedProducts != nil:
		return c.FeaturedProducts
	case c.CategoryGrid != nil:
		return c.CategoryGrid
	case c.CollectionList != nil:
		return c.CollectionList
	case c.RichText != nil:
		return c.RichText
	case c.ImageWithText != nil:
		return c.ImageWithText
	case c.FAQ != nil:
		return c.FAQ
	case c.Testimonials != nil:
		return c.Testimonials
	case c.NewsletterSignup != nil:
		return c.NewsletterSignup
	case c.Spacer != nil:
		return c.Spacer
	}
	return nil
}

func (c SectionConfig) MarshalJSON() ([]byte, error) {
	if p := c.payload(); p != nil {
		return json.Marshal(p)
	}
	if c.Extra != nil {
		return json.Marshal(c.Extra)
	}
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	return []byte("{}"), nil
}

// UnmarshalJSON keeps the raw payload; the shape is only known once the
// owning section's type tag is available, so callers follow up with Resolve.
func (c *SectionConfig) UnmarshalJSON(data []byte) error {
	c.reset()
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (c *SectionConfig) reset() {
	*c = SectionConfig{}
}

// Resolve decodes the raw payload into the typed variant matching the given
// section type tag. Types without a dedicated shape fall back to the open map.
func (c *SectionConfig) Resolve(sectionType string) error {
	data := c.raw
	if len(data) == 0 {
		// Already resolved or constructed directly from a typed payload.
		if c.payload() != nil || c.Extra != nil {
			return nil
		}
		data = []byte("{}")
	}

	c.reset()

	var err error
	switch sectionType {
	case constants.SectionHeroBanner:
		c.HeroBanner = &HeroBannerConfig{}
		err = json.Unmarshal(data, c.HeroBanner)
	case constants.SectionSlideshow:
		c.Slideshow = &SlideshowConfig{}
		err = json.Unmarshal(data, c.Slideshow)
	case constants.SectionImageBanner:
		c.ImageBanner = &ImageBannerConfig{}
		err = json.Unmarshal(data, c.ImageBanner)
	case constants.SectionProductGrid:
		c.ProductGrid = &ProductGridConfig{}
		err = json.Unmarshal(data, c.ProductGrid)
	case constants.SectionFeaturedProducts:
		c.FeaturedProducts = &FeaturedProductsConfig{}
		err = json.Unmarshal(data, c.FeaturedProducts)
	case constants.SectionCategoryGrid:
		c.CategoryGrid = &CategoryGridConfig{}
		err = json.Unmarshal(data, c.CategoryGrid)
	case constants.SectionCollectionList:
		c.CollectionList = &CollectionListConfig{}
		err = json.Unmarshal(data, c.CollectionList)
	case constants.SectionRichText:
		c.RichText = &RichTextConfig{}
		err = json.Unmarshal(data, c.RichText)
	case constants.SectionImageWithText:
		c.ImageWithText = &ImageWithTextConfig{}
		err = json.Unmarshal(data, c.ImageWithText)
	case constants.SectionFAQ:
		c.FAQ = &FAQConfig{}
		err = json.Unmarshal(data, c.FAQ)
	case constants.SectionTestimonials:
		c.Testimonials = &TestimonialsConfig{}
		err = json.Unmarshal(data, c.Testimonials)
	case constants.SectionNewsletterSignup:
		c.NewsletterSignup = &NewsletterConfig{}
		err = json.Unmarshal(data, c.NewsletterSignup)
	case constants.SectionSpacer:
		c.Spacer = &SpacerConfig{}
		err = json.Unmarshal(data, c.Spacer)
	default:
		extra := JSONMap{}
		err = json.Unmarshal(data, &extra)
		c.Extra = extra
	}
	return err
}

// Clone returns a deep copy of the config via a JSON round trip.
func (c SectionConfig) Clone(sectionType string) (SectionConfig, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return SectionConfig{}, err
	}

	var clone SectionConfig
	if err := clone.UnmarshalJSON(data); err != nil {
		return SectionConfig{}, err
	}
	if err := clone.Resolve(sectionType); err != nil {
		return SectionConfig{}, err
	}
	return clone, nil
}

func (c SectionConfig) Value() (driver.Value, error) {
	return c.MarshalJSON()
}

func (c *SectionConfig) Scan(value interface{}) error {
	if value == nil {
		c.reset()
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan SectionConfig")
	}
	return c.UnmarshalJSON(bytes)
}
