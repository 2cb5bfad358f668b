package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// sanitizer allows the formatting tags rich text needs and strips everything
// executable.
var sanitizer = bluemonday.UGCPolicy()

// Init registers the custom validations on gin's binding engine so request
// DTOs can use them in binding tags.
func Init() {
	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		engine.RegisterValidation("slug", validateSlug)
		engine.RegisterValidation("no_html", validateNoHTML)
	}
}

// SanitizeHTML strips unsafe markup from user-authored rich text content.
func SanitizeHTML(html string) string {
	return sanitizer.Sanitize(html)
}

// SanitizeString strips all markup; used for section display names and titles.
func SanitizeString(s string) string {
	return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(s))
}

func validateSlug(fl validator.FieldLevel) bool {
	slug := fl.Field().String()
	matched, _ := regexp.MatchString(`^[a-z0-9-]+$`, slug)
	return matched
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}

func NormalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
