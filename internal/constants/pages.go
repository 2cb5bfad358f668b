package constants

// Page type tags. Content pages are freely composable; functional pages
// (cart, checkout, profile, order tracking) render fixed system views and
// accept no composable sections.
const (
	PageHomepage      = "homepage"
	PageAbout         = "about"
	PageContact       = "contact"
	PagePolicy        = "policy"
	PageCustom        = "custom"
	PageProduct       = "product"
	PageCategory      = "category"
	PageCart          = "cart"
	PageCheckout      = "checkout"
	PageProfile       = "profile"
	PageOrderTracking = "order_tracking"
	PageSearch        = "search"
)

const AuthTokenCookieName = "auth_token"
