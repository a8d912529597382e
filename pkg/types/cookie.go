package types

// SameSite values accepted by the browser when injecting cookies.
const (
	SameSiteStrict = "Strict"
	SameSiteLax    = "Lax"
	SameSiteNone   = "None"
)

// Cookie is an authentication cookie injected into a browser session
// before the video page is opened.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expires  float64 // unix seconds, 0 or negative for session cookies
	HTTPOnly bool
	Secure   bool
	SameSite string
}
