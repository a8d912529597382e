package browser

// Options configures the Chromium instance behind every session.
type Options struct {
	// Channel selects a branded build such as "chrome" or "msedge".
	// Empty uses the bundled Chromium.
	Channel string

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for page operations (in milliseconds)
	Timeout float64

	// Locale is passed to the browser context, e.g. "en-US"
	Locale string

	// SkipInstall skips downloading the driver and browsers on Initialize.
	SkipInstall bool
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultLikeTimeout    = 5000.0
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// Page selectors and keys for the watch page.
const (
	LikeButtonSelector    = `button[aria-label="Like this video"]`
	CommentBoxSelector    = "ytd-comment-simplebox-renderer"
	CommentInputSelector  = "ytd-comment-simplebox-renderer #contenteditable-root"
	CommentSubmitSelector = "ytd-comment-simplebox-renderer #submit-button"
	PlaybackToggleKey     = "k"
	SeekForwardKey        = "ArrowRight"
)

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	if o.Viewport == nil {
		o.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}
