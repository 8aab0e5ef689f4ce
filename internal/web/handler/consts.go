package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// SiteLayout is the layout for public site pages.
	SiteLayout = "layouts/site"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the relative root inside a route group.
	RouterRootPath = ""

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
