// Package main provides the entry point for the MediCMS-Admin application.
// It initializes and runs a web server using the Fiber framework that serves
// the public hospital site and a role-gated admin area for managing
// departments, treatments, blog posts, videos and site settings. The
// application uses gorm for data persistence and publishes content change
// notifications over Redis so edits become visible without a redeploy.
package main
