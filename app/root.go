// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "medicms-admin",
	Short: "MediCMS-Admin is a web-based content management tool for hospital sites",
	Long: `MediCMS-Admin is a web-based content management tool for hospital
marketing sites that provides an easy-to-use interface for managing
departments, treatments, blog posts, videos and admin users.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
