package themes

import (
	"embed"
)

//go:embed default
var defaultThemeFS embed.FS

// DefaultTheme loads the theme embedded in the binary, so a bare directory
// of Markdown builds without any theme setup.
func DefaultTheme() (*Theme, error) {
	return LoadTheme(defaultThemeFS, DefaultThemeName)
}
