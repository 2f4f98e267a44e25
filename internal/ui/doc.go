// Package ui provides theme and color support for the CLI and the dashboard.
// It defines color schemes and ANSI escape code functions so that
// presentation packages share one notion of the active theme.
package ui
