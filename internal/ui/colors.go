package ui

// Color functions return the escape code of the active theme, or "" when
// colors are disabled.

func ColorBlue() string      { return GetCurrentTheme().Primary }
func ColorGrey() string      { return GetCurrentTheme().Secondary }
func ColorGreen() string     { return GetCurrentTheme().Success }
func ColorYellow() string    { return GetCurrentTheme().Warning }
func ColorRed() string       { return GetCurrentTheme().Error }
func ColorMagenta() string   { return GetCurrentTheme().Info }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }
func ColorReset() string     { return GetCurrentTheme().Reset }

// Utilization thresholds, in percent.
const (
	WarnPercent = 50.0
	HotPercent  = 85.0
)

// ColorForPercent picks green, yellow or red for a utilization percentage.
func ColorForPercent(p float64) string {
	switch {
	case p >= HotPercent:
		return ColorRed()
	case p >= WarnPercent:
		return ColorYellow()
	default:
		return ColorGreen()
	}
}
