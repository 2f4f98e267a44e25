package format

import "fmt"

var iecUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// FormatBytes renders a byte count with a binary unit, e.g. "2.0 MiB".
// Counts below 1 KiB are printed exactly.
func FormatBytes(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(iecUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", v, iecUnits[i])
}

// FormatPercent renders a utilization with two decimals.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%6.2f%%", p)
}
