// Package format holds the display helpers shared by the snapshot output and
// the dashboard.
package format
