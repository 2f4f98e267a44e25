// Package cli implements the one-shot snapshot mode: it takes two CPU
// samples one interval apart and prints per-row utilization followed by the
// memory accounting of every target.
package cli
