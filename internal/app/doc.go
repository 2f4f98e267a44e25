// Package app wires the configuration, the samplers, the sinks and the
// chosen front end (daemon, one-shot snapshot or dashboard) together.
package app
