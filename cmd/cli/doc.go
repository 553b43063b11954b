// Package cli constructs the gitagg command-line interface, wiring the Cobra
// command hierarchy, the viper-backed application configuration, and
// structured logging for the resolve command.
package cli
