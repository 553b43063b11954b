// Package resolve provides the resolve command, which loads an aggregation
// file, validates every repository entry and prints the resolved specs.
package resolve
