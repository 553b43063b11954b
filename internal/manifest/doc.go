// Package manifest loads aggregation configuration files into an
// order-preserving aggregate.Mapping, optionally expanding environment
// variables first.
package manifest
