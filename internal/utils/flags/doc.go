// Package flags binds yes/no toggles and constrained choices to Cobra commands.
package flags
