// Package utils exposes the configuration and logging plumbing shared by gitagg commands.
//
// ConfigurationLoader layers embedded defaults, a configuration file and
// GITAGG_ environment variables through Viper. LoggerFactory builds zap
// loggers in structured or console form.
package utils
