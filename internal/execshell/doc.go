// Package execshell runs external tools on behalf of gitagg.
//
// ShellExecutor wraps a CommandRunner with zap logging and typed failures,
// OSCommandRunner runs processes through os/exec, and CommandMessageFormatter
// renders human-readable lifecycle messages for the git commands gitagg issues.
package execshell
