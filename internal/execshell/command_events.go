package execshell

import "sync"

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports a command that could not run at all.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// CommandStatistics counts command outcomes. It is safe for concurrent use.
type CommandStatistics struct {
	mutex   sync.Mutex
	started int
	failed  int
	notRun  int
}

// CommandStarted counts a started command.
func (statistics *CommandStatistics) CommandStarted(ShellCommand) {
	statistics.mutex.Lock()
	defer statistics.mutex.Unlock()
	statistics.started++
}

// CommandCompleted counts a non-zero exit status as a failure.
func (statistics *CommandStatistics) CommandCompleted(_ ShellCommand, result ExecutionResult) {
	if result.ExitCode == 0 {
		return
	}
	statistics.mutex.Lock()
	defer statistics.mutex.Unlock()
	statistics.failed++
}

// CommandExecutionFailed counts a command that could not run.
func (statistics *CommandStatistics) CommandExecutionFailed(ShellCommand, error) {
	statistics.mutex.Lock()
	defer statistics.mutex.Unlock()
	statistics.notRun++
}

// Started returns the number of commands started.
func (statistics *CommandStatistics) Started() int {
	statistics.mutex.Lock()
	defer statistics.mutex.Unlock()
	return statistics.started
}

// Failed returns the number of commands that exited non-zero or could not run.
func (statistics *CommandStatistics) Failed() int {
	statistics.mutex.Lock()
	defer statistics.mutex.Unlock()
	return statistics.failed + statistics.notRun
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
