package execshell

// CommandEventObserver is notified around every command the ShellExecutor runs.
// CommandExecutionFailed replaces CommandCompleted when no exit status exists, as on timeouts.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	CommandExecutionFailed(command ShellCommand, failure error)
}

type discardingObserver struct{}

func (discardingObserver) CommandStarted(ShellCommand)                    {}
func (discardingObserver) CommandCompleted(ShellCommand, ExecutionResult) {}
func (discardingObserver) CommandExecutionFailed(ShellCommand, error)     {}
