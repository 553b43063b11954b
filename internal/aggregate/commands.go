package aggregate

const (
	shellCommandAfterKeyConstant       = "shell_command_after"
	shellCommandInvalidMessageConstant = "shell_command_after must be a command or a list of commands."
)

func normalizeShellCommands(directory string, repositoryData *Mapping) ([]string, error) {
	rawCommands, _ := repositoryData.Get(shellCommandAfterKeyConstant)
	commands := []string{}
	if isEmptyValue(rawCommands) {
		return commands, nil
	}

	if commandText, isText := rawCommands.(string); isText {
		return append(commands, commandText), nil
	}

	sequence, isSequence := asSequence(rawCommands)
	if !isSequence {
		return nil, newConfigurationError(directory, shellCommandInvalidMessageConstant)
	}

	for _, rawCommand := range sequence {
		commandText, isScalar := textValue(rawCommand)
		if !isScalar {
			return nil, newConfigurationError(directory, shellCommandInvalidMessageConstant)
		}
		commands = append(commands, commandText)
	}
	return commands, nil
}
