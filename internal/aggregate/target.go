package aggregate

import "strings"

const (
	targetKeyConstant                     = "target"
	targetFormatMessageConstant           = "Target must be formatted as \"[remote_name] branch_name\""
	targetRemoteUndefinedTemplateConstant = "Target remote %s not defined in remotes."
)

// normalizeTarget parses "[remote_name] branch_name". Numeric scalars keep
// their source text, so a target of 8.0 stays "8.0".
func normalizeTarget(directory string, repositoryData *Mapping, remotes remoteSet) (Target, error) {
	rawTarget, _ := repositoryData.Get(targetKeyConstant)
	targetText, isScalar := textValue(rawTarget)
	if !isScalar {
		return Target{}, newConfigurationError(directory, targetFormatMessageConstant)
	}

	parts := strings.Fields(targetText)
	switch len(parts) {
	case 0:
		return Target{Branch: DefaultTargetBranch}, nil
	case 1:
		return Target{Branch: parts[0]}, nil
	case 2:
		remoteName := parts[0]
		if !remotes.contains(remoteName) {
			return Target{}, newConfigurationError(directory, targetRemoteUndefinedTemplateConstant, remoteName)
		}
		return Target{Remote: &remoteName, Branch: parts[1]}, nil
	default:
		return Target{}, newConfigurationError(directory, targetFormatMessageConstant)
	}
}
