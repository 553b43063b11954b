package aggregate

const (
	fetchAllKeyConstant             = "fetch_all"
	fetchAllInvalidTemplateConstant = "fetch_all must be a boolean, a remote name, or a list of remote names."
)

// normalizeFetchScope does not validate names against the configured remotes;
// unknown names surface when the fetch is attempted.
func normalizeFetchScope(directory string, repositoryData *Mapping) (FetchScope, error) {
	rawFetchAll, _ := repositoryData.Get(fetchAllKeyConstant)

	switch typed := rawFetchAll.(type) {
	case nil:
		return FetchScope{Mode: FetchModeRequired}, nil
	case bool:
		if typed {
			return FetchScope{Mode: FetchModeAll}, nil
		}
		return FetchScope{Mode: FetchModeRequired}, nil
	}

	if sequence, isSequence := asSequence(rawFetchAll); isSequence {
		remoteNames := make([]string, 0, len(sequence))
		seen := make(map[string]struct{}, len(sequence))
		for _, rawName := range sequence {
			remoteName, isScalar := textValue(rawName)
			if !isScalar {
				return FetchScope{}, newConfigurationError(directory, fetchAllInvalidTemplateConstant)
			}
			if _, duplicate := seen[remoteName]; duplicate {
				continue
			}
			seen[remoteName] = struct{}{}
			remoteNames = append(remoteNames, remoteName)
		}
		return FetchScope{Mode: FetchModeSelected, Remotes: remoteNames}, nil
	}

	remoteName, isScalar := textValue(rawFetchAll)
	if !isScalar {
		return FetchScope{}, newConfigurationError(directory, fetchAllInvalidTemplateConstant)
	}
	return FetchScope{Mode: FetchModeSelected, Remotes: []string{remoteName}}, nil
}
