package aggregate

import "context"

const (
	remotesKeyConstant                 = "remotes"
	remoteURLMissingTemplateConstant   = "No url defined for remote %s."
	remotesEmptyMessageConstant        = "You should at least define one remote."
	remotesUndefinedMessageConstant    = "remotes is not defined."
	remotesNotMappingMessageConstant   = "remotes must be a mapping of remote names to urls."
	remoteURLNotScalarTemplateConstant = "Url of remote %s must be a string."
)

// remoteSet is the ordered remote list plus a membership index.
type remoteSet struct {
	remotes []Remote
	names   map[string]struct{}
}

func newRemoteSet() remoteSet {
	return remoteSet{names: make(map[string]struct{})}
}

func (set *remoteSet) add(remote Remote) {
	if _, exists := set.names[remote.Name]; exists {
		for remoteIndex := range set.remotes {
			if set.remotes[remoteIndex].Name == remote.Name {
				set.remotes[remoteIndex].URL = remote.URL
			}
		}
		return
	}
	set.names[remote.Name] = struct{}{}
	set.remotes = append(set.remotes, remote)
}

func (set remoteSet) contains(remoteName string) bool {
	_, exists := set.names[remoteName]
	return exists
}

func (resolver *Resolver) normalizeRemotes(executionContext context.Context, directory string, repositoryData *Mapping) (remoteSet, error) {
	rawRemotes, remotesDefined := repositoryData.Get(remotesKeyConstant)
	if !remotesDefined {
		return resolver.discoverRemotes(executionContext, directory)
	}

	set := newRemoteSet()
	if rawRemotes == nil {
		return set, newConfigurationError(directory, remotesEmptyMessageConstant)
	}

	remotesMapping, isMapping := asMapping(rawRemotes)
	if !isMapping {
		return set, newConfigurationError(directory, remotesNotMappingMessageConstant)
	}

	for _, remoteName := range remotesMapping.Keys() {
		rawURL, _ := remotesMapping.Get(remoteName)
		remoteURL, isScalar := textValue(rawURL)
		if !isScalar {
			return set, newConfigurationError(directory, remoteURLNotScalarTemplateConstant, remoteName)
		}
		if isEmptyValue(rawURL) || len(remoteURL) == 0 {
			return set, newConfigurationError(directory, remoteURLMissingTemplateConstant, remoteName)
		}
		set.add(Remote{Name: remoteName, URL: remoteURL})
	}

	if len(set.remotes) == 0 {
		return set, newConfigurationError(directory, remotesEmptyMessageConstant)
	}

	return set, nil
}

func (resolver *Resolver) discoverRemotes(executionContext context.Context, directory string) (remoteSet, error) {
	set := newRemoteSet()
	if resolver.querier == nil {
		return set, newConfigurationError(directory, remotesUndefinedMessageConstant)
	}

	discoveredRemotes, discoveryError := resolver.querier.ListRemotes(executionContext, directory)
	if discoveryError != nil || len(discoveredRemotes) == 0 {
		return set, newConfigurationError(directory, remotesUndefinedMessageConstant)
	}

	for _, remote := range discoveredRemotes {
		set.add(remote)
	}
	return set, nil
}
