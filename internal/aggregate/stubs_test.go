package aggregate_test

import (
	"context"
	"sync"

	"github.com/temirov/gitagg/internal/aggregate"
)

type stubRemoteQuerier struct {
	mutex             sync.Mutex
	discoveredRemotes []aggregate.Remote
	listError         error
	references        map[string]aggregate.RemoteReference
	queryErrors       map[string]error
	setRemoteError    error
	listedDirectories []string
	setRemoteCalls    []aggregate.Remote
	queriedReferences []string
}

func (querier *stubRemoteQuerier) ListRemotes(executionContext context.Context, workingDirectory string) ([]aggregate.Remote, error) {
	querier.mutex.Lock()
	defer querier.mutex.Unlock()
	querier.listedDirectories = append(querier.listedDirectories, workingDirectory)
	if querier.listError != nil {
		return nil, querier.listError
	}
	return append([]aggregate.Remote{}, querier.discoveredRemotes...), nil
}

func (querier *stubRemoteQuerier) SetRemote(executionContext context.Context, workingDirectory string, remoteName string, remoteURL string) error {
	querier.mutex.Lock()
	defer querier.mutex.Unlock()
	querier.setRemoteCalls = append(querier.setRemoteCalls, aggregate.Remote{Name: remoteName, URL: remoteURL})
	return querier.setRemoteError
}

func (querier *stubRemoteQuerier) QueryRemoteRef(executionContext context.Context, workingDirectory string, remoteName string, reference string) (aggregate.RemoteReference, error) {
	querier.mutex.Lock()
	defer querier.mutex.Unlock()
	key := remoteName + " " + reference
	querier.queriedReferences = append(querier.queriedReferences, key)
	if queryError, failing := querier.queryErrors[key]; failing {
		return aggregate.RemoteReference{}, queryError
	}
	return querier.references[key], nil
}

func (querier *stubRemoteQuerier) queried() []string {
	querier.mutex.Lock()
	defer querier.mutex.Unlock()
	return append([]string{}, querier.queriedReferences...)
}

func mappingOf(keysAndValues ...any) *aggregate.Mapping {
	mapping := aggregate.NewMapping()
	for index := 0; index+1 < len(keysAndValues); index += 2 {
		mapping.Set(keysAndValues[index].(string), keysAndValues[index+1])
	}
	return mapping
}
