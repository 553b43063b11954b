package resolve_test

import (
	"context"
	"strings"
	"sync"

	"github.com/temirov/gitagg/internal/aggregate"
	"github.com/temirov/gitagg/internal/execshell"
)

type stubRemoteQuerier struct {
	mutex          sync.Mutex
	references     map[string]aggregate.RemoteReference
	setRemoteCalls []aggregate.Remote
	queried        []string
}

func (querier *stubRemoteQuerier) ListRemotes(context.Context, string) ([]aggregate.Remote, error) {
	return nil, nil
}

func (querier *stubRemoteQuerier) SetRemote(_ context.Context, _ string, remoteName string, remoteURL string) error {
	querier.mutex.Lock()
	defer querier.mutex.Unlock()
	querier.setRemoteCalls = append(querier.setRemoteCalls, aggregate.Remote{Name: remoteName, URL: remoteURL})
	return nil
}

func (querier *stubRemoteQuerier) QueryRemoteRef(_ context.Context, _ string, remoteName string, reference string) (aggregate.RemoteReference, error) {
	querier.mutex.Lock()
	defer querier.mutex.Unlock()
	key := remoteName + " " + reference
	querier.queried = append(querier.queried, key)
	return querier.references[key], nil
}

type scriptedCommandRunner struct {
	mutex     sync.Mutex
	responses map[string]string
	executed  []string
}

func (runner *scriptedCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	key := strings.Join(command.Details.Arguments, " ")
	runner.executed = append(runner.executed, key)
	return execshell.ExecutionResult{StandardOutput: runner.responses[key]}, nil
}
