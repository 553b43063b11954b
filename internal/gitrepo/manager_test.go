package gitrepo_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitagg/internal/aggregate"
	"github.com/temirov/gitagg/internal/execshell"
	"github.com/temirov/gitagg/internal/gitrepo"
)

const (
	testWorkingDirectoryConstant = "/srv/odoo"
	testRemoteListingConstant    = "origin\thttps://github.com/odoo/odoo.git (fetch)\n" +
		"origin\thttps://github.com/odoo/odoo.git (push)\n" +
		"oca\thttps://github.com/OCA/OCB.git (fetch)\n" +
		"oca\thttps://github.com/OCA/OCB.git (push)\n"
	testBranchHashConstant = "1111111111111111111111111111111111111111"
	testTagHashConstant    = "2222222222222222222222222222222222222222"
	testPullHashConstant   = "3333333333333333333333333333333333333333"
	testHeadHashConstant   = "4444444444444444444444444444444444444444"
)

type scriptedGitExecutor struct {
	responses        map[string]execshell.ExecutionResult
	failures         map[string]error
	recordedCommands [][]string
}

func (executor *scriptedGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details.Arguments)
	key := strings.Join(details.Arguments, " ")
	if failure, failing := executor.failures[key]; failing {
		return execshell.ExecutionResult{}, failure
	}
	return executor.responses[key], nil
}

func (executor *scriptedGitExecutor) commands() []string {
	commands := make([]string, 0, len(executor.recordedCommands))
	for _, arguments := range executor.recordedCommands {
		commands = append(commands, strings.Join(arguments, " "))
	}
	return commands
}

func TestNewRepositoryManagerRequiresExecutor(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.Nil(testInstance, manager)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrExecutorNotConfigured)
}

func TestListRemotesParsesFetchEntries(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]execshell.ExecutionResult{
		"remote -v": {StandardOutput: testRemoteListingConstant},
	}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	remotes, listError := manager.ListRemotes(context.Background(), testWorkingDirectoryConstant)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []aggregate.Remote{
		{Name: "origin", URL: "https://github.com/odoo/odoo.git"},
		{Name: "oca", URL: "https://github.com/OCA/OCB.git"},
	}, remotes)
}

func TestListRemotesSurfacesFailures(testInstance *testing.T) {
	gitFailure := errors.New("not a git repository")
	executor := &scriptedGitExecutor{failures: map[string]error{"remote -v": gitFailure}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	_, listError := manager.ListRemotes(context.Background(), testWorkingDirectoryConstant)
	require.ErrorIs(testInstance, listError, gitFailure)

	var operationError gitrepo.OperationError
	require.True(testInstance, errors.As(listError, &operationError))
	require.Equal(testInstance, gitrepo.OperationName("ListRemotes"), operationError.Operation)
}

func TestSetRemote(testInstance *testing.T) {
	testCases := []struct {
		name             string
		remoteName       string
		remoteURL        string
		expectedCommands []string
	}{
		{
			name:             "unchanged_remote",
			remoteName:       "origin",
			remoteURL:        "https://github.com/odoo/odoo.git",
			expectedCommands: []string{"remote -v"},
		},
		{
			name:             "changed_url",
			remoteName:       "origin",
			remoteURL:        "https://github.com/acme/odoo.git",
			expectedCommands: []string{"remote -v", "remote set-url origin https://github.com/acme/odoo.git"},
		},
		{
			name:             "missing_remote",
			remoteName:       "acme",
			remoteURL:        "https://github.com/acme/odoo.git",
			expectedCommands: []string{"remote -v", "remote add acme https://github.com/acme/odoo.git"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedGitExecutor{responses: map[string]execshell.ExecutionResult{
				"remote -v": {StandardOutput: testRemoteListingConstant},
			}}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			setError := manager.SetRemote(context.Background(), testWorkingDirectoryConstant, testCase.remoteName, testCase.remoteURL)
			require.NoError(testInstance, setError)
			require.Equal(testInstance, testCase.expectedCommands, executor.commands())
		})
	}
}

func TestSetRemoteRejectsEmptyURL(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	setError := manager.SetRemote(context.Background(), testWorkingDirectoryConstant, "origin", " ")
	var inputError gitrepo.InvalidInputError
	require.True(testInstance, errors.As(setError, &inputError))
	require.Empty(testInstance, executor.recordedCommands)
}

func TestQueryRemoteRefClassifiesReferences(testInstance *testing.T) {
	testCases := []struct {
		name              string
		reference         string
		output            string
		expectedReference aggregate.RemoteReference
	}{
		{
			name:              "branch",
			reference:         "14.0",
			output:            testBranchHashConstant + "\trefs/heads/14.0\n",
			expectedReference: aggregate.RemoteReference{Type: aggregate.ReferenceTypeBranch, Hash: testBranchHashConstant},
		},
		{
			name:              "tag",
			reference:         "v1.0",
			output:            testTagHashConstant + "\trefs/tags/v1.0\n",
			expectedReference: aggregate.RemoteReference{Type: aggregate.ReferenceTypeTag, Hash: testTagHashConstant},
		},
		{
			name:              "branch_preferred_over_tag",
			reference:         "release",
			output:            testTagHashConstant + "\trefs/tags/release\n" + testBranchHashConstant + "\trefs/heads/release\n",
			expectedReference: aggregate.RemoteReference{Type: aggregate.ReferenceTypeBranch, Hash: testBranchHashConstant},
		},
		{
			name:              "pull_request",
			reference:         "refs/pull/42/head",
			output:            testPullHashConstant + "\trefs/pull/42/head\n",
			expectedReference: aggregate.RemoteReference{Type: aggregate.ReferenceTypePull, Hash: testPullHashConstant},
		},
		{
			name:              "pull_request_short_form",
			reference:         "42/head",
			output:            testPullHashConstant + "\trefs/pull/42/head\n",
			expectedReference: aggregate.RemoteReference{Type: aggregate.ReferenceTypePull, Hash: testPullHashConstant},
		},
		{
			name:              "head",
			reference:         "HEAD",
			output:            testHeadHashConstant + "\tHEAD\n",
			expectedReference: aggregate.RemoteReference{Type: aggregate.ReferenceTypeHead, Hash: testHeadHashConstant},
		},
		{
			name:              "not_found",
			reference:         "missing",
			output:            "",
			expectedReference: aggregate.RemoteReference{Type: aggregate.ReferenceTypeNone},
		},
		{
			name:              "suffix_match_ignored",
			reference:         "14.0",
			output:            testBranchHashConstant + "\trefs/heads/feature/14.0\n",
			expectedReference: aggregate.RemoteReference{Type: aggregate.ReferenceTypeNone},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedGitExecutor{responses: map[string]execshell.ExecutionResult{
				"ls-remote origin " + testCase.reference: {StandardOutput: testCase.output},
			}}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			reference, queryError := manager.QueryRemoteRef(context.Background(), testWorkingDirectoryConstant, "origin", testCase.reference)
			require.NoError(testInstance, queryError)
			require.Equal(testInstance, testCase.expectedReference, reference)
		})
	}
}

func TestQueryRemoteRefMemoizesUntilRemoteChanges(testInstance *testing.T) {
	executor := &scriptedGitExecutor{responses: map[string]execshell.ExecutionResult{
		"remote -v":             {StandardOutput: testRemoteListingConstant},
		"ls-remote origin 14.0": {StandardOutput: testBranchHashConstant + "\trefs/heads/14.0\n"},
	}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	for attempt := 0; attempt < 2; attempt++ {
		reference, queryError := manager.QueryRemoteRef(context.Background(), testWorkingDirectoryConstant, "origin", "14.0")
		require.NoError(testInstance, queryError)
		require.True(testInstance, reference.Found())
	}
	require.Equal(testInstance, []string{"ls-remote origin 14.0"}, executor.commands())

	require.NoError(testInstance, manager.SetRemote(context.Background(), testWorkingDirectoryConstant, "origin", "https://github.com/acme/odoo.git"))
	_, queryError := manager.QueryRemoteRef(context.Background(), testWorkingDirectoryConstant, "origin", "14.0")
	require.NoError(testInstance, queryError)
	require.Equal(testInstance, []string{
		"ls-remote origin 14.0",
		"remote -v",
		"remote set-url origin https://github.com/acme/odoo.git",
		"ls-remote origin 14.0",
	}, executor.commands())
}

func TestQueryRemoteRefDoesNotCacheFailures(testInstance *testing.T) {
	networkFailure := errors.New("could not resolve host")
	executor := &scriptedGitExecutor{failures: map[string]error{"ls-remote origin 14.0": networkFailure}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	for attempt := 0; attempt < 2; attempt++ {
		_, queryError := manager.QueryRemoteRef(context.Background(), testWorkingDirectoryConstant, "origin", "14.0")
		require.ErrorIs(testInstance, queryError, networkFailure)
	}
	require.Len(testInstance, executor.recordedCommands, 2)
}
