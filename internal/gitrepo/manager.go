package gitrepo

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/temirov/gitagg/internal/aggregate"
	"github.com/temirov/gitagg/internal/execshell"
)

const (
	gitRemoteSubcommandConstant        = "remote"
	gitRemoteVerboseFlagConstant       = "-v"
	gitRemoteAddSubcommandConstant     = "add"
	gitRemoteSetURLSubcommandConstant  = "set-url"
	gitLSRemoteSubcommandConstant      = "ls-remote"
	remoteFetchMarkerConstant          = "(fetch)"
	branchReferencePrefixConstant      = "refs/heads/"
	tagReferencePrefixConstant         = "refs/tags/"
	pullReferencePrefixConstant        = "refs/pull/"
	referencePrefixConstant            = "refs/"
	headReferenceConstant              = "HEAD"
	referenceCacheKeySeparatorConstant = "\x00"
	workingDirectoryFieldNameConstant  = "working_directory"
	remoteNameFieldNameConstant        = "remote_name"
	remoteURLFieldNameConstant         = "remote_url"
	referenceFieldNameConstant         = "reference"

	// DefaultReferenceCacheSize bounds the number of memoized reference lookups.
	DefaultReferenceCacheSize = 512
)

// GitCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitCommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager implements aggregate.RemoteQuerier on top of the git CLI.
type RepositoryManager struct {
	executor   GitCommandExecutor
	references *lru.Cache[string, aggregate.RemoteReference]
}

// NewRepositoryManager constructs a RepositoryManager with the default reference cache size.
func NewRepositoryManager(executor GitCommandExecutor) (*RepositoryManager, error) {
	return NewRepositoryManagerWithCacheSize(executor, DefaultReferenceCacheSize)
}

// NewRepositoryManagerWithCacheSize constructs a RepositoryManager memoizing up to cacheSize reference lookups.
func NewRepositoryManagerWithCacheSize(executor GitCommandExecutor, cacheSize int) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if cacheSize < 1 {
		cacheSize = DefaultReferenceCacheSize
	}
	references, cacheError := lru.New[string, aggregate.RemoteReference](cacheSize)
	if cacheError != nil {
		return nil, cacheError
	}
	return &RepositoryManager{executor: executor, references: references}, nil
}

// ListRemotes returns the fetch remotes of the working copy in the order git reports them.
func (manager *RepositoryManager) ListRemotes(executionContext context.Context, workingDirectory string) ([]aggregate.Remote, error) {
	if len(strings.TrimSpace(workingDirectory)) == 0 {
		return nil, InvalidInputError{FieldName: workingDirectoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteVerboseFlagConstant},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return nil, OperationError{Operation: listRemotesOperationNameConstant, Cause: executionError}
	}

	return parseRemoteListing(executionResult.StandardOutput), nil
}

// SetRemote adds remoteName when it is missing and updates its URL when it differs.
func (manager *RepositoryManager) SetRemote(executionContext context.Context, workingDirectory string, remoteName string, remoteURL string) error {
	trimmedName := strings.TrimSpace(remoteName)
	if len(trimmedName) == 0 {
		return InvalidInputError{FieldName: remoteNameFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedURL := strings.TrimSpace(remoteURL)
	if len(trimmedURL) == 0 {
		return InvalidInputError{FieldName: remoteURLFieldNameConstant, Message: requiredValueMessageConstant}
	}

	existingRemotes, listError := manager.ListRemotes(executionContext, workingDirectory)
	if listError != nil {
		return OperationError{Operation: setRemoteOperationNameConstant, Cause: listError}
	}

	subcommand := gitRemoteAddSubcommandConstant
	for _, existingRemote := range existingRemotes {
		if existingRemote.Name != trimmedName {
			continue
		}
		if existingRemote.URL == trimmedURL {
			return nil
		}
		subcommand = gitRemoteSetURLSubcommandConstant
		break
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, subcommand, trimmedName, trimmedURL},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return OperationError{Operation: setRemoteOperationNameConstant, Cause: executionError}
	}

	// Memoized lookups may describe the previous URL.
	manager.references.Purge()
	return nil
}

// QueryRemoteRef looks reference up on remoteName. A reference git does not
// report yields a RemoteReference of type aggregate.ReferenceTypeNone.
func (manager *RepositoryManager) QueryRemoteRef(executionContext context.Context, workingDirectory string, remoteName string, reference string) (aggregate.RemoteReference, error) {
	if len(strings.TrimSpace(reference)) == 0 {
		return aggregate.RemoteReference{}, InvalidInputError{FieldName: referenceFieldNameConstant, Message: requiredValueMessageConstant}
	}

	cacheKey := strings.Join([]string{workingDirectory, remoteName, reference}, referenceCacheKeySeparatorConstant)
	if cached, found := manager.references.Get(cacheKey); found {
		return cached, nil
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitLSRemoteSubcommandConstant, remoteName, reference},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return aggregate.RemoteReference{}, OperationError{Operation: queryRemoteRefOperationNameConstant, Cause: executionError}
	}

	remoteReference := matchReference(executionResult.StandardOutput, reference)
	manager.references.Add(cacheKey, remoteReference)
	return remoteReference, nil
}

func parseRemoteListing(output string) []aggregate.Remote {
	remotes := make([]aggregate.Remote, 0)
	seen := make(map[string]struct{})
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[2] != remoteFetchMarkerConstant {
			continue
		}
		if _, duplicate := seen[fields[0]]; duplicate {
			continue
		}
		seen[fields[0]] = struct{}{}
		remotes = append(remotes, aggregate.Remote{Name: fields[0], URL: fields[1]})
	}
	return remotes
}

// matchReference scans ls-remote output for reference. Branches win over
// tags and tags over pull requests. Fully qualified names and HEAD match
// only themselves.
func matchReference(output string, reference string) aggregate.RemoteReference {
	candidates := []struct {
		name          string
		referenceType aggregate.ReferenceType
	}{
		{name: branchReferencePrefixConstant + reference, referenceType: aggregate.ReferenceTypeBranch},
		{name: tagReferencePrefixConstant + reference, referenceType: aggregate.ReferenceTypeTag},
		{name: pullReferencePrefixConstant + reference, referenceType: aggregate.ReferenceTypePull},
		{name: referencePrefixConstant + reference, referenceType: aggregate.ReferenceTypePull},
		{name: reference, referenceType: qualifiedReferenceType(reference)},
	}

	advertised := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		if _, exists := advertised[fields[1]]; !exists {
			advertised[fields[1]] = fields[0]
		}
	}

	for _, candidate := range candidates {
		if candidate.referenceType == aggregate.ReferenceTypeNone {
			continue
		}
		if hash, found := advertised[candidate.name]; found {
			return aggregate.RemoteReference{Type: candidate.referenceType, Hash: hash}
		}
	}
	return aggregate.RemoteReference{Type: aggregate.ReferenceTypeNone}
}

func qualifiedReferenceType(reference string) aggregate.ReferenceType {
	switch {
	case reference == headReferenceConstant:
		return aggregate.ReferenceTypeHead
	case strings.HasPrefix(reference, branchReferencePrefixConstant):
		return aggregate.ReferenceTypeBranch
	case strings.HasPrefix(reference, tagReferencePrefixConstant):
		return aggregate.ReferenceTypeTag
	case strings.HasPrefix(reference, referencePrefixConstant):
		return aggregate.ReferenceTypePull
	default:
		return aggregate.ReferenceTypeNone
	}
}
