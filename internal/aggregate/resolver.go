package aggregate

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	repositoryNotMappingMessageConstant = "repository configuration must be a mapping."
	directoryResolveErrorTemplate       = "unable to resolve directory: %v"
)

// Options carries caller flags for a resolution pass.
type Options struct {
	// Force marks every RepoSpec for aggregation even when its working copy is dirty.
	Force bool
	// SkipMergeCheck disables the remote pre-flight of merge references.
	SkipMergeCheck bool
	// Concurrency bounds how many directories resolve in parallel; values below 2 resolve sequentially.
	Concurrency int
}

// Dependencies captures collaborators consumed by Resolver. Every field is optional.
type Dependencies struct {
	RemoteQuerier RemoteQuerier
	FileSystem    FileSystem
	Diagnostics   DiagnosticSink
}

// Resolver turns aggregation configuration into RepoSpec records.
type Resolver struct {
	querier     RemoteQuerier
	fileSystem  FileSystem
	diagnostics DiagnosticSink
}

// NewResolver constructs a Resolver. Without a FileSystem relative directories
// are resolved with filepath.Abs and no working copy is considered present.
func NewResolver(dependencies Dependencies) *Resolver {
	diagnostics := dependencies.Diagnostics
	if diagnostics == nil {
		diagnostics = discardDiagnosticSink{}
	}
	return &Resolver{
		querier:     dependencies.RemoteQuerier,
		fileSystem:  dependencies.FileSystem,
		diagnostics: diagnostics,
	}
}

// Resolve validates every directory of configuration in order. Every
// directory is validated before any remote is updated or queried, and the
// first ConfigurationError in input order aborts resolution with no specs.
func (resolver *Resolver) Resolve(executionContext context.Context, configuration *Mapping, options Options) ([]RepoSpec, error) {
	directories := configuration.Keys()
	pendingRepositories := make([]pendingRepository, 0, len(directories))
	for _, directory := range directories {
		repositoryData, _ := configuration.Get(directory)
		pending, validateError := resolver.validateDirectory(executionContext, directory, repositoryData, options)
		if validateError != nil {
			return nil, validateError
		}
		pendingRepositories = append(pendingRepositories, pending)
	}

	if options.Concurrency > 1 && len(pendingRepositories) > 1 {
		return resolver.preflightConcurrently(executionContext, pendingRepositories, options.Concurrency)
	}

	specs := make([]RepoSpec, 0, len(pendingRepositories))
	for _, pending := range pendingRepositories {
		spec, preflightError := resolver.preflight(executionContext, pending)
		if preflightError != nil {
			return nil, preflightError
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// preflightConcurrently keeps output and error reporting in input order: the
// surfaced error belongs to the earliest failing directory, and directories
// after a known failure are not touched.
func (resolver *Resolver) preflightConcurrently(executionContext context.Context, pendingRepositories []pendingRepository, concurrency int) ([]RepoSpec, error) {
	specs := make([]RepoSpec, len(pendingRepositories))
	failures := make([]error, len(pendingRepositories))

	var failureMutex sync.Mutex
	earliestFailure := len(pendingRepositories)

	group, groupContext := errgroup.WithContext(executionContext)
	group.SetLimit(concurrency)

	for repositoryIndex, pending := range pendingRepositories {
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}

			failureMutex.Lock()
			skip := repositoryIndex > earliestFailure
			failureMutex.Unlock()
			if skip {
				return nil
			}

			spec, preflightError := resolver.preflight(groupContext, pending)
			if preflightError != nil {
				failureMutex.Lock()
				failures[repositoryIndex] = preflightError
				if repositoryIndex < earliestFailure {
					earliestFailure = repositoryIndex
				}
				failureMutex.Unlock()
				return nil
			}
			specs[repositoryIndex] = spec
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}

	for _, failure := range failures {
		if failure != nil {
			return nil, failure
		}
	}
	return specs, nil
}

// ResolveDirectory validates a single directory entry and runs its remote pre-flight.
func (resolver *Resolver) ResolveDirectory(executionContext context.Context, directory string, rawRepositoryData any, options Options) (RepoSpec, error) {
	pending, validateError := resolver.validateDirectory(executionContext, directory, rawRepositoryData, options)
	if validateError != nil {
		return RepoSpec{}, validateError
	}
	return resolver.preflight(executionContext, pending)
}

// pendingRepository is a validated directory awaiting the remote pre-flight.
type pendingRepository struct {
	spec            RepoSpec
	remotes         remoteSet
	checkReferences bool
}

func (resolver *Resolver) validateDirectory(executionContext context.Context, directory string, rawRepositoryData any, options Options) (pendingRepository, error) {
	absoluteDirectory, absoluteError := resolver.absoluteDirectory(directory)
	if absoluteError != nil {
		return pendingRepository{}, newConfigurationError(directory, directoryResolveErrorTemplate, absoluteError)
	}

	repositoryData, isMapping := asMapping(rawRepositoryData)
	if !isMapping {
		return pendingRepository{}, newConfigurationError(absoluteDirectory, repositoryNotMappingMessageConstant)
	}

	defaults, defaultsError := normalizeDefaults(absoluteDirectory, repositoryData)
	if defaultsError != nil {
		return pendingRepository{}, defaultsError
	}

	flags, flagsError := decodeRepositoryFlags(absoluteDirectory, repositoryData)
	if flagsError != nil {
		return pendingRepository{}, flagsError
	}

	remotes, remotesError := resolver.normalizeRemotes(executionContext, absoluteDirectory, repositoryData)
	if remotesError != nil {
		return pendingRepository{}, remotesError
	}

	merges, mergesError := normalizeMerges(absoluteDirectory, repositoryData, remotes)
	if mergesError != nil {
		return pendingRepository{}, mergesError
	}

	fetchScope, fetchError := normalizeFetchScope(absoluteDirectory, repositoryData)
	if fetchError != nil {
		return pendingRepository{}, fetchError
	}

	target, targetError := normalizeTarget(absoluteDirectory, repositoryData, remotes)
	if targetError != nil {
		return pendingRepository{}, targetError
	}

	commands, commandsError := normalizeShellCommands(absoluteDirectory, repositoryData)
	if commandsError != nil {
		return pendingRepository{}, commandsError
	}

	return pendingRepository{
		spec: RepoSpec{
			Directory:         absoluteDirectory,
			Defaults:          defaults,
			Force:             options.Force,
			SkipDryRun:        flags.SkipDryRun,
			ApplyPatch:        flags.ApplyPatch,
			SkipRepoInit:      flags.SkipRepoInit,
			Remotes:           remotes.remotes,
			Merges:            merges,
			FetchAll:          fetchScope,
			Target:            target,
			ShellCommandAfter: commands,
		},
		remotes:         remotes,
		checkReferences: !options.SkipMergeCheck && resolver.querier != nil && resolver.workingCopyExists(absoluteDirectory),
	}, nil
}

func (resolver *Resolver) absoluteDirectory(directory string) (string, error) {
	if filepath.IsAbs(directory) {
		return filepath.Clean(directory), nil
	}
	if resolver.fileSystem != nil {
		return resolver.fileSystem.Abs(directory)
	}
	return filepath.Abs(directory)
}
