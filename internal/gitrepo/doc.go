// Package gitrepo interrogates and updates git working copies on behalf of the
// aggregation resolver.
//
// RepositoryManager lists and updates remotes and queries references on
// remotes through execshell, memoizing reference lookups for the lifetime of
// the manager.
package gitrepo
