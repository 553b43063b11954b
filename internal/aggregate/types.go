package aggregate

import (
	"context"
	"io/fs"
)

const (
	// DefaultTargetBranch names the branch aggregated commits land on when no target is configured.
	DefaultTargetBranch = "_git_aggregated"
)

// Remote is a named source repository location.
type Remote struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// Merge instructs downstream tooling to merge Ref from Remote.
type Merge struct {
	Remote string `yaml:"remote" json:"remote"`
	Ref    string `yaml:"ref" json:"ref"`
}

// Target identifies the branch aggregated commits are assembled onto.
// A nil Remote means the target is local only.
type Target struct {
	Remote *string `yaml:"remote" json:"remote"`
	Branch string  `yaml:"branch" json:"branch"`
}

// RemoteName returns the target remote, or an empty string when none is set.
func (target Target) RemoteName() string {
	if target.Remote == nil {
		return ""
	}
	return *target.Remote
}

// FetchMode enumerates fetch scope behaviors.
type FetchMode string

// Supported fetch modes.
const (
	FetchModeRequired FetchMode = FetchMode("required")
	FetchModeAll      FetchMode = FetchMode("all")
	FetchModeSelected FetchMode = FetchMode("selected")
)

// FetchScope describes which remotes are fetched in full.
type FetchScope struct {
	Mode    FetchMode `yaml:"mode" json:"mode"`
	Remotes []string  `yaml:"remotes,omitempty" json:"remotes,omitempty"`
}

// FetchesAll reports whether every remote is fetched regardless of merges.
func (scope FetchScope) FetchesAll() bool {
	return scope.Mode == FetchModeAll
}

// Includes reports whether remoteName is eagerly fetched.
func (scope FetchScope) Includes(remoteName string) bool {
	switch scope.Mode {
	case FetchModeAll:
		return true
	case FetchModeSelected:
		for _, candidate := range scope.Remotes {
			if candidate == remoteName {
				return true
			}
		}
	}
	return false
}

// RepoSpec is the validated description of one aggregated working copy.
type RepoSpec struct {
	Directory         string         `yaml:"cwd" json:"cwd"`
	Defaults          map[string]any `yaml:"defaults" json:"defaults"`
	Force             bool           `yaml:"force" json:"force"`
	SkipDryRun        bool           `yaml:"skip_dry_run" json:"skip_dry_run"`
	ApplyPatch        bool           `yaml:"apply_patch" json:"apply_patch"`
	SkipRepoInit      bool           `yaml:"skip_repo_init" json:"skip_repo_init"`
	Remotes           []Remote       `yaml:"remotes" json:"remotes"`
	Merges            []Merge        `yaml:"merges" json:"merges"`
	FetchAll          FetchScope     `yaml:"fetch_all" json:"fetch_all"`
	Target            Target         `yaml:"target" json:"target"`
	ShellCommandAfter []string       `yaml:"shell_command_after" json:"shell_command_after"`
}

// RemoteNames returns the remote names in configuration order.
func (spec RepoSpec) RemoteNames() []string {
	names := make([]string, 0, len(spec.Remotes))
	for _, remote := range spec.Remotes {
		names = append(names, remote.Name)
	}
	return names
}

// ReferenceType classifies a reference found on a remote.
type ReferenceType string

// Supported reference types. ReferenceTypeNone signals the reference was not found.
const (
	ReferenceTypeNone   ReferenceType = ReferenceType("")
	ReferenceTypeBranch ReferenceType = ReferenceType("branch")
	ReferenceTypeTag    ReferenceType = ReferenceType("tag")
	ReferenceTypePull   ReferenceType = ReferenceType("pull")
	ReferenceTypeHead   ReferenceType = ReferenceType("HEAD")
)

// RemoteReference is the outcome of querying a reference on a remote.
type RemoteReference struct {
	Type ReferenceType
	Hash string
}

// Found reports whether the reference resolved on the remote.
func (reference RemoteReference) Found() bool {
	return reference.Type != ReferenceTypeNone
}

// RemoteQuerier exposes the read-mostly git operations the resolver consults.
type RemoteQuerier interface {
	ListRemotes(executionContext context.Context, workingDirectory string) ([]Remote, error)
	SetRemote(executionContext context.Context, workingDirectory string, remoteName string, remoteURL string) error
	QueryRemoteRef(executionContext context.Context, workingDirectory string, remoteName string, reference string) (RemoteReference, error)
}

// FileSystem exposes the filesystem operations required for path normalization.
type FileSystem interface {
	Abs(path string) (string, error)
	Stat(path string) (fs.FileInfo, error)
}
