package aggregate

import (
	"context"
	"strings"
)

const (
	mergesKeyConstant                    = "merges"
	mergeRemoteKeyConstant               = "remote"
	mergeReferenceKeyConstant            = "ref"
	mergeTextSeparatorConstant           = " "
	mergeTextTokenCountConstant          = 2
	mergesUndefinedMessageConstant       = "merges is not defined."
	mergesNotSequenceMessageConstant     = "merges must be a list."
	mergesEmptyMessageConstant           = "You should at least define one merge."
	mergeFormatMessageConstant           = "Merge must be formatted as \"remote_name ref\"."
	mergeMissingKeysMessageConstant      = "Merge lacks mandatory `remote` or `ref` keys."
	mergeRemoteUndefinedTemplateConstant = "Merge remote %s not defined in remotes."
)

// MergeEntryKind distinguishes the accepted merge entry shapes.
type MergeEntryKind int

// Supported merge entry shapes.
const (
	// MergeEntryText is a single "remote ref" string.
	MergeEntryText MergeEntryKind = iota
	// MergeEntryFields is a mapping carrying remote and ref keys.
	MergeEntryFields
	// MergeEntryUnsupported is any other value.
	MergeEntryUnsupported
)

// MergeEntry is one raw merge instruction classified by shape.
type MergeEntry struct {
	Kind   MergeEntryKind
	Text   string
	Fields *Mapping
}

// ClassifyMergeEntry determines the shape of a raw merge entry.
func ClassifyMergeEntry(rawEntry any) MergeEntry {
	if text, isText := rawEntry.(string); isText {
		return MergeEntry{Kind: MergeEntryText, Text: text}
	}
	if fields, isMapping := asMapping(rawEntry); isMapping {
		return MergeEntry{Kind: MergeEntryFields, Fields: fields}
	}
	return MergeEntry{Kind: MergeEntryUnsupported}
}

// Merge converts the entry into a Merge, or returns a ConfigurationError for directory.
func (entry MergeEntry) Merge(directory string) (Merge, error) {
	switch entry.Kind {
	case MergeEntryText:
		parts := strings.Split(entry.Text, mergeTextSeparatorConstant)
		if len(parts) != mergeTextTokenCountConstant || len(parts[0]) == 0 || len(parts[1]) == 0 {
			return Merge{}, newConfigurationError(directory, mergeFormatMessageConstant)
		}
		return Merge{Remote: parts[0], Ref: parts[1]}, nil
	case MergeEntryFields:
		rawRemote, remoteDefined := entry.Fields.Get(mergeRemoteKeyConstant)
		rawReference, referenceDefined := entry.Fields.Get(mergeReferenceKeyConstant)
		if !remoteDefined || !referenceDefined {
			return Merge{}, newConfigurationError(directory, mergeMissingKeysMessageConstant)
		}
		remoteName, remoteIsScalar := textValue(rawRemote)
		reference, referenceIsScalar := textValue(rawReference)
		if !remoteIsScalar || !referenceIsScalar {
			return Merge{}, newConfigurationError(directory, mergeFormatMessageConstant)
		}
		return Merge{Remote: remoteName, Ref: reference}, nil
	default:
		return Merge{}, newConfigurationError(directory, mergeFormatMessageConstant)
	}
}

func normalizeMerges(directory string, repositoryData *Mapping, remotes remoteSet) ([]Merge, error) {
	rawMerges, mergesDefined := repositoryData.Get(mergesKeyConstant)
	if !mergesDefined {
		return nil, newConfigurationError(directory, mergesUndefinedMessageConstant)
	}

	var mergeEntries []any
	if rawMerges != nil {
		sequence, isSequence := asSequence(rawMerges)
		if !isSequence {
			return nil, newConfigurationError(directory, mergesNotSequenceMessageConstant)
		}
		mergeEntries = sequence
	}

	merges := make([]Merge, 0, len(mergeEntries))
	for _, rawEntry := range mergeEntries {
		merge, mergeError := ClassifyMergeEntry(rawEntry).Merge(directory)
		if mergeError != nil {
			return nil, mergeError
		}
		if !remotes.contains(merge.Remote) {
			return nil, newConfigurationError(directory, mergeRemoteUndefinedTemplateConstant, merge.Remote)
		}
		merges = append(merges, merge)
	}

	if len(merges) == 0 {
		return nil, newConfigurationError(directory, mergesEmptyMessageConstant)
	}

	return merges, nil
}

// preflight updates the working copy remotes and drops merges whose ref is
// missing on the remote. A directory left without merges is a ConfigurationError.
func (resolver *Resolver) preflight(executionContext context.Context, pending pendingRepository) (RepoSpec, error) {
	spec := pending.spec
	if !pending.checkReferences {
		return spec, nil
	}

	resolver.applyRemotes(executionContext, spec.Directory, pending.remotes)

	merges := make([]Merge, 0, len(spec.Merges))
	for _, merge := range spec.Merges {
		if !resolver.referenceAvailable(executionContext, spec.Directory, merge) {
			continue
		}
		merges = append(merges, merge)
	}

	if len(merges) == 0 {
		return RepoSpec{}, newConfigurationError(spec.Directory, mergesEmptyMessageConstant)
	}

	spec.Merges = merges
	return spec, nil
}

// referenceAvailable reports whether merge should be kept after the remote pre-flight.
// Query failures keep the merge; only a clean miss on a symbolic ref drops it.
func (resolver *Resolver) referenceAvailable(executionContext context.Context, directory string, merge Merge) bool {
	reference, queryError := resolver.querier.QueryRemoteRef(executionContext, directory, merge.Remote, merge.Ref)
	if queryError != nil {
		resolver.diagnostics.Warn(Diagnostic{
			Directory: directory,
			Kind:      DiagnosticReferenceQueryFailed,
			Remote:    merge.Remote,
			Ref:       merge.Ref,
			Cause:     queryError,
		})
		return true
	}

	if !reference.Found() && !IsHexReference(merge.Ref) {
		resolver.diagnostics.Warn(Diagnostic{
			Directory: directory,
			Kind:      DiagnosticReferenceNotFound,
			Remote:    merge.Remote,
			Ref:       merge.Ref,
		})
		return false
	}

	return true
}

func (resolver *Resolver) applyRemotes(executionContext context.Context, directory string, remotes remoteSet) {
	for _, remote := range remotes.remotes {
		setError := resolver.querier.SetRemote(executionContext, directory, remote.Name, remote.URL)
		if setError == nil {
			continue
		}
		resolver.diagnostics.Warn(Diagnostic{
			Directory: directory,
			Kind:      DiagnosticRemoteUpdateFailed,
			Remote:    remote.Name,
			URL:       remote.URL,
			Cause:     setError,
		})
	}
}

func (resolver *Resolver) workingCopyExists(directory string) bool {
	if resolver.fileSystem == nil {
		return false
	}
	fileInfo, statError := resolver.fileSystem.Stat(directory)
	if statError != nil {
		return false
	}
	return fileInfo.IsDir()
}
