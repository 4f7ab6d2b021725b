package model

// IndexingMode values accepted by the service.
const (
	IndexingModeConsistent = "consistent"
	IndexingModeLazy       = "lazy"
	IndexingModeNone       = "none"
)

// IndexingPolicy mirrors the service's indexing policy resource.
type IndexingPolicy struct {
	Automatic        *bool              `json:"automatic,omitempty" toml:"automatic,omitempty"`
	IndexingMode     string             `json:"indexingMode,omitempty" toml:"indexingMode,omitempty"`
	IncludedPaths    []IncludedPath     `json:"includedPaths,omitempty" toml:"includedPaths,omitempty"`
	ExcludedPaths    []ExcludedPath     `json:"excludedPaths,omitempty" toml:"excludedPaths,omitempty"`
	CompositeIndexes [][]CompositeIndex `json:"compositeIndexes,omitempty" toml:"compositeIndexes,omitempty"`
	SpatialIndexes   []SpatialIndex     `json:"spatialIndexes,omitempty" toml:"spatialIndexes,omitempty"`
}

// IncludedPath is a path included in the index.
type IncludedPath struct {
	Path string `json:"path" toml:"path"`
}

// ExcludedPath is a path excluded from the index.
type ExcludedPath struct {
	Path string `json:"path" toml:"path"`
}

// CompositeIndex is one path of a composite index.
type CompositeIndex struct {
	Path  string `json:"path" toml:"path"`
	Order string `json:"order,omitempty" toml:"order,omitempty"`
}

// SpatialIndex indexes a path for the listed geometry types.
type SpatialIndex struct {
	Path  string   `json:"path" toml:"path"`
	Types []string `json:"types,omitempty" toml:"types,omitempty"`
}

// UniqueKeyPolicy mirrors the service's unique key policy resource.
type UniqueKeyPolicy struct {
	UniqueKeys []UniqueKey `json:"uniqueKeys" toml:"uniqueKeys"`
}

// UniqueKey is a set of paths whose combined values must be unique within a
// logical partition.
type UniqueKey struct {
	Paths []string `json:"paths" toml:"paths"`
}

// DefaultIndexingPolicy returns the policy applied on container replace when
// the document declares none: automatic indexing in consistent mode.
// Each call returns a fresh value.
func DefaultIndexingPolicy() *IndexingPolicy {
	automatic := true
	return &IndexingPolicy{
		Automatic:    &automatic,
		IndexingMode: IndexingModeConsistent,
	}
}

// EmptyUniqueKeyPolicy returns a policy with no unique keys.
func EmptyUniqueKeyPolicy() *UniqueKeyPolicy {
	return &UniqueKeyPolicy{UniqueKeys: []UniqueKey{}}
}

// IndexingPolicyOrDefault returns the declared policy, or DefaultIndexingPolicy.
func (c *Container) IndexingPolicyOrDefault() *IndexingPolicy {
	if c.IndexingPolicy != nil {
		return c.IndexingPolicy
	}
	return DefaultIndexingPolicy()
}

// UniqueKeyPolicyOrEmpty returns the declared policy, or an empty one.
func (c *Container) UniqueKeyPolicyOrEmpty() *UniqueKeyPolicy {
	if c.UniqueKeyPolicy != nil {
		return c.UniqueKeyPolicy
	}
	return EmptyUniqueKeyPolicy()
}
