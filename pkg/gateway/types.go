package gateway

import "github.com/pthm/bigbang/pkg/model"

// PartitionKeyKindHash is the only partition key kind the tool creates.
const PartitionKeyKindHash = "Hash"

// ContainerProperties is a container definition as sent to and reported by
// the service.
type ContainerProperties struct {
	ID                string                 `json:"id"`
	PartitionKey      *PartitionKey          `json:"partitionKey,omitempty"`
	IndexingPolicy    *model.IndexingPolicy  `json:"indexingPolicy,omitempty"`
	UniqueKeyPolicy   *model.UniqueKeyPolicy `json:"uniqueKeyPolicy,omitempty"`
	DefaultTimeToLive *int                   `json:"defaultTtl,omitempty"`

	// Values provided by Cosmos after creation
	ResourceID string `json:"_rid,omitempty"`
	Self       string `json:"_self,omitempty"`
	ETag       string `json:"_etag,omitempty"`
	Timestamp  int64  `json:"_ts,omitempty"`
}

// PartitionKey is the partition key definition of a container.
type PartitionKey struct {
	Paths   []string `json:"paths"`
	Kind    string   `json:"kind,omitempty"`
	Version int      `json:"version,omitempty"`
}

// NewPartitionKey returns a hash partition key definition over one path.
func NewPartitionKey(path string) *PartitionKey {
	return &PartitionKey{Paths: []string{path}, Kind: PartitionKeyKindHash, Version: 2}
}

// Path returns the first partition key path, or "" when none is defined.
func (p *PartitionKey) Path() string {
	if p == nil || len(p.Paths) == 0 {
		return ""
	}
	return p.Paths[0]
}

// ScriptSummary is the identity of a live stored procedure or user-defined
// function. Only the id takes part in reconciliation.
type ScriptSummary struct {
	ID         string `json:"id"`
	ResourceID string `json:"_rid,omitempty"`
	ETag       string `json:"_etag,omitempty"`
}

// ScriptIDs returns the ids of summaries in order.
func ScriptIDs(summaries []ScriptSummary) []string {
	ids := make([]string, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.ID)
	}
	return ids
}
