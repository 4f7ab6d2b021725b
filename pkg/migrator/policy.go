package migrator

import (
	"github.com/pthm/bigbang/pkg/gateway"
	"github.com/pthm/bigbang/pkg/model"
)

// createProperties builds the definition sent when creating a container.
// The indexing policy is only sent when declared, leaving the service default
// in place otherwise.
func createProperties(c model.Container) gateway.ContainerProperties {
	return gateway.ContainerProperties{
		ID:                c.ID,
		PartitionKey:      gateway.NewPartitionKey(c.PartitionKey),
		DefaultTimeToLive: c.TimeToLive(),
		UniqueKeyPolicy:   c.UniqueKeyPolicyOrEmpty(),
		IndexingPolicy:    c.IndexingPolicy,
	}
}

// replaceProperties builds the full replacement definition for an existing
// container. Unlike createProperties it always sends an indexing policy,
// falling back to model.DefaultIndexingPolicy.
func replaceProperties(c model.Container, live gateway.ContainerProperties) gateway.ContainerProperties {
	return gateway.ContainerProperties{
		ID:                live.ID,
		PartitionKey:      replacePartitionKey(c.PartitionKey, live.PartitionKey),
		DefaultTimeToLive: c.TimeToLive(),
		UniqueKeyPolicy:   c.UniqueKeyPolicyOrEmpty(),
		IndexingPolicy:    c.IndexingPolicyOrDefault(),
	}
}

// replacePartitionKey sends the declared path with the live kind and version.
// The service rejects a replace that changes either of them.
func replacePartitionKey(path string, live *gateway.PartitionKey) *gateway.PartitionKey {
	pk := gateway.NewPartitionKey(path)
	if live != nil {
		if live.Kind != "" {
			pk.Kind = live.Kind
		}
		pk.Version = live.Version
	}
	return pk
}
