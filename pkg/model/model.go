// Package model defines the desired-state topology of a Cosmos DB database.
//
// A Database is decoded once per run from the desired-state document (see
// pkg/parser) and is read-only afterwards. It describes the database, its
// containers, and each container's partitioning, indexing, unique keys,
// time-to-live, throughput and server-side scripts.
//
// Field names follow the JSON document format:
//
//	{
//	  "id": "db1",
//	  "throughput": 400,
//	  "updateThroughput": true,
//	  "containers": [
//	    {
//	      "id": "orders",
//	      "partitionKey": "/customerId",
//	      "defaultTimeToLive": -1,
//	      "storedProcedures": ["sprocs/bulkDelete.js"]
//	    }
//	  ]
//	}
package model

// NoExpiry is the DefaultTimeToLive value enabling TTL on a container
// without expiring items by default.
const NoExpiry = -1

// Database is the desired state of one Cosmos DB database.
type Database struct {
	ID string `json:"id" toml:"id"`

	// Throughput is the database-level provisioned throughput in RU/s.
	Throughput *int `json:"throughput,omitempty" toml:"throughput,omitempty"`

	// UpdateThroughput enables container throughput replacement for
	// containers that already exist.
	UpdateThroughput bool `json:"updateThroughput,omitempty" toml:"updateThroughput,omitempty"`

	Containers []Container `json:"containers" toml:"containers"`

	// BaseDir is the absolute directory of the document the database was
	// loaded from. Relative script paths resolve against it.
	BaseDir string `json:"-" toml:"-"`
}

// Container is the desired state of one container.
type Container struct {
	ID string `json:"id" toml:"id"`

	// PartitionKey is the partition key path, e.g. "/tenantId". It cannot be
	// changed once the container exists but is still sent on replace.
	PartitionKey string `json:"partitionKey" toml:"partitionKey"`

	IndexingPolicy  *IndexingPolicy  `json:"indexingPolicy,omitempty" toml:"indexingPolicy,omitempty"`
	UniqueKeyPolicy *UniqueKeyPolicy `json:"uniqueKeyPolicy,omitempty" toml:"uniqueKeyPolicy,omitempty"`

	// DefaultTimeToLive is in seconds. Nil or 0 leaves TTL off, NoExpiry
	// enables TTL without a default expiry.
	DefaultTimeToLive *int `json:"defaultTimeToLive,omitempty" toml:"defaultTimeToLive,omitempty"`

	Throughput *int `json:"throughput,omitempty" toml:"throughput,omitempty"`

	StoredProcedures     []string `json:"storedProcedures,omitempty" toml:"storedProcedures,omitempty"`
	UserDefinedFunctions []string `json:"userDefinedFunctions,omitempty" toml:"userDefinedFunctions,omitempty"`

	// Scripts holds the resolved script bodies, populated by the parser.
	Scripts []Script `json:"-" toml:"-"`
}

// TimeToLive returns the TTL to send to the service, or nil when TTL is off.
// The document unit and the service unit are both seconds.
func (c *Container) TimeToLive() *int {
	if c.DefaultTimeToLive == nil || *c.DefaultTimeToLive == 0 {
		return nil
	}
	ttl := *c.DefaultTimeToLive
	return &ttl
}

// ScriptsOf returns the container's resolved scripts of the given kind, in
// document order.
func (c *Container) ScriptsOf(kind ScriptKind) []Script {
	var out []Script
	for _, s := range c.Scripts {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// ScriptPaths returns the declared file references of the given kind.
func (c *Container) ScriptPaths(kind ScriptKind) []string {
	switch kind {
	case StoredProcedure:
		return c.StoredProcedures
	case UserDefinedFunction:
		return c.UserDefinedFunctions
	default:
		return nil
	}
}

// ContainerIDs returns the ids of the database's containers in order.
func (d *Database) ContainerIDs() []string {
	ids := make([]string, 0, len(d.Containers))
	for _, c := range d.Containers {
		ids = append(ids, c.ID)
	}
	return ids
}
