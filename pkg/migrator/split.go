package migrator

import (
	"github.com/pthm/bigbang/pkg/gateway"
	"github.com/pthm/bigbang/pkg/model"
)

// Split partitions desired and observed containers by id.
//
//   - Create: desired containers with no observed counterpart.
//   - Update: desired containers that already exist.
//   - Delete: observed containers that are no longer desired.
//
// Every bucket keeps the order of its input.
type Split struct {
	Create []model.Container
	Update []Pair
	Delete []gateway.ContainerProperties
}

// Pair couples a desired container with its live counterpart.
type Pair struct {
	Desired  model.Container
	Observed gateway.ContainerProperties
}

// SplitContainers computes the three-way split of desired against observed
// containers. It is a pure function of its inputs.
func SplitContainers(desired []model.Container, observed []gateway.ContainerProperties) Split {
	live := make(map[string]gateway.ContainerProperties, len(observed))
	for _, o := range observed {
		live[o.ID] = o
	}

	var split Split
	wanted := make(map[string]bool, len(desired))
	for _, d := range desired {
		wanted[d.ID] = true
		if o, ok := live[d.ID]; ok {
			split.Update = append(split.Update, Pair{Desired: d, Observed: o})
		} else {
			split.Create = append(split.Create, d)
		}
	}

	for _, o := range observed {
		if !wanted[o.ID] {
			split.Delete = append(split.Delete, o)
		}
	}
	return split
}

// CreateIDs returns the ids in the Create bucket.
func (s Split) CreateIDs() []string {
	ids := make([]string, 0, len(s.Create))
	for _, c := range s.Create {
		ids = append(ids, c.ID)
	}
	return ids
}

// UpdateIDs returns the ids in the Update bucket.
func (s Split) UpdateIDs() []string {
	ids := make([]string, 0, len(s.Update))
	for _, p := range s.Update {
		ids = append(ids, p.Desired.ID)
	}
	return ids
}

// DeleteIDs returns the ids in the Delete bucket.
func (s Split) DeleteIDs() []string {
	ids := make([]string, 0, len(s.Delete))
	for _, c := range s.Delete {
		ids = append(ids, c.ID)
	}
	return ids
}

// InSync reports whether nothing needs to be created or deleted.
func (s Split) InSync() bool {
	return len(s.Create) == 0 && len(s.Delete) == 0
}
