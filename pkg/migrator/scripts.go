package migrator

import (
	"github.com/pthm/bigbang/pkg/gateway"
	"github.com/pthm/bigbang/pkg/model"
)

// ScriptStep is one planned script operation.
type ScriptStep struct {
	Op     Op
	ID     string
	Script model.Script // zero for OpDelete
}

// ScriptPlan is the ordered set of operations converging the live scripts of
// one kind to the desired ones. Creates and replaces come first, in document
// order, followed by deletes in live order.
type ScriptPlan struct {
	Kind  model.ScriptKind
	Steps []ScriptStep
}

// PlanScripts decides, for one container and one script kind, which desired
// scripts replace a live one, which are created, and which live scripts are
// deleted. Matching is by script id only; bodies are always rewritten.
//
// The live ids must be read immediately before the plan is applied: create
// fails on an existing id and replace fails on a missing one.
func PlanScripts(kind model.ScriptKind, live []gateway.ScriptSummary, desired []model.Script) ScriptPlan {
	exists := make(map[string]bool, len(live))
	for _, s := range live {
		exists[s.ID] = true
	}

	plan := ScriptPlan{Kind: kind}
	wanted := make(map[string]bool, len(desired))
	for _, s := range desired {
		wanted[s.ID] = true
		op := OpCreate
		if exists[s.ID] {
			op = OpReplace
		}
		plan.Steps = append(plan.Steps, ScriptStep{Op: op, ID: s.ID, Script: s})
	}

	for _, s := range live {
		if !wanted[s.ID] {
			plan.Steps = append(plan.Steps, ScriptStep{Op: OpDelete, ID: s.ID})
		}
	}
	return plan
}

// IDs returns the ids of the steps with the given operation, in plan order.
func (p ScriptPlan) IDs(op Op) []string {
	var ids []string
	for _, s := range p.Steps {
		if s.Op == op {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Empty reports whether the plan has no steps.
func (p ScriptPlan) Empty() bool {
	return len(p.Steps) == 0
}
