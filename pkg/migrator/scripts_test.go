package migrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm/bigbang/pkg/gateway"
	"github.com/pthm/bigbang/pkg/model"
)

func liveScripts(ids ...string) []gateway.ScriptSummary {
	out := make([]gateway.ScriptSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, gateway.ScriptSummary{ID: id})
	}
	return out
}

func scripts(kind model.ScriptKind, ids ...string) []model.Script {
	out := make([]model.Script, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Script{Kind: kind, Path: id + ".js", ID: id, Body: "function " + id + "() {}"})
	}
	return out
}

func TestPlanScripts(t *testing.T) {
	tests := []struct {
		name    string
		live    []string
		desired []string
		create  []string
		replace []string
		delete  []string
	}{
		{
			name:    "replace create delete",
			live:    []string{"a", "b"},
			desired: []string{"b", "c"},
			create:  []string{"c"},
			replace: []string{"b"},
			delete:  []string{"a"},
		},
		{
			name:    "all new",
			live:    nil,
			desired: []string{"x", "y"},
			create:  []string{"x", "y"},
		},
		{
			name:   "nothing desired",
			live:   []string{"x"},
			delete: []string{"x"},
		},
		{
			name:    "identical sets rewrite bodies",
			live:    []string{"a", "b"},
			desired: []string{"a", "b"},
			replace: []string{"a", "b"},
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanScripts(model.StoredProcedure, liveScripts(tt.live...), scripts(model.StoredProcedure, tt.desired...))
			assert.Equal(t, tt.create, plan.IDs(OpCreate))
			assert.Equal(t, tt.replace, plan.IDs(OpReplace))
			assert.Equal(t, tt.delete, plan.IDs(OpDelete))
			assert.Equal(t, len(tt.create)+len(tt.replace)+len(tt.delete) == 0, plan.Empty())
		})
	}
}

func TestPlanScripts_Order(t *testing.T) {
	plan := PlanScripts(model.UserDefinedFunction, liveScripts("old", "keep"), scripts(model.UserDefinedFunction, "new", "keep"))

	assert.Equal(t, model.UserDefinedFunction, plan.Kind)
	var got []string
	for _, s := range plan.Steps {
		got = append(got, s.Op.String()+" "+s.ID)
	}
	assert.Equal(t, []string{"create new", "replace keep", "delete old"}, got)
}

func TestPlanScripts_CarriesBody(t *testing.T) {
	plan := PlanScripts(model.StoredProcedure, nil, scripts(model.StoredProcedure, "sp1"))
	if assert.Len(t, plan.Steps, 1) {
		assert.Equal(t, "function sp1() {}", plan.Steps[0].Script.Body)
	}
}
