package migrator

import (
	"fmt"
	"io"
	"strings"

	"github.com/pthm/bigbang/pkg/model"
)

// Op is the kind of change an action makes.
type Op int

const (
	OpCreate Op = iota
	OpReplace
	OpDelete
	OpReplaceThroughput
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpReplace:
		return "replace"
	case OpDelete:
		return "delete"
	case OpReplaceThroughput:
		return "replace throughput"
	default:
		return "unknown"
	}
}

// Resource is the kind of resource an action targets.
type Resource int

const (
	ResourceDatabase Resource = iota
	ResourceContainer
	ResourceStoredProcedure
	ResourceUserDefinedFunction
)

func (r Resource) String() string {
	switch r {
	case ResourceDatabase:
		return "database"
	case ResourceContainer:
		return "container"
	case ResourceStoredProcedure:
		return "stored procedure"
	case ResourceUserDefinedFunction:
		return "user defined function"
	default:
		return "unknown"
	}
}

// scriptResource maps a script kind to its resource.
func scriptResource(kind model.ScriptKind) Resource {
	if kind == model.UserDefinedFunction {
		return ResourceUserDefinedFunction
	}
	return ResourceStoredProcedure
}

// Phase groups actions in the order a run executes them.
type Phase string

const (
	PhaseDatabase Phase = "Database"
	PhaseCreate   Phase = "Create"
	PhaseUpdate   Phase = "Update"
	PhaseDelete   Phase = "Delete"
)

// Action is one mutation issued (or planned, in dry-run mode) by a run.
type Action struct {
	Phase    Phase
	Op       Op
	Resource Resource

	// Container is the container the action applies to, empty for database
	// actions. For container actions it equals ID.
	Container string
	ID        string

	// Throughput is set for OpReplaceThroughput and for creates that
	// provision throughput.
	Throughput *int

	// Planned is true when the action was only written to the dry-run output.
	Planned bool

	// Err is the gateway error, if the action failed.
	Err error
}

// String renders the action as a single line, e.g.
// "create stored procedure orders/bulkDelete".
func (a Action) String() string {
	var b strings.Builder
	b.WriteString(a.Op.String())
	b.WriteByte(' ')
	b.WriteString(a.Resource.String())
	b.WriteByte(' ')
	switch a.Resource {
	case ResourceStoredProcedure, ResourceUserDefinedFunction:
		b.WriteString(a.Container + "/" + a.ID)
	default:
		b.WriteString(a.ID)
	}
	if a.Throughput != nil {
		fmt.Fprintf(&b, " (%d RU/s)", *a.Throughput)
	}
	return b.String()
}

// Symbol returns a status indicator for terminal output.
func (a Action) Symbol() string {
	switch {
	case a.Err != nil:
		return "✗"
	case a.Planned:
		return "•"
	default:
		return "✓"
	}
}

// Report records everything a run did.
type Report struct {
	Database        string
	DatabaseCreated bool
	DryRun          bool

	Split   Split
	Actions []Action

	// Errors holds one error per abandoned container (continue-on-error) or
	// the error that halted the run.
	Errors []error
}

func (r *Report) add(a Action) {
	r.Actions = append(r.Actions, a)
}

// Count returns the number of successful or planned actions matching op and
// resource.
func (r *Report) Count(op Op, resource Resource) int {
	n := 0
	for _, a := range r.Actions {
		if a.Op == op && a.Resource == resource && a.Err == nil {
			n++
		}
	}
	return n
}

// ScriptChanges returns the number of successful or planned script actions.
func (r *Report) ScriptChanges() int {
	n := 0
	for _, a := range r.Actions {
		if a.Err == nil && (a.Resource == ResourceStoredProcedure || a.Resource == ResourceUserDefinedFunction) {
			n++
		}
	}
	return n
}

// HasErrors returns true if any action failed or the run halted.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// Print writes the report grouped by phase, followed by a summary line.
func (r *Report) Print(w io.Writer) {
	header := "Migration"
	if r.DryRun {
		header = "Migration plan (dry-run)"
	}
	_, _ = fmt.Fprintf(w, "%s for database %s\n", header, r.Database)

	phases := []Phase{PhaseDatabase, PhaseCreate, PhaseUpdate, PhaseDelete}
	byPhase := make(map[Phase][]Action)
	for _, a := range r.Actions {
		byPhase[a.Phase] = append(byPhase[a.Phase], a)
	}

	for _, phase := range phases {
		actions := byPhase[phase]
		if len(actions) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "\n%s\n", phase)
		for _, a := range actions {
			_, _ = fmt.Fprintf(w, "  %s %s\n", a.Symbol(), a)
			if a.Err != nil {
				_, _ = fmt.Fprintf(w, "      %v\n", a.Err)
			}
		}
	}

	_, _ = fmt.Fprintf(w, "\nSummary: %d created, %d updated, %d deleted containers, %d script changes, %d errors\n",
		r.Count(OpCreate, ResourceContainer),
		r.Count(OpReplace, ResourceContainer),
		r.Count(OpDelete, ResourceContainer),
		r.ScriptChanges(),
		len(r.Errors))
}
