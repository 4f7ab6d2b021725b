// Package doctor provides health checks for a desired-state document and the
// account it targets.
//
// The doctor command checks that the document loads, that the account is
// reachable, and how far live state has drifted from the document, without
// mutating anything.
//
// Example usage:
//
//	d := doctor.New(client, "topology/database.json")
//	report, err := d.Run(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report.Print(os.Stdout, true) // verbose=true
package doctor

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pthm/bigbang/pkg/gateway"
	"github.com/pthm/bigbang/pkg/migrator"
	"github.com/pthm/bigbang/pkg/model"
	"github.com/pthm/bigbang/pkg/parser"
)

// Status represents the result of a health check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates drift or a non-critical issue.
	StatusWarn
	// StatusFail indicates a problem that will make a migration fail.
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns a status indicator symbol for terminal output.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusWarn:
		return "⚠"
	case StatusFail:
		return "✗"
	default:
		return "?"
	}
}

// CheckResult represents the outcome of a single health check.
type CheckResult struct {
	// Category groups related checks (e.g., "Document", "Account").
	Category string

	// Name is a short identifier for the check.
	Name string

	// Status is the check outcome.
	Status Status

	// Message is a human-readable description of the result.
	Message string

	// Details provides additional information for verbose output.
	Details string

	// FixHint suggests how to resolve issues.
	FixHint string
}

// Report contains all health check results.
type Report struct {
	Checks []CheckResult

	// Summary counts.
	Passed   int
	Warnings int
	Errors   int
}

// AddCheck adds a check result and updates summary counts.
func (r *Report) AddCheck(check CheckResult) {
	r.Checks = append(r.Checks, check)
	switch check.Status {
	case StatusPass:
		r.Passed++
	case StatusWarn:
		r.Warnings++
	case StatusFail:
		r.Errors++
	}
}

// Check returns the first check with the given category and name.
func (r *Report) Check(category, name string) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Category == category && c.Name == name {
			return c, true
		}
	}
	return CheckResult{}, false
}

// Print writes the report to the given writer.
func (r *Report) Print(w io.Writer, verbose bool) {
	categories := make(map[string][]CheckResult)
	var categoryOrder []string
	for _, check := range r.Checks {
		if _, exists := categories[check.Category]; !exists {
			categoryOrder = append(categoryOrder, check.Category)
		}
		categories[check.Category] = append(categories[check.Category], check)
	}

	for _, cat := range categoryOrder {
		_, _ = fmt.Fprintf(w, "\n%s\n", cat)
		for _, check := range categories[cat] {
			_, _ = fmt.Fprintf(w, "  %s %s\n", check.Status.Symbol(), check.Message)
			if verbose && check.Details != "" {
				for _, line := range strings.Split(check.Details, "\n") {
					_, _ = fmt.Fprintf(w, "      %s\n", line)
				}
			}
			if check.Status != StatusPass && check.FixHint != "" {
				_, _ = fmt.Fprintf(w, "      Fix: %s\n", check.FixHint)
			}
		}
	}

	_, _ = fmt.Fprintf(w, "\nSummary: %d passed, %d warnings, %d errors\n",
		r.Passed, r.Warnings, r.Errors)
}

// HasErrors returns true if any check failed.
func (r *Report) HasErrors() bool {
	return r.Errors > 0
}

// Doctor performs read-only health checks.
type Doctor struct {
	gw           gateway.Gateway
	documentPath string

	// Cached data from checks (populated during Run)
	db       *model.Database
	split    migrator.Split
	dbExists bool
}

// New creates a new Doctor instance.
func New(gw gateway.Gateway, documentPath string) *Doctor {
	return &Doctor{
		gw:           gw,
		documentPath: documentPath,
	}
}

// Run executes all health checks and returns a report. Later checks are
// skipped when an earlier one they depend on fails. An error is returned
// only when a live read fails after the account answered the probe.
func (d *Doctor) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	docOK := d.checkDocument(report)
	if !d.checkAccount(ctx, report) || !docOK {
		return report, nil
	}
	if err := d.checkDatabase(ctx, report); err != nil {
		return nil, fmt.Errorf("checking database: %w", err)
	}
	if !d.dbExists {
		return report, nil
	}
	if err := d.checkContainers(ctx, report); err != nil {
		return nil, fmt.Errorf("checking containers: %w", err)
	}
	if err := d.checkScripts(ctx, report); err != nil {
		return nil, fmt.Errorf("checking scripts: %w", err)
	}

	return report, nil
}

// checkDocument validates the document exists, decodes, and references
// readable scripts.
func (d *Doctor) checkDocument(report *Report) bool {
	path, err := migrator.CheckDocument(d.documentPath)
	if err != nil {
		report.AddCheck(CheckResult{
			Category: "Document",
			Name:     "exists",
			Status:   StatusFail,
			Message:  fmt.Sprintf("Document not found at %s", d.documentPath),
			Details:  err.Error(),
			FixHint:  "Pass the document with --file or set 'file' in bigbang.yaml",
		})
		return false
	}

	report.AddCheck(CheckResult{
		Category: "Document",
		Name:     "exists",
		Status:   StatusPass,
		Message:  fmt.Sprintf("Document exists at %s", path),
	})

	db, err := parser.LoadFile(path)
	if err != nil {
		report.AddCheck(CheckResult{
			Category: "Document",
			Name:     "valid",
			Status:   StatusFail,
			Message:  "Document is invalid",
			Details:  err.Error(),
			FixHint:  "Run 'bigbang validate' to see every problem",
		})
		return false
	}

	d.db = db

	scripts := 0
	for _, c := range db.Containers {
		scripts += len(c.Scripts)
	}

	report.AddCheck(CheckResult{
		Category: "Document",
		Name:     "valid",
		Status:   StatusPass,
		Message:  fmt.Sprintf("Document is valid (database %s, %d containers, %d scripts)", db.ID, len(db.Containers), scripts),
	})
	return true
}

// checkAccount probes connectivity and credentials.
func (d *Doctor) checkAccount(ctx context.Context, report *Report) bool {
	if err := d.gw.Ping(ctx); err != nil {
		report.AddCheck(CheckResult{
			Category: "Account",
			Name:     "reachable",
			Status:   StatusFail,
			Message:  "Account is unreachable or rejected the credentials",
			Details:  err.Error(),
			FixHint:  "Check the connection string endpoint and key",
		})
		return false
	}

	report.AddCheck(CheckResult{
		Category: "Account",
		Name:     "reachable",
		Status:   StatusPass,
		Message:  "Account is reachable and accepted the credentials",
	})
	return true
}

func (d *Doctor) checkDatabase(ctx context.Context, report *Report) error {
	exists, err := d.gw.DatabaseExists(ctx, d.db.ID)
	if err != nil {
		return err
	}
	d.dbExists = exists

	if !exists {
		report.AddCheck(CheckResult{
			Category: "Database",
			Name:     "exists",
			Status:   StatusWarn,
			Message:  fmt.Sprintf("Database %s does not exist", d.db.ID),
			FixHint:  "Run 'bigbang migrate' to create it",
		})
		return nil
	}

	report.AddCheck(CheckResult{
		Category: "Database",
		Name:     "exists",
		Status:   StatusPass,
		Message:  fmt.Sprintf("Database %s exists", d.db.ID),
	})
	return nil
}

// checkContainers compares desired and live container ids.
func (d *Doctor) checkContainers(ctx context.Context, report *Report) error {
	observed, err := d.gw.ListContainers(ctx, d.db.ID)
	if err != nil {
		return err
	}
	d.split = migrator.SplitContainers(d.db.Containers, observed)

	if len(d.split.Create) > 0 {
		report.AddCheck(CheckResult{
			Category: "Containers",
			Name:     "missing",
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%d containers are missing", len(d.split.Create)),
			Details:  "Missing: " + strings.Join(d.split.CreateIDs(), ", "),
			FixHint:  "Run 'bigbang migrate' to create them",
		})
	}
	if len(d.split.Delete) > 0 {
		report.AddCheck(CheckResult{
			Category: "Containers",
			Name:     "orphaned",
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%d live containers are not in the document", len(d.split.Delete)),
			Details:  "Orphaned: " + strings.Join(d.split.DeleteIDs(), ", "),
			FixHint:  "Add them to the document, or run 'bigbang migrate' to delete them with their data",
		})
	}
	if d.split.InSync() {
		report.AddCheck(CheckResult{
			Category: "Containers",
			Name:     "in_sync",
			Status:   StatusPass,
			Message:  fmt.Sprintf("All %d containers exist and none are orphaned", len(d.split.Update)),
		})
	}
	return nil
}

// checkScripts compares desired and live script ids of every existing
// container.
func (d *Doctor) checkScripts(ctx context.Context, report *Report) error {
	var missing, orphaned []string
	for _, p := range d.split.Update {
		for _, kind := range model.ScriptKinds {
			live, err := d.gw.ListScripts(ctx, d.db.ID, p.Desired.ID, kind)
			if err != nil {
				return fmt.Errorf("container %s: %w", p.Desired.ID, err)
			}
			plan := migrator.PlanScripts(kind, live, p.Desired.ScriptsOf(kind))
			for _, id := range plan.IDs(migrator.OpCreate) {
				missing = append(missing, fmt.Sprintf("%s/%s (%s)", p.Desired.ID, id, kind))
			}
			for _, id := range plan.IDs(migrator.OpDelete) {
				orphaned = append(orphaned, fmt.Sprintf("%s/%s (%s)", p.Desired.ID, id, kind))
			}
		}
	}

	if len(missing) == 0 && len(orphaned) == 0 {
		report.AddCheck(CheckResult{
			Category: "Scripts",
			Name:     "in_sync",
			Status:   StatusPass,
			Message:  "Script ids of existing containers match the document",
		})
		return nil
	}

	var details []string
	if len(missing) > 0 {
		details = append(details, "Missing: "+strings.Join(missing, ", "))
	}
	if len(orphaned) > 0 {
		details = append(details, "Orphaned: "+strings.Join(orphaned, ", "))
	}
	report.AddCheck(CheckResult{
		Category: "Scripts",
		Name:     "drift",
		Status:   StatusWarn,
		Message:  fmt.Sprintf("%d scripts are missing, %d are not in the document", len(missing), len(orphaned)),
		Details:  strings.Join(details, "\n"),
		FixHint:  "Run 'bigbang migrate' to converge scripts",
	})
	return nil
}
