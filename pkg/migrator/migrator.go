package migrator

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/pthm/bigbang"
	"github.com/pthm/bigbang/pkg/gateway"
	"github.com/pthm/bigbang/pkg/model"
)

// Options controls migration behavior.
type Options struct {
	// DryRun writes one line per planned mutation to the provided writer
	// instead of applying it. Reads still reach the gateway so the plan
	// reflects live state. If nil, mutations are applied.
	DryRun io.Writer

	// ContinueOnError abandons a failing container and carries on with the
	// next one instead of halting the run. Nothing is rolled back either way.
	ContinueOnError bool

	// Logger receives phase and per-action log lines. Defaults to a no-op
	// logger.
	Logger *zap.Logger
}

// Migrator reconciles one desired database against live state.
//
// The migration process, executed strictly sequentially:
//  1. Get or create the database, converging its throughput
//  2. List live containers and split them against the desired ones
//  3. Create missing containers, then their scripts
//  4. Update existing containers: throughput, full replace, then scripts
//  5. Delete containers that are no longer desired
//
// # Usage
//
// Most callers go through Validate and Run:
//
//	sess, err := migrator.Validate(ctx, gw, "topology/database.json")
//	if err != nil {
//	    return err
//	}
//	report, err := migrator.Run(ctx, sess, migrator.Options{Logger: logger})
//
// Use the Migrator directly when the desired database is already loaded:
//
//	m := migrator.NewMigrator(gw, db, migrator.Options{})
//	report, err := m.Migrate(ctx)
type Migrator struct {
	gw   gateway.Gateway
	db   *model.Database
	opts Options
	log  *zap.Logger

	report *Report
}

// NewMigrator creates a migrator for a loaded, validated database.
func NewMigrator(gw gateway.Gateway, db *model.Database, opts Options) *Migrator {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Migrator{
		gw:   gw,
		db:   db,
		opts: opts,
		log:  log.With(zap.String("database", db.ID)),
	}
}

// Migrate runs the reconciliation and returns the report of every action
// taken. The report is returned even when err is non-nil.
//
// With halt-on-error (the default) the first gateway failure stops the run.
// With ContinueOnError every container failure is recorded and the returned
// error wraps bigbang.ErrPartialMigration and combines them all.
func (m *Migrator) Migrate(ctx context.Context) (*Report, error) {
	m.report = &Report{Database: m.db.ID, DryRun: m.opts.DryRun != nil}

	m.log.Info("starting migrations, checking database")

	exists, err := m.ensureDatabase(ctx)
	if err != nil {
		return m.halt(err)
	}

	var observed []gateway.ContainerProperties
	if exists {
		m.log.Info("checking current containers")
		observed, err = m.gw.ListContainers(ctx, m.db.ID)
		if err != nil {
			return m.halt(fmt.Errorf("listing containers: %w", err))
		}
	}

	split := SplitContainers(m.db.Containers, observed)
	m.report.Split = split

	m.log.Info("creating containers", zap.Int("count", len(split.Create)))
	for _, c := range split.Create {
		if err := m.createContainer(ctx, c); err != nil {
			if done, rerr := m.fail(c.ID, err); done {
				return m.report, rerr
			}
		}
	}

	m.log.Info("updating containers", zap.Int("count", len(split.Update)))
	for _, p := range split.Update {
		if err := m.updateContainer(ctx, p.Desired, p.Observed); err != nil {
			if done, rerr := m.fail(p.Desired.ID, err); done {
				return m.report, rerr
			}
		}
	}

	m.log.Info("deleting containers", zap.Int("count", len(split.Delete)))
	for _, c := range split.Delete {
		if err := m.deleteContainer(ctx, c); err != nil {
			if done, rerr := m.fail(c.ID, err); done {
				return m.report, rerr
			}
		}
	}

	if m.report.HasErrors() {
		m.log.Warn("finished with errors", zap.Int("errors", len(m.report.Errors)))
		return m.report, fmt.Errorf("%w: %w", bigbang.ErrPartialMigration, multierr.Combine(m.report.Errors...))
	}

	m.log.Info("finished")
	return m.report, nil
}

// Status computes the container split without mutating anything.
func (m *Migrator) Status(ctx context.Context) (*Status, error) {
	exists, err := m.gw.DatabaseExists(ctx, m.db.ID)
	if err != nil {
		return nil, fmt.Errorf("checking database %s: %w", m.db.ID, err)
	}

	status := &Status{Database: m.db.ID, DatabaseExists: exists}
	var observed []gateway.ContainerProperties
	if exists {
		observed, err = m.gw.ListContainers(ctx, m.db.ID)
		if err != nil {
			return nil, fmt.Errorf("listing containers: %w", err)
		}
	}
	status.Split = SplitContainers(m.db.Containers, observed)
	return status, nil
}

// halt records err as the run's terminal error.
func (m *Migrator) halt(err error) (*Report, error) {
	m.report.Errors = append(m.report.Errors, err)
	m.log.Error("migration halted", zap.Error(err))
	return m.report, err
}

// fail records a container failure. It reports done=true when the run must
// stop, together with the error to return.
func (m *Migrator) fail(container string, err error) (bool, error) {
	err = fmt.Errorf("container %s: %w", container, err)
	if !m.opts.ContinueOnError {
		_, err = m.halt(err)
		return true, err
	}
	m.report.Errors = append(m.report.Errors, err)
	m.log.Error("container failed, continuing", zap.String("container", container), zap.Error(err))
	return false, nil
}

// ensureDatabase gets or creates the database and reports whether it exists
// afterwards. In dry-run mode a missing database stays missing.
func (m *Migrator) ensureDatabase(ctx context.Context) (bool, error) {
	if m.opts.DryRun != nil {
		exists, err := m.gw.DatabaseExists(ctx, m.db.ID)
		if err != nil {
			return false, fmt.Errorf("checking database %s: %w", m.db.ID, err)
		}
		if !exists {
			m.report.DatabaseCreated = true
			return false, m.apply(ctx, Action{
				Phase: PhaseDatabase, Op: OpCreate, Resource: ResourceDatabase,
				ID: m.db.ID, Throughput: m.db.Throughput,
			}, nil)
		}
		return true, m.convergeDatabaseThroughput(ctx)
	}

	created, err := m.gw.CreateDatabaseIfNotExists(ctx, m.db.ID, m.db.Throughput)
	if err != nil {
		err = fmt.Errorf("creating database %s: %w", m.db.ID, err)
		m.report.add(Action{Phase: PhaseDatabase, Op: OpCreate, Resource: ResourceDatabase, ID: m.db.ID, Err: err})
		return false, err
	}
	if created {
		m.report.DatabaseCreated = true
		m.report.add(Action{
			Phase: PhaseDatabase, Op: OpCreate, Resource: ResourceDatabase,
			ID: m.db.ID, Throughput: m.db.Throughput,
		})
		m.log.Info("created new database")
		return true, nil
	}
	return true, m.convergeDatabaseThroughput(ctx)
}

// convergeDatabaseThroughput replaces the throughput of an existing database
// when one is declared.
func (m *Migrator) convergeDatabaseThroughput(ctx context.Context) error {
	if m.db.Throughput == nil {
		m.log.Info("database already exists")
		return nil
	}
	m.log.Info("database already exists, replacing throughput")
	throughput := *m.db.Throughput
	return m.apply(ctx, Action{
		Phase: PhaseDatabase, Op: OpReplaceThroughput, Resource: ResourceDatabase,
		ID: m.db.ID, Throughput: &throughput,
	}, func(ctx context.Context) error {
		return m.gw.ReplaceDatabaseThroughput(ctx, m.db.ID, throughput)
	})
}

// createContainer creates a container and then every declared script,
// without checking live scripts since the container is new.
func (m *Migrator) createContainer(ctx context.Context, c model.Container) error {
	props := createProperties(c)
	err := m.apply(ctx, Action{
		Phase: PhaseCreate, Op: OpCreate, Resource: ResourceContainer,
		Container: c.ID, ID: c.ID, Throughput: c.Throughput,
	}, func(ctx context.Context) error {
		return m.gw.CreateContainer(ctx, m.db.ID, props, c.Throughput)
	})
	if err != nil {
		return err
	}

	for _, kind := range model.ScriptKinds {
		for _, s := range c.ScriptsOf(kind) {
			if err := m.applyScript(ctx, PhaseCreate, c.ID, ScriptStep{Op: OpCreate, ID: s.ID, Script: s}, kind); err != nil {
				return err
			}
		}
	}
	return nil
}

// updateContainer converges an existing container: throughput first (when
// enabled for the run), then a full replace of its definition, then scripts.
func (m *Migrator) updateContainer(ctx context.Context, c model.Container, live gateway.ContainerProperties) error {
	if m.db.UpdateThroughput && c.Throughput != nil {
		throughput := *c.Throughput
		err := m.apply(ctx, Action{
			Phase: PhaseUpdate, Op: OpReplaceThroughput, Resource: ResourceContainer,
			Container: c.ID, ID: c.ID, Throughput: &throughput,
		}, func(ctx context.Context) error {
			return m.gw.ReplaceContainerThroughput(ctx, m.db.ID, live.ID, throughput)
		})
		if err != nil {
			return err
		}
	}

	props := replaceProperties(c, live)
	err := m.apply(ctx, Action{
		Phase: PhaseUpdate, Op: OpReplace, Resource: ResourceContainer,
		Container: c.ID, ID: c.ID,
	}, func(ctx context.Context) error {
		return m.gw.ReplaceContainer(ctx, m.db.ID, props)
	})
	if err != nil {
		return err
	}

	for _, kind := range model.ScriptKinds {
		if err := m.reconcileScripts(ctx, c, kind); err != nil {
			return err
		}
	}
	return nil
}

// reconcileScripts reads the live ids of one script kind and immediately
// applies the resulting plan.
func (m *Migrator) reconcileScripts(ctx context.Context, c model.Container, kind model.ScriptKind) error {
	m.log.Debug("checking which scripts currently exist",
		zap.String("container", c.ID), zap.Stringer("kind", kind))

	live, err := m.gw.ListScripts(ctx, m.db.ID, c.ID, kind)
	if err != nil {
		return fmt.Errorf("listing %ss: %w", kind, err)
	}

	plan := PlanScripts(kind, live, c.ScriptsOf(kind))
	for _, step := range plan.Steps {
		if err := m.applyScript(ctx, PhaseUpdate, c.ID, step, kind); err != nil {
			return err
		}
	}
	return nil
}

// applyScript issues one script step.
func (m *Migrator) applyScript(ctx context.Context, phase Phase, container string, step ScriptStep, kind model.ScriptKind) error {
	a := Action{
		Phase: phase, Op: step.Op, Resource: scriptResource(kind),
		Container: container, ID: step.ID,
	}
	return m.apply(ctx, a, func(ctx context.Context) error {
		switch step.Op {
		case OpCreate:
			return m.gw.CreateScript(ctx, m.db.ID, container, kind, step.ID, step.Script.Body)
		case OpReplace:
			return m.gw.ReplaceScript(ctx, m.db.ID, container, kind, step.ID, step.Script.Body)
		case OpDelete:
			return m.gw.DeleteScript(ctx, m.db.ID, container, kind, step.ID)
		default:
			return fmt.Errorf("unsupported script operation %s", step.Op)
		}
	})
}

// deleteContainer deletes a container unconditionally.
func (m *Migrator) deleteContainer(ctx context.Context, c gateway.ContainerProperties) error {
	return m.apply(ctx, Action{
		Phase: PhaseDelete, Op: OpDelete, Resource: ResourceContainer,
		Container: c.ID, ID: c.ID,
	}, func(ctx context.Context) error {
		return m.gw.DeleteContainer(ctx, m.db.ID, c.ID)
	})
}

// apply logs and records an action, then either writes it to the dry-run
// output or executes it. A nil fn is only valid in dry-run mode.
func (m *Migrator) apply(ctx context.Context, a Action, fn func(context.Context) error) error {
	fields := []zap.Field{zap.Stringer("op", a.Op), zap.Stringer("resource", a.Resource)}
	if a.Container != "" {
		fields = append(fields, zap.String("container", a.Container))
	}
	if a.Resource == ResourceStoredProcedure || a.Resource == ResourceUserDefinedFunction {
		fields = append(fields, zap.String("script", a.ID))
	}
	if a.Throughput != nil {
		fields = append(fields, zap.Int("throughput", *a.Throughput))
	}

	if m.opts.DryRun != nil {
		a.Planned = true
		m.report.add(a)
		m.log.Info("planned "+a.String(), fields...)
		_, err := fmt.Fprintln(m.opts.DryRun, a.String())
		return err
	}

	m.log.Info(a.String(), fields...)
	if err := fn(ctx); err != nil {
		err = fmt.Errorf("%s: %w", a, err)
		a.Err = err
		m.report.add(a)
		return err
	}
	m.report.add(a)
	return nil
}
