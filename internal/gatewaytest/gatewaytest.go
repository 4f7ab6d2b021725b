// Package gatewaytest provides an in-memory gateway.Gateway for tests.
//
// The fake keeps databases, containers and scripts in maps, enforces the
// service's create/replace semantics (create fails on an existing id, replace
// and delete fail on a missing one) and records every call in order:
//
//	g := gatewaytest.New()
//	g.AddContainer("db1", gateway.ContainerProperties{ID: "c1"})
//	g.AddScript("db1", "c1", model.StoredProcedure, "sp1", "function sp1() {}")
//	... run the migrator ...
//	assert.Equal(t, []string{"replace sproc c1/sp1"}, g.Mutations())
package gatewaytest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pthm/bigbang/pkg/gateway"
	"github.com/pthm/bigbang/pkg/model"
)

// ErrUnreachable is returned by Ping when the gateway is marked unreachable.
var ErrUnreachable = errors.New("gatewaytest: account unreachable")

type container struct {
	props      gateway.ContainerProperties
	throughput *int
	scripts    map[model.ScriptKind]map[string]string
	order      map[model.ScriptKind][]string
}

type database struct {
	throughput *int
	containers map[string]*container
	order      []string
}

// Gateway is an in-memory gateway.Gateway.
type Gateway struct {
	mu sync.Mutex

	// Unreachable makes Ping fail.
	Unreachable bool

	databases map[string]*database
	calls     []string
	failures  map[string]error
}

var _ gateway.Gateway = (*Gateway)(nil)

// New returns an empty in-memory gateway.
func New() *Gateway {
	return &Gateway{
		databases: make(map[string]*database),
		failures:  make(map[string]error),
	}
}

// FailOn makes the call recorded as call (e.g. "create container c1") return
// err instead of executing.
func (g *Gateway) FailOn(call string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[call] = err
}

// AddDatabase seeds an existing database.
func (g *Gateway) AddDatabase(db string, throughput *int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensureDatabase(db).throughput = throughput
}

// AddContainer seeds an existing container, creating its database if needed.
func (g *Gateway) AddContainer(db string, props gateway.ContainerProperties) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.putContainer(g.ensureDatabase(db), props, nil)
}

// AddScript seeds an existing script. The container must exist.
func (g *Gateway) AddScript(db, containerID string, kind model.ScriptKind, id, body string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := g.databases[db].containers[containerID]
	c.scripts[kind][id] = body
	c.order[kind] = append(c.order[kind], id)
}

// Calls returns every recorded call, reads included.
func (g *Gateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

// Mutations returns the recorded calls that change state.
func (g *Gateway) Mutations() []string {
	var out []string
	for _, c := range g.Calls() {
		if strings.HasPrefix(c, "ping") || strings.HasPrefix(c, "list ") || strings.HasPrefix(c, "exists ") {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ResetCalls clears the call log.
func (g *Gateway) ResetCalls() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = nil
}

// Container returns the stored properties and throughput of a container.
func (g *Gateway) Container(db, id string) (gateway.ContainerProperties, *int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	d, ok := g.databases[db]
	if !ok {
		return gateway.ContainerProperties{}, nil, false
	}
	c, ok := d.containers[id]
	if !ok {
		return gateway.ContainerProperties{}, nil, false
	}
	return c.props, c.throughput, true
}

// DatabaseThroughput returns the stored database throughput.
func (g *Gateway) DatabaseThroughput(db string) *int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if d, ok := g.databases[db]; ok {
		return d.throughput
	}
	return nil
}

// Script returns the body of a stored script.
func (g *Gateway) Script(db, containerID string, kind model.ScriptKind, id string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	d, ok := g.databases[db]
	if !ok {
		return "", false
	}
	c, ok := d.containers[containerID]
	if !ok {
		return "", false
	}
	body, ok := c.scripts[kind][id]
	return body, ok
}

// ScriptIDs returns the sorted ids of the stored scripts of a kind.
func (g *Gateway) ScriptIDs(db, containerID string, kind model.ScriptKind) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := g.databases[db].containers[containerID]
	ids := make([]string, 0, len(c.scripts[kind]))
	for id := range c.scripts[kind] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *Gateway) Ping(ctx context.Context) error {
	if err := g.record(ctx, "ping"); err != nil {
		return err
	}
	if g.Unreachable {
		return ErrUnreachable
	}
	return nil
}

func (g *Gateway) DatabaseExists(ctx context.Context, db string) (bool, error) {
	if err := g.record(ctx, "exists database "+db); err != nil {
		return false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.databases[db]
	return ok, nil
}

func (g *Gateway) CreateDatabaseIfNotExists(ctx context.Context, db string, throughput *int) (bool, error) {
	if err := g.record(ctx, "create database "+db); err != nil {
		return false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.databases[db]; ok {
		return false, nil
	}
	g.ensureDatabase(db).throughput = throughput
	return true, nil
}

func (g *Gateway) ReplaceDatabaseThroughput(ctx context.Context, db string, throughput int) error {
	if err := g.record(ctx, fmt.Sprintf("throughput database %s %d", db, throughput)); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	d, ok := g.databases[db]
	if !ok {
		return fmt.Errorf("database %s: %w", db, gateway.ErrNotFound)
	}
	d.throughput = &throughput
	return nil
}

func (g *Gateway) ListContainers(ctx context.Context, db string) ([]gateway.ContainerProperties, error) {
	if err := g.record(ctx, "list containers "+db); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	d, ok := g.databases[db]
	if !ok {
		return nil, fmt.Errorf("database %s: %w", db, gateway.ErrNotFound)
	}
	out := make([]gateway.ContainerProperties, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.containers[id].props)
	}
	return out, nil
}

func (g *Gateway) CreateContainer(ctx context.Context, db string, props gateway.ContainerProperties, throughput *int) error {
	if err := g.record(ctx, "create container "+props.ID); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	d, ok := g.databases[db]
	if !ok {
		return fmt.Errorf("database %s: %w", db, gateway.ErrNotFound)
	}
	if _, exists := d.containers[props.ID]; exists {
		return fmt.Errorf("container %s: %w", props.ID, gateway.ErrConflict)
	}
	g.putContainer(d, props, throughput)
	return nil
}

func (g *Gateway) ReplaceContainer(ctx context.Context, db string, props gateway.ContainerProperties) error {
	if err := g.record(ctx, "replace container "+props.ID); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c, err := g.lookup(db, props.ID)
	if err != nil {
		return err
	}
	c.props = props
	return nil
}

func (g *Gateway) DeleteContainer(ctx context.Context, db, id string) error {
	if err := g.record(ctx, "delete container "+id); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := g.lookup(db, id); err != nil {
		return err
	}
	d := g.databases[db]
	delete(d.containers, id)
	d.order = remove(d.order, id)
	return nil
}

func (g *Gateway) ReplaceContainerThroughput(ctx context.Context, db, id string, throughput int) error {
	if err := g.record(ctx, fmt.Sprintf("throughput container %s %d", id, throughput)); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c, err := g.lookup(db, id)
	if err != nil {
		return err
	}
	c.throughput = &throughput
	return nil
}

func (g *Gateway) ListScripts(ctx context.Context, db, containerID string, kind model.ScriptKind) ([]gateway.ScriptSummary, error) {
	if err := g.record(ctx, fmt.Sprintf("list %s %s", kindName(kind), containerID)); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c, err := g.lookup(db, containerID)
	if err != nil {
		return nil, err
	}
	out := make([]gateway.ScriptSummary, 0, len(c.order[kind]))
	for _, id := range c.order[kind] {
		out = append(out, gateway.ScriptSummary{ID: id})
	}
	return out, nil
}

func (g *Gateway) CreateScript(ctx context.Context, db, containerID string, kind model.ScriptKind, id, body string) error {
	if err := g.record(ctx, fmt.Sprintf("create %s %s/%s", kindName(kind), containerID, id)); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c, err := g.lookup(db, containerID)
	if err != nil {
		return err
	}
	if _, exists := c.scripts[kind][id]; exists {
		return fmt.Errorf("%s %s: %w", kind, id, gateway.ErrConflict)
	}
	c.scripts[kind][id] = body
	c.order[kind] = append(c.order[kind], id)
	return nil
}

func (g *Gateway) ReplaceScript(ctx context.Context, db, containerID string, kind model.ScriptKind, id, body string) error {
	if err := g.record(ctx, fmt.Sprintf("replace %s %s/%s", kindName(kind), containerID, id)); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c, err := g.lookup(db, containerID)
	if err != nil {
		return err
	}
	if _, exists := c.scripts[kind][id]; !exists {
		return fmt.Errorf("%s %s: %w", kind, id, gateway.ErrNotFound)
	}
	c.scripts[kind][id] = body
	return nil
}

func (g *Gateway) DeleteScript(ctx context.Context, db, containerID string, kind model.ScriptKind, id string) error {
	if err := g.record(ctx, fmt.Sprintf("delete %s %s/%s", kindName(kind), containerID, id)); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c, err := g.lookup(db, containerID)
	if err != nil {
		return err
	}
	if _, exists := c.scripts[kind][id]; !exists {
		return fmt.Errorf("%s %s: %w", kind, id, gateway.ErrNotFound)
	}
	delete(c.scripts[kind], id)
	c.order[kind] = remove(c.order[kind], id)
	return nil
}

// record logs the call and returns the injected failure or context error.
func (g *Gateway) record(ctx context.Context, call string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
	return g.failures[call]
}

func (g *Gateway) ensureDatabase(db string) *database {
	d, ok := g.databases[db]
	if !ok {
		d = &database{containers: make(map[string]*container)}
		g.databases[db] = d
	}
	return d
}

func (g *Gateway) putContainer(d *database, props gateway.ContainerProperties, throughput *int) {
	d.containers[props.ID] = &container{
		props:      props,
		throughput: throughput,
		scripts: map[model.ScriptKind]map[string]string{
			model.StoredProcedure:     {},
			model.UserDefinedFunction: {},
		},
		order: make(map[model.ScriptKind][]string),
	}
	d.order = append(d.order, props.ID)
}

func (g *Gateway) lookup(db, id string) (*container, error) {
	d, ok := g.databases[db]
	if !ok {
		return nil, fmt.Errorf("database %s: %w", db, gateway.ErrNotFound)
	}
	c, ok := d.containers[id]
	if !ok {
		return nil, fmt.Errorf("container %s: %w", id, gateway.ErrNotFound)
	}
	return c, nil
}

func kindName(kind model.ScriptKind) string {
	if kind == model.UserDefinedFunction {
		return "udf"
	}
	return "sproc"
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
