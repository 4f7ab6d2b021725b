package cosmos

import (
	"context"
	"net/http"

	"github.com/pthm/bigbang/pkg/gateway"
	"github.com/pthm/bigbang/pkg/model"
)

// scriptResource returns the resource type segment and feed field of a
// script kind.
func scriptResource(kind model.ScriptKind) (typ, field string) {
	if kind == model.UserDefinedFunction {
		return "udfs", "UserDefinedFunctions"
	}
	return "sprocs", "StoredProcedures"
}

type scriptBody struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

// ListScripts returns the ids of every script of kind in the container.
func (c *Client) ListScripts(ctx context.Context, db, container string, kind model.ScriptKind) ([]gateway.ScriptSummary, error) {
	typ, field := scriptResource(kind)
	link := containerLink(db, container)
	return readFeed[gateway.ScriptSummary](ctx, c, resource{Type: typ, Link: link}, link+"/"+typ, field)
}

// CreateScript creates a script; it fails with gateway.ErrConflict when the
// id is taken.
func (c *Client) CreateScript(ctx context.Context, db, container string, kind model.ScriptKind, id, body string) error {
	typ, _ := scriptResource(kind)
	link := containerLink(db, container)
	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		res:    resource{Type: typ, Link: link},
		path:   link + "/" + typ,
		body:   scriptBody{ID: id, Body: body},
	}, http.StatusCreated)
	if err != nil {
		return err
	}
	return drain(resp)
}

// ReplaceScript rewrites the body of an existing script; it fails with
// gateway.ErrNotFound when the id does not exist.
func (c *Client) ReplaceScript(ctx context.Context, db, container string, kind model.ScriptKind, id, body string) error {
	typ, _ := scriptResource(kind)
	link := containerLink(db, container) + "/" + typ + "/" + id
	resp, err := c.do(ctx, request{
		method: http.MethodPut,
		res:    resource{Type: typ, Link: link},
		path:   link,
		body:   scriptBody{ID: id, Body: body},
	}, http.StatusOK)
	if err != nil {
		return err
	}
	return drain(resp)
}

// DeleteScript deletes a script.
func (c *Client) DeleteScript(ctx context.Context, db, container string, kind model.ScriptKind, id string) error {
	typ, _ := scriptResource(kind)
	link := containerLink(db, container) + "/" + typ + "/" + id
	resp, err := c.do(ctx, request{
		method: http.MethodDelete,
		res:    resource{Type: typ, Link: link},
		path:   link,
	}, http.StatusNoContent)
	if err != nil {
		return err
	}
	return drain(resp)
}
