package cosmos

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pthm/bigbang/pkg/gateway"
)

func containerLink(db, container string) string {
	return databaseLink(db) + "/colls/" + container
}

// ListContainers returns every container in the database.
func (c *Client) ListContainers(ctx context.Context, db string) ([]gateway.ContainerProperties, error) {
	link := databaseLink(db)
	return readFeed[gateway.ContainerProperties](ctx, c,
		resource{Type: "colls", Link: link}, link+"/colls", "DocumentCollections")
}

// CreateContainer creates a container, provisioning dedicated throughput
// when given.
func (c *Client) CreateContainer(ctx context.Context, db string, props gateway.ContainerProperties, throughput *int) error {
	link := databaseLink(db)
	r := request{
		method: http.MethodPost,
		res:    resource{Type: "colls", Link: link},
		path:   link + "/colls",
		body:   props,
	}
	if throughput != nil {
		r.headers = map[string]string{headerOfferThroughput: strconv.Itoa(*throughput)}
	}
	resp, err := c.do(ctx, r, http.StatusCreated)
	if err != nil {
		return err
	}
	return drain(resp)
}

// ReplaceContainer replaces the full definition of an existing container.
func (c *Client) ReplaceContainer(ctx context.Context, db string, props gateway.ContainerProperties) error {
	link := containerLink(db, props.ID)
	resp, err := c.do(ctx, request{
		method: http.MethodPut,
		res:    resource{Type: "colls", Link: link},
		path:   link,
		body:   props,
	}, http.StatusOK)
	if err != nil {
		return err
	}
	return drain(resp)
}

// DeleteContainer deletes a container and everything in it.
func (c *Client) DeleteContainer(ctx context.Context, db, container string) error {
	link := containerLink(db, container)
	resp, err := c.do(ctx, request{
		method: http.MethodDelete,
		res:    resource{Type: "colls", Link: link},
		path:   link,
	}, http.StatusNoContent)
	if err != nil {
		return err
	}
	return drain(resp)
}

// ReplaceContainerThroughput replaces the dedicated throughput of a
// container. Containers sharing database throughput have no offer of their
// own and fail with gateway.ErrNotFound.
func (c *Client) ReplaceContainerThroughput(ctx context.Context, db, container string, throughput int) error {
	link := containerLink(db, container)
	return c.replaceThroughput(ctx, resource{Type: "colls", Link: link}, link, throughput)
}
