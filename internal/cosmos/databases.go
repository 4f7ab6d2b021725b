package cosmos

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/pthm/bigbang/pkg/gateway"
)

func databaseLink(db string) string {
	return "dbs/" + db
}

// DatabaseExists reads the database and reports whether it was found.
func (c *Client) DatabaseExists(ctx context.Context, db string) (bool, error) {
	link := databaseLink(db)
	resp, err := c.do(ctx, request{
		method: http.MethodGet,
		res:    resource{Type: "dbs", Link: link},
		path:   link,
	}, http.StatusOK)
	if errors.Is(err, gateway.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, drain(resp)
}

// CreateDatabaseIfNotExists creates the database, provisioning throughput
// when given. An existing database is left untouched and reported with
// created=false.
func (c *Client) CreateDatabaseIfNotExists(ctx context.Context, db string, throughput *int) (bool, error) {
	r := request{
		method: http.MethodPost,
		res:    resource{Type: "dbs"},
		path:   "dbs",
		body:   map[string]string{"id": db},
	}
	if throughput != nil {
		r.headers = map[string]string{headerOfferThroughput: strconv.Itoa(*throughput)}
	}

	resp, err := c.do(ctx, r, http.StatusCreated)
	if errors.Is(err, gateway.ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, drain(resp)
}

// ReplaceDatabaseThroughput replaces the throughput provisioned on the
// database itself.
func (c *Client) ReplaceDatabaseThroughput(ctx context.Context, db string, throughput int) error {
	link := databaseLink(db)
	return c.replaceThroughput(ctx, resource{Type: "dbs", Link: link}, link, throughput)
}
