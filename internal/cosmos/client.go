// Package cosmos implements gateway.Gateway over the Cosmos DB REST API.
//
// Requests go through an azcore pipeline that signs every attempt with the
// account master key. Retries are disabled: a failed request fails the
// operation, and the caller decides whether the run halts.
//
//	client, err := cosmos.NewClient(connStr, nil)
//	if err != nil {
//	    return err
//	}
//	sess, err := migrator.Validate(ctx, client, "database.json")
package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/pthm/bigbang/internal/version"
	"github.com/pthm/bigbang/pkg/gateway"
)

const moduleName = "bigbang/cosmos"

// Client talks to one account.
type Client struct {
	endpoint string
	pl       runtime.Pipeline
}

var _ gateway.Gateway = (*Client)(nil)

// NewClient creates a client from an account connection string. Options may
// be nil; a non-nil Transport replaces the default HTTP client. Retry
// settings are always overridden so no request is retried.
func NewClient(connStr string, options *policy.ClientOptions) (*Client, error) {
	creds, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, err
	}
	return NewClientFromCredentials(creds, options)
}

// NewClientFromCredentials creates a client from an endpoint and master key.
func NewClientFromCredentials(creds Credentials, options *policy.ClientOptions) (*Client, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	auth, err := newMasterKeyPolicy(creds.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	opts := policy.ClientOptions{}
	if options != nil {
		opts = *options
	}
	opts.Retry.MaxRetries = -1
	if opts.Telemetry.ApplicationID == "" {
		opts.Telemetry.ApplicationID = version.UserAgent()
	}

	pl := runtime.NewPipeline(moduleName, version.Short(), runtime.PipelineOptions{
		PerRetry: []policy.Policy{auth},
	}, &opts)

	return &Client{
		endpoint: strings.TrimSuffix(creds.Endpoint, "/"),
		pl:       pl,
	}, nil
}

// Endpoint returns the account endpoint without a trailing slash.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Ping reads the account, confirming the endpoint is reachable and the key
// is accepted.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, request{
		method: http.MethodGet,
		res:    resource{},
		path:   "",
	}, http.StatusOK)
	if err != nil {
		return err
	}
	return drain(resp)
}

// request describes one REST call.
type request struct {
	method  string
	res     resource
	path    string
	body    any
	headers map[string]string
}

// do sends the request and returns the response when its status is one of
// ok. Any other status becomes an error, see responseError.
func (c *Client) do(ctx context.Context, r request, ok ...int) (*http.Response, error) {
	req, err := runtime.NewRequest(ctx, r.method, c.url(r.path))
	if err != nil {
		return nil, err
	}
	req.SetOperationValue(r.res)

	if r.body != nil {
		if err := runtime.MarshalAsJSON(req, r.body); err != nil {
			return nil, err
		}
	}
	for name, value := range r.headers {
		req.Raw().Header.Set(name, value)
	}

	resp, err := c.pl.Do(req)
	if err != nil {
		return nil, err
	}
	if !runtime.HasStatusCode(resp, ok...) {
		return nil, responseError(resp)
	}
	return resp, nil
}

func (c *Client) url(path string) string {
	if path == "" {
		return c.endpoint + "/"
	}
	return runtime.JoinPaths(c.endpoint, path)
}

// readFeed drains a feed page by page, following the continuation token, and
// decodes the items stored under field in every page.
func readFeed[T any](ctx context.Context, c *Client, res resource, path, field string) ([]T, error) {
	var (
		items        []T
		continuation string
	)
	for {
		r := request{method: http.MethodGet, res: res, path: path}
		if continuation != "" {
			r.headers = map[string]string{headerContinuation: continuation}
		}
		resp, err := c.do(ctx, r, http.StatusOK)
		if err != nil {
			return nil, err
		}

		var page map[string]json.RawMessage
		if err := runtime.UnmarshalAsJSON(resp, &page); err != nil {
			return nil, fmt.Errorf("decoding %s feed: %w", field, err)
		}
		if raw, ok := page[field]; ok {
			var batch []T
			if err := json.Unmarshal(raw, &batch); err != nil {
				return nil, fmt.Errorf("decoding %s feed: %w", field, err)
			}
			items = append(items, batch...)
		}

		continuation = resp.Header.Get(headerContinuation)
		if continuation == "" {
			return items, nil
		}
	}
}

// drain closes a response body that carries nothing the caller needs.
func drain(resp *http.Response) error {
	return resp.Body.Close()
}
