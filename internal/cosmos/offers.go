package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/pthm/bigbang/pkg/gateway"
)

// offer is the throughput resource attached to a database or container.
type offer struct {
	ID              string       `json:"id"`
	ResourceID      string       `json:"_rid"`
	Self            string       `json:"_self,omitempty"`
	ETag            string       `json:"_etag,omitempty"`
	OfferVersion    string       `json:"offerVersion,omitempty"`
	OfferType       string       `json:"offerType,omitempty"`
	Resource        string       `json:"resource"`
	OfferResourceID string       `json:"offerResourceId"`
	Content         offerContent `json:"content"`
}

type offerContent struct {
	OfferThroughput        int             `json:"offerThroughput"`
	OfferAutopilotSettings json.RawMessage `json:"offerAutopilotSettings,omitempty"`
}

type query struct {
	Query      string           `json:"query"`
	Parameters []queryParameter `json:"parameters,omitempty"`
}

type queryParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// resourceID reads a database or container and returns its _rid.
func (c *Client) resourceID(ctx context.Context, res resource, path string) (string, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, res: res, path: path}, http.StatusOK)
	if err != nil {
		return "", err
	}
	var body struct {
		ResourceID string `json:"_rid"`
	}
	if err := runtime.UnmarshalAsJSON(resp, &body); err != nil {
		return "", fmt.Errorf("decoding %s: %w", res.Link, err)
	}
	return body.ResourceID, nil
}

// findOffer queries the offer attached to the resource with the given _rid.
func (c *Client) findOffer(ctx context.Context, rid string) (*offer, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		res:    resource{Type: "offers"},
		path:   "offers",
		body: query{
			Query:      "SELECT * FROM root WHERE root.offerResourceId = @rid",
			Parameters: []queryParameter{{Name: "@rid", Value: rid}},
		},
		headers: map[string]string{
			headerIsQuery:  "True",
			"Content-Type": "application/query+json",
		},
	}, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var page struct {
		Offers []offer `json:"Offers"`
	}
	if err := runtime.UnmarshalAsJSON(resp, &page); err != nil {
		return nil, fmt.Errorf("decoding offers: %w", err)
	}
	if len(page.Offers) == 0 {
		return nil, fmt.Errorf("offer for resource %s: %w", rid, gateway.ErrNotFound)
	}
	return &page.Offers[0], nil
}

// replaceThroughput converges the offer of a database or container: read the
// resource for its _rid, find its offer, and replace the offer with the new
// throughput.
func (c *Client) replaceThroughput(ctx context.Context, res resource, path string, throughput int) error {
	rid, err := c.resourceID(ctx, res, path)
	if err != nil {
		return err
	}
	o, err := c.findOffer(ctx, rid)
	if err != nil {
		return fmt.Errorf("%s: %w", res.Link, err)
	}

	o.Content.OfferThroughput = throughput
	resp, err := c.do(ctx, request{
		method: http.MethodPut,
		res:    resource{Type: "offers", Link: strings.ToLower(o.ResourceID)},
		path:   "offers/" + o.ResourceID,
		body:   o,
	}, http.StatusOK)
	if err != nil {
		return err
	}
	return drain(resp)
}
