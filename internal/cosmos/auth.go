package cosmos

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

const (
	apiVersion = "2018-12-31"

	headerAuthorization   = "Authorization"
	headerDate            = "x-ms-date"
	headerVersion         = "x-ms-version"
	headerContinuation    = "x-ms-continuation"
	headerOfferThroughput = "x-ms-offer-throughput"
	headerIsQuery         = "x-ms-documentdb-isquery"
)

// resource names the resource a request addresses, as it takes part in the
// signature. It travels with the request as an operation value.
type resource struct {
	// Type is the resource type segment, e.g. "colls" or "sprocs". Empty for
	// account-level reads.
	Type string

	// Link is the path of the addressed resource, or of its parent for feed
	// reads and creates, without leading or trailing slashes.
	Link string
}

// masterKeyPolicy signs each attempt with the account master key. It runs
// per retry so the date header is fresh on every attempt.
type masterKeyPolicy struct {
	key []byte
	now func() time.Time
}

func newMasterKeyPolicy(key string) (*masterKeyPolicy, error) {
	decoded, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, err
	}
	return &masterKeyPolicy{key: decoded, now: time.Now}, nil
}

func (p *masterKeyPolicy) Do(req *policy.Request) (*http.Response, error) {
	var res resource
	req.OperationValue(&res)

	date := p.now().UTC().Format(http.TimeFormat)
	raw := req.Raw()
	raw.Header.Set(headerDate, date)
	raw.Header.Set(headerVersion, apiVersion)
	raw.Header.Set(headerAuthorization, p.sign(raw.Method, res, date))
	return req.Next()
}

// sign computes the master key authorization token for one request.
func (p *masterKeyPolicy) sign(verb string, res resource, date string) string {
	payload := strings.ToLower(verb) + "\n" +
		strings.ToLower(res.Type) + "\n" +
		res.Link + "\n" +
		strings.ToLower(date) + "\n" +
		"" + "\n"

	mac := hmac.New(sha256.New, p.key)
	mac.Write([]byte(payload))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return url.QueryEscape("type=master&ver=1.0&sig=" + sig)
}
