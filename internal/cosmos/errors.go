package cosmos

import (
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/pthm/bigbang/pkg/gateway"
)

// responseError converts a non-success response into an error. The result is
// always an *azcore.ResponseError underneath; not-found and conflict
// responses additionally match gateway.ErrNotFound and gateway.ErrConflict.
func responseError(resp *http.Response) error {
	err := runtime.NewResponseError(resp)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", gateway.ErrNotFound, err)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", gateway.ErrConflict, err)
	default:
		return err
	}
}
