package mocks

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/httpclient"
	"github.com/stretchr/testify/mock"
)

var _ httpclient.HTTPClient = (*HTTPClient)(nil)

// HTTPClient is a testify mock of httpclient.HTTPClient. Expectations may
// return a nil response alongside a transport error.
type HTTPClient struct {
	mock.Mock
}

func (m *HTTPClient) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return responseOf(m.Called(ctx, url, headers))
}

func (m *HTTPClient) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	return responseOf(m.Called(ctx, url, body, headers))
}

func (m *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return responseOf(m.Called(req))
}

func responseOf(args mock.Arguments) (*http.Response, error) {
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

// JSONResponse builds a canned response carrying body as application/json.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
