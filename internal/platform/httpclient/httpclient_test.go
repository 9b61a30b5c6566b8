package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMocked(t *testing.T, base string) *Client {
	t.Helper()
	c, err := NewWithBaseURL(base, 0)
	require.NoError(t, err)

	httpmock.ActivateNonDefault(c.HTTP)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestNewWithBaseURL(t *testing.T) {
	c, err := NewWithBaseURL("https://api.example.com/", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", c.BaseURL)
	assert.Equal(t, DefaultTimeout, c.HTTP.Timeout)

	_, err = NewWithBaseURL("not a url", 0)
	assert.Error(t, err)
}

func TestDo_JSONWithHeadersAndQuery(t *testing.T) {
	c := newMocked(t, "https://api.example.com")
	c.DefaultHeaders = map[string]string{"apikey": "k", "Prefer": "default"}

	httpmock.RegisterResponder(http.MethodPost, "https://api.example.com/things",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "k", req.Header.Get("apikey"))
			assert.Equal(t, "return=representation", req.Header.Get("Prefer"))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.Equal(t, "eq.1", req.URL.Query().Get("id"))

			b, _ := io.ReadAll(req.Body)
			assert.JSONEq(t, `{"name":"Neem"}`, string(b))
			return httpmock.NewStringResponse(http.StatusCreated, `{"id":"1"}`), nil
		})

	var out struct {
		ID string `json:"id"`
	}
	err := c.Do(context.Background(), Request{
		Method:  http.MethodPost,
		Path:    "things",
		Query:   url.Values{"id": {"eq.1"}},
		Headers: map[string]string{"Prefer": "return=representation"},
		JSON:    map[string]string{"name": "Neem"},
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, "1", out.ID)
}

func TestDo_RawBodyDefaultsToOctetStream(t *testing.T) {
	c := newMocked(t, "")

	httpmock.RegisterResponder(http.MethodPut, "https://files.example.com/a.png",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "application/octet-stream", req.Header.Get("Content-Type"))
			return httpmock.NewStringResponse(http.StatusOK, ""), nil
		})

	err := c.Do(context.Background(), Request{
		Method: http.MethodPut,
		Path:   "https://files.example.com/a.png",
		Body:   []byte{0x89, 'P', 'N', 'G'},
	}, nil)
	require.NoError(t, err)
}

func TestDo_NonSuccessReturnsHTTPError(t *testing.T) {
	c := newMocked(t, "https://api.example.com")

	httpmock.RegisterResponder(http.MethodGet, "https://api.example.com/missing",
		httpmock.NewStringResponder(http.StatusNotFound, " nope \n"))

	err := c.DoJSON(context.Background(), http.MethodGet, "/missing", nil, nil, nil)
	require.Error(t, err)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "nope", he.Body)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestDo_RelativePathWithoutBaseURL(t *testing.T) {
	c := New(0)
	err := c.Do(context.Background(), Request{Path: "/x"}, nil)
	assert.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))

	var nilClient *Client
	assert.Error(t, nilClient.Do(context.Background(), Request{Path: "/x"}, nil))
}
