package httpclient_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/rotinafit/entitlement-api/internal/domain/errors"
	"github.com/rotinafit/entitlement-api/internal/infrastructure/httpclient"
)

func TestPostJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		fmt.Fprint(w, `{"status": 0, "value": "ok"}`)
	}))
	defer srv.Close()

	var out struct {
		Status int    `json:"status"`
		Value  string `json:"value"`
	}
	err := httpclient.PostJSON(context.Background(), srv.Client(), srv.URL, map[string]string{"k": "v"}, &out)

	require.NoError(t, err)
	assert.Equal(t, 0, out.Status)
	assert.Equal(t, "ok", out.Value)
}

func TestPostJSON_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json at all`)
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := httpclient.PostJSON(context.Background(), srv.Client(), srv.URL, map[string]string{}, &out)

	require.ErrorIs(t, err, domainErrors.ErrMalformedVendorResponse)
}

func TestPostJSON_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	var out map[string]interface{}
	err := httpclient.PostJSON(context.Background(), http.DefaultClient, srv.URL, map[string]string{}, &out)

	require.Error(t, err)
	assert.NotErrorIs(t, err, domainErrors.ErrMalformedVendorResponse)
}
