package remote_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edge-social/edge-sync/internal/remote"
)

type recordedRequest struct {
	Method string          `json:"method"`
	Path   string          `json:"path"`
	ID     any             `json:"id"`
	Data   json.RawMessage `json:"data"`
}

func newServer(t *testing.T, status int, body string, captured *recordedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
}

func TestClientCallSerializesEnvelope(t *testing.T) {
	var captured recordedRequest
	server := newServer(t, http.StatusOK, `{"status":"success","id":"7"}`, &captured)
	defer server.Close()

	client := remote.NewClient(server.URL, zerolog.New(io.Discard))
	result, err := client.Call(context.Background(), remote.MethodPut, remote.ResourcePosts, map[string]string{"content": "hi"}, "7")
	require.NoError(t, err)

	require.Equal(t, "PUT", captured.Method)
	require.Equal(t, "posts", captured.Path)
	require.Equal(t, "7", captured.ID)
	require.JSONEq(t, `{"content":"hi"}`, string(captured.Data))
	require.Equal(t, "7", string(result.ID))
}

func TestClientCallOmitsIDAndPayloadWhenAbsent(t *testing.T) {
	var captured recordedRequest
	server := newServer(t, http.StatusOK, `{"status":"success","data":[]}`, &captured)
	defer server.Close()

	client := remote.NewClient(server.URL, zerolog.New(io.Discard))
	_, err := client.Call(context.Background(), remote.MethodGet, remote.ResourceUsers, nil, "")
	require.NoError(t, err)

	require.Nil(t, captured.ID)
	require.Equal(t, "null", string(captured.Data))
}

func TestClientNormalizesTopLevelID(t *testing.T) {
	server := newServer(t, http.StatusOK, `{"status":"success","id":42,"data":{"content":"hi"}}`, nil)
	defer server.Close()

	client := remote.NewClient(server.URL, zerolog.New(io.Discard))
	result, err := client.Call(context.Background(), remote.MethodPost, remote.ResourcePosts, map[string]string{}, "")
	require.NoError(t, err)
	require.Equal(t, "42", string(result.ID))
}

func TestClientNormalizesNestedID(t *testing.T) {
	server := newServer(t, http.StatusOK, `{"status":"success","data":{"id":"abc","content":"hi"}}`, nil)
	defer server.Close()

	client := remote.NewClient(server.URL, zerolog.New(io.Discard))
	result, err := client.Call(context.Background(), remote.MethodPost, remote.ResourcePosts, map[string]string{}, "")
	require.NoError(t, err)
	require.Equal(t, "abc", string(result.ID))

	var decoded struct {
		Content string `json:"content"`
	}
	require.NoError(t, result.Decode(&decoded))
	require.Equal(t, "hi", decoded.Content)
}

func TestClientFallsBackToRawEnvelope(t *testing.T) {
	server := newServer(t, http.StatusOK, `{"status":"success","id":"5","extra":"field"}`, nil)
	defer server.Close()

	client := remote.NewClient(server.URL, zerolog.New(io.Discard))
	result, err := client.Call(context.Background(), remote.MethodPost, remote.ResourceComments, map[string]string{}, "")
	require.NoError(t, err)
	require.Equal(t, "5", string(result.ID))

	var decoded struct {
		Extra string `json:"extra"`
	}
	require.NoError(t, result.Decode(&decoded))
	require.Equal(t, "field", decoded.Extra)
}

func TestClientEmptyBodyIsBareSuccess(t *testing.T) {
	server := newServer(t, http.StatusOK, "", nil)
	defer server.Close()

	client := remote.NewClient(server.URL, zerolog.New(io.Discard))
	result, err := client.Call(context.Background(), remote.MethodDelete, remote.ResourcePosts, nil, "9")
	require.NoError(t, err)
	require.True(t, result.Empty())
	require.Empty(t, result.ID)
}

func TestClientErrorEnvelope(t *testing.T) {
	server := newServer(t, http.StatusOK, `{"status":"error","message":"row not found"}`, nil)
	defer server.Close()

	client := remote.NewClient(server.URL, zerolog.New(io.Discard))
	_, err := client.Call(context.Background(), remote.MethodPut, remote.ResourcePosts, map[string]string{}, "404")
	require.Error(t, err)

	var remoteErr *remote.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	require.Equal(t, "row not found", remoteErr.Message)
}

func TestClientTransportErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "http failure", status: http.StatusBadGateway, body: "upstream down"},
		{name: "malformed json", status: http.StatusOK, body: "<html>quota exceeded</html>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newServer(t, tc.status, tc.body, nil)
			defer server.Close()

			client := remote.NewClient(server.URL, zerolog.New(io.Discard))
			_, err := client.Call(context.Background(), remote.MethodGet, remote.ResourceUsers, nil, "")
			require.Error(t, err)

			var transportErr *remote.TransportError
			require.ErrorAs(t, err, &transportErr)
		})
	}
}

func TestClientUnreachableEndpoint(t *testing.T) {
	client := remote.NewClient("http://127.0.0.1:1", zerolog.New(io.Discard))
	_, err := client.Call(context.Background(), remote.MethodGet, remote.ResourceUsers, nil, "")
	require.Error(t, err)

	var transportErr *remote.TransportError
	require.ErrorAs(t, err, &transportErr)
}
