package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUploader(t *testing.T, handler http.HandlerFunc) *HTTPUploader {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	uploader, err := NewHTTPUploader(HTTPConfig{
		Endpoint: server.URL + "/api/upload",
		Client:   server.Client(),
	})
	require.NoError(t, err)
	return uploader
}

func TestHTTPUploaderSendsMultipartFilePart(t *testing.T) {
	uploader := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/upload", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "notes.txt", header.Filename)
		assert.Equal(t, "hello upload", string(content))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"u-1","name":"notes.txt","size":12,"bucket":"demo"}`))
	})

	receipt, err := uploader.Upload(context.Background(), File{Name: "notes.txt", Content: []byte("hello upload")})
	require.NoError(t, err)
	assert.Equal(t, "u-1", receipt.ID)
	assert.Equal(t, "notes.txt", receipt.Name)
	assert.EqualValues(t, 12, receipt.Size)
	assert.Equal(t, "demo", receipt.Raw["bucket"])
}

func TestHTTPUploaderAcceptsNonObjectJSON(t *testing.T) {
	uploader := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`true`))
	})
	receipt, err := uploader.Upload(context.Background(), File{Name: "a"})
	require.NoError(t, err)
	assert.NotNil(t, receipt)
	assert.Nil(t, receipt.Raw)
}

func TestHTTPUploaderRejections(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusRequestEntityTooLarge, `{"message":"too large"}`, "too large"},
		{"no message field", http.StatusInternalServerError, `{"error":"boom"}`, ""},
		{"empty message", http.StatusBadRequest, `{"message":""}`, ""},
		{"null message", http.StatusBadRequest, `{"message":null}`, ""},
		{"numeric message", http.StatusBadRequest, `{"message":42}`, "42"},
		{"plain text body", http.StatusBadGateway, `bad gateway`, ""},
		{"empty body", http.StatusForbidden, ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploader := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := uploader.Upload(context.Background(), File{Name: "x.bin", Content: []byte{1, 2, 3}})
			var rejected *RejectedError
			require.True(t, errors.As(err, &rejected), "got %T: %v", err, err)
			assert.Equal(t, tt.status, rejected.StatusCode)
			assert.Equal(t, tt.message, rejected.Message)
		})
	}
}

func TestHTTPUploaderMalformedSuccessBody(t *testing.T) {
	uploader := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<html>ok</html>`))
	})
	_, err := uploader.Upload(context.Background(), File{Name: "x"})
	var malformed *MalformedResponseError
	require.True(t, errors.As(err, &malformed), "got %T: %v", err, err)
	assert.Equal(t, http.StatusOK, malformed.StatusCode)
}

func TestHTTPUploaderTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL + "/api/upload"
	server.Close()

	uploader, err := NewHTTPUploader(HTTPConfig{Endpoint: endpoint, Timeout: time.Second})
	require.NoError(t, err)

	_, err = uploader.Upload(context.Background(), File{Name: "x"})
	var transport *TransportError
	require.True(t, errors.As(err, &transport), "got %T: %v", err, err)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestHTTPUploaderTimeoutIsTransportFailure(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	uploader, err := NewHTTPUploader(HTTPConfig{Endpoint: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	_, err = uploader.Upload(context.Background(), File{Name: "slow"})
	var transport *TransportError
	assert.True(t, errors.As(err, &transport), "got %T: %v", err, err)
}

func TestNewHTTPUploaderValidatesEndpoint(t *testing.T) {
	for _, endpoint := range []string{"", "/api/upload", "ftp://example.com/upload", "http://"} {
		_, err := NewHTTPUploader(HTTPConfig{Endpoint: endpoint})
		assert.Error(t, err, "endpoint %q", endpoint)
	}
	uploader, err := NewHTTPUploader(HTTPConfig{Endpoint: " https://example.com/api/upload "})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api/upload", uploader.Endpoint())
}

func TestSessionOverHTTP(t *testing.T) {
	uploader := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = w.Write([]byte(`{"message":"too large"}`))
	})
	s := NewSession(uploader)
	f := &File{Name: "big.iso", Content: make([]byte, 64)}
	s.SelectFile(f)

	status := s.Submit(context.Background())
	assert.Equal(t, "Error during upload: too large", status.Message)
	assert.Same(t, f, s.Pending())
}
