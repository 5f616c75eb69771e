package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/csheth/portal/internal/logging"
)

const (
	// FieldName is the multipart part that carries the file.
	FieldName = "file"

	defaultUploadTimeout = 30 * time.Second
	maxResponseBytes     = 1 << 20
)

// HTTPConfig configures an HTTPUploader.
type HTTPConfig struct {
	Endpoint string
	Timeout  time.Duration
	Client   *http.Client
	Logger   logrus.FieldLogger
}

// HTTPUploader posts files to an upload endpoint as multipart form data.
type HTTPUploader struct {
	endpoint string
	client   *http.Client
	log      logrus.FieldLogger
}

// NewHTTPUploader validates the endpoint and builds an uploader.
func NewHTTPUploader(cfg HTTPConfig) (*HTTPUploader, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid upload endpoint %q: %w", endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("upload endpoint %q must use http or https", endpoint)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("upload endpoint %q has no host", endpoint)
	}
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultUploadTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &HTTPUploader{
		endpoint: endpoint,
		client:   client,
		log:      logger.WithField("component", "uploader"),
	}, nil
}

// Endpoint returns the URL files are posted to.
func (u *HTTPUploader) Endpoint() string {
	return u.endpoint
}

// Upload posts file under the "file" part. Transport problems come back as
// *TransportError, non-2xx statuses as *RejectedError, and a 2xx body that is
// not JSON as *MalformedResponseError.
func (u *HTTPUploader) Upload(ctx context.Context, file File) (*Receipt, error) {
	body, contentType, err := encodeMultipart(file)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	entry := u.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"file":       file.Name,
		"bytes":      file.Size(),
	})
	started := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		entry.WithError(err).Warn("upload request failed")
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		entry.WithError(err).Warn("reading upload response failed")
		return nil, &TransportError{Err: err}
	}
	entry = entry.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(started),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := decodeMessage(raw)
		entry.WithField("message", message).Warn("upload rejected")
		return nil, &RejectedError{StatusCode: resp.StatusCode, Message: message}
	}

	receipt, err := decodeReceipt(raw)
	if err != nil {
		entry.WithError(err).Warn("upload response was not JSON")
		return nil, &MalformedResponseError{StatusCode: resp.StatusCode, Err: err}
	}
	entry.WithField("upload_id", receipt.ID).Info("upload accepted")
	return receipt, nil
}

func encodeMultipart(file File) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(FieldName, file.Name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

func decodeReceipt(raw []byte) (*Receipt, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	receipt := &Receipt{}
	fields, ok := value.(map[string]any)
	if !ok {
		return receipt, nil
	}
	receipt.Raw = fields
	if id, ok := fields["id"].(string); ok {
		receipt.ID = id
	}
	if name, ok := fields["name"].(string); ok {
		receipt.Name = name
	}
	if size, ok := fields["size"].(float64); ok {
		receipt.Size = int64(size)
	}
	return receipt, nil
}

// decodeMessage pulls the optional "message" field out of an error body.
// Bodies that are not JSON objects yield an empty message.
func decodeMessage(raw []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Message) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(payload.Message, &text); err == nil {
		return text
	}
	trimmed := strings.TrimSpace(string(payload.Message))
	if trimmed == "null" || trimmed == "false" || trimmed == "0" {
		return ""
	}
	return trimmed
}

var _ Uploader = (*HTTPUploader)(nil)
