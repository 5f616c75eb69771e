// Package receiver is a local stand-in for the upload endpoint. It honours the
// upload contract and discards every byte it receives.
package receiver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/csheth/portal/internal/logging"
	"github.com/csheth/portal/internal/upload"
)

// UploadPath is where the receiver accepts files.
const UploadPath = "/api/upload"

// multipart headers and boundaries on top of the file itself
const formOverhead = 64 << 10

// Options configures the receiver.
type Options struct {
	// MaxBytes caps the accepted file size; zero means unlimited.
	MaxBytes int64
	// Reject, when non-empty, answers every upload with 422 and this message.
	Reject string
	Logger logrus.FieldLogger
}

// Receipt is the success body returned for an accepted upload.
type Receipt struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ReceivedAt time.Time `json:"received_at"`
}

type errorBody struct {
	Message string `json:"message"`
}

type server struct {
	opts Options
	log  logrus.FieldLogger
}

// NewRouter returns the receiver's routes.
func NewRouter(opts Options) *mux.Router {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	s := &server{opts: opts, log: logger.WithField("component", "receiver")}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc(UploadPath, s.handleUpload).Methods(http.MethodPost)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Message: "method not allowed"})
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Message: "not found"})
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	entry := s.log.WithField("request_id", r.Header.Get("X-Request-ID"))

	if s.opts.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBytes+formOverhead)
	}
	reader, err := r.MultipartReader()
	if err != nil {
		entry.WithError(err).Info("upload without multipart body")
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "expected multipart/form-data"})
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.writeReadError(w, entry, err)
			return
		}
		if part.FormName() != upload.FieldName || part.FileName() == "" {
			_, _ = io.Copy(io.Discard, part)
			continue
		}

		name := part.FileName()
		size, err := io.Copy(io.Discard, part)
		if err != nil {
			s.writeReadError(w, entry, err)
			return
		}
		if s.opts.MaxBytes > 0 && size > s.opts.MaxBytes {
			entry.WithFields(logrus.Fields{"file": name, "bytes": size}).Info("upload too large")
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Message: "too large"})
			return
		}
		if s.opts.Reject != "" {
			entry.WithField("file", name).Info("upload rejected by configuration")
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Message: s.opts.Reject})
			return
		}

		receipt := Receipt{
			ID:         uuid.NewString(),
			Name:       name,
			Size:       size,
			ReceivedAt: time.Now().UTC(),
		}
		entry.WithFields(logrus.Fields{"file": name, "bytes": size, "upload_id": receipt.ID}).Info("upload received")
		writeJSON(w, http.StatusCreated, receipt)
		return
	}

	writeJSON(w, http.StatusBadRequest, errorBody{Message: "missing file part"})
}

func (s *server) writeReadError(w http.ResponseWriter, entry logrus.FieldLogger, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		entry.WithError(err).Info("upload too large")
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Message: "too large"})
		return
	}
	entry.WithError(err).Warn("reading upload failed")
	writeJSON(w, http.StatusBadRequest, errorBody{Message: "could not read upload"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
