// Package upload stages a single local file and sends it to the upload
// endpoint, reporting the outcome as user-facing status text.
package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Status messages shown on the upload page.
const (
	MessageNoFile    = "Please select a file first."
	MessageNetwork   = "Network error. Please check your connection and try again."
	messageSuccess   = "Success! File '%s' was uploaded."
	messageRejected  = "Error during upload: %s"
	messageUnknown   = "Unknown error"
	messageMalformed = "Malformed response from server."
)

// Uploader sends one file to the upload endpoint.
type Uploader interface {
	Upload(ctx context.Context, file File) (*Receipt, error)
}

// Receipt is the decoded body of a successful upload. Only its presence
// matters; the known fields are filled when the endpoint sends them.
type Receipt struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Size int64          `json:"size"`
	Raw  map[string]any `json:"-"`
}

// Phase is the coarse upload state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInFlight
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInFlight:
		return "in-flight"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is the session's current phase plus the message to display.
type Status struct {
	Phase   Phase
	Message string
}

// InFlight reports whether an upload is outstanding.
func (s Status) InFlight() bool {
	return s.Phase == PhaseInFlight
}

// IsError reports whether the message should be styled as an error. Only
// messages starting with "Error" qualify.
func (s Status) IsError() bool {
	return strings.HasPrefix(s.Message, "Error")
}

// Session owns the staged file and the status of its upload. It is safe for
// concurrent use, but at most one upload is ever outstanding.
type Session struct {
	mu       sync.Mutex
	uploader Uploader
	pending  *File
	status   Status
	attempt  *Attempt
	seq      uint64
}

// NewSession returns an idle session that sends files through uploader.
func NewSession(uploader Uploader) *Session {
	return &Session{uploader: uploader}
}

// Pending returns the staged file, or nil.
func (s *Session) Pending() *File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Status returns the current status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CanSubmit reports whether the upload control should be enabled.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil && s.status.Phase != PhaseInFlight
}

// SelectFile stages f and resets the status to idle. A nil f means the
// picker was cancelled and leaves the session untouched. Selections are
// refused while an upload is in flight.
func (s *Session) SelectFile(f *File) bool {
	if f == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Phase == PhaseInFlight {
		return false
	}
	s.pending = f
	s.status = Status{Phase: PhaseIdle}
	return true
}

// Begin starts an upload of the staged file. Without a staged file the
// session fails with MessageNoFile and ErrNoFileSelected is returned; the
// endpoint is not contacted. While another upload is outstanding ErrInFlight
// is returned and nothing changes.
func (s *Session) Begin() (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Phase == PhaseInFlight {
		return nil, ErrInFlight
	}
	if s.pending == nil {
		s.status = Status{Phase: PhaseFailed, Message: MessageNoFile}
		return nil, ErrNoFileSelected
	}
	s.seq++
	s.attempt = &Attempt{seq: s.seq, file: *s.pending, uploader: s.uploader}
	s.status = Status{Phase: PhaseInFlight}
	return s.attempt, nil
}

// Settle applies the outcome of the in-flight attempt and returns the new
// status. Outcomes from any other attempt are ignored.
func (s *Session) Settle(o Outcome) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempt == nil || o.attempt != s.attempt {
		return s.status
	}
	name := s.attempt.file.Name
	s.attempt = nil
	if o.Err == nil {
		s.pending = nil
		s.status = Status{Phase: PhaseSucceeded, Message: fmt.Sprintf(messageSuccess, name)}
		return s.status
	}
	s.status = Status{Phase: PhaseFailed, Message: failureMessage(o.Err)}
	return s.status
}

// Submit runs Begin, the upload, and Settle in one blocking call.
func (s *Session) Submit(ctx context.Context) Status {
	attempt, err := s.Begin()
	if err != nil {
		return s.Status()
	}
	return s.Settle(attempt.Run(ctx))
}

func failureMessage(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		message := rejected.Message
		if message == "" {
			message = messageUnknown
		}
		return fmt.Sprintf(messageRejected, message)
	}
	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		return fmt.Sprintf(messageRejected, messageMalformed)
	}
	return MessageNetwork
}

// Attempt is one outstanding upload. Run it off the UI goroutine and hand the
// outcome back to Session.Settle.
type Attempt struct {
	seq      uint64
	file     File
	uploader Uploader
}

// File returns the snapshot of the staged file being sent.
func (a *Attempt) File() File {
	return a.file
}

// Seq numbers attempts within a session, starting at 1.
func (a *Attempt) Seq() uint64 {
	return a.seq
}

// Outcome is the result of Attempt.Run.
type Outcome struct {
	attempt *Attempt
	Receipt *Receipt
	Err     error
}

// Run performs exactly one call to the uploader. A panicking uploader is
// reported as a transport failure so the session can always settle.
func (a *Attempt) Run(ctx context.Context) (out Outcome) {
	out.attempt = a
	defer func() {
		if r := recover(); r != nil {
			out.Receipt = nil
			out.Err = &TransportError{Err: fmt.Errorf("uploader panic: %v", r)}
		}
	}()
	if a.uploader == nil {
		out.Err = &TransportError{Err: errors.New("no upload endpoint configured")}
		return out
	}
	out.Receipt, out.Err = a.uploader.Upload(ctx, a.file)
	return out
}
