package upload

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type fakeUploader struct {
	calls   int32
	receipt *Receipt
	err     error
	panicV  any
	seen    []File
}

func (f *fakeUploader) Upload(ctx context.Context, file File) (*Receipt, error) {
	atomic.AddInt32(&f.calls, 1)
	f.seen = append(f.seen, file)
	if f.panicV != nil {
		panic(f.panicV)
	}
	return f.receipt, f.err
}

func (f *fakeUploader) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}

func sampleFile() *File {
	return &File{Name: "report.pdf", Content: []byte("%PDF-1.4 fake")}
}

func TestNewSessionIsIdle(t *testing.T) {
	s := NewSession(&fakeUploader{})
	if got := s.Status(); got.Phase != PhaseIdle || got.Message != "" {
		t.Fatalf("initial status = %+v", got)
	}
	if s.Pending() != nil {
		t.Fatal("new session should have no staged file")
	}
	if s.CanSubmit() {
		t.Fatal("submit should be disabled without a file")
	}
}

func TestSubmitWithoutFile(t *testing.T) {
	up := &fakeUploader{}
	s := NewSession(up)

	status := s.Submit(context.Background())
	if status.Phase != PhaseFailed || status.Message != "Please select a file first." {
		t.Fatalf("status = %+v", status)
	}
	if up.Calls() != 0 {
		t.Fatalf("uploader called %d times, want 0", up.Calls())
	}

	if _, err := s.Begin(); !errors.Is(err, ErrNoFileSelected) {
		t.Fatalf("Begin err = %v, want ErrNoFileSelected", err)
	}
}

func TestSubmitSuccessClearsPending(t *testing.T) {
	up := &fakeUploader{receipt: &Receipt{ID: "abc"}}
	s := NewSession(up)
	f := sampleFile()
	s.SelectFile(f)

	status := s.Submit(context.Background())
	if status.Phase != PhaseSucceeded {
		t.Fatalf("phase = %v, want succeeded", status.Phase)
	}
	if status.Message != "Success! File 'report.pdf' was uploaded." {
		t.Fatalf("message = %q", status.Message)
	}
	if s.Pending() != nil {
		t.Fatal("pending file should be cleared after success")
	}
	if up.Calls() != 1 {
		t.Fatalf("uploader called %d times, want 1", up.Calls())
	}
	if up.seen[0].Name != "report.pdf" || string(up.seen[0].Content) != string(f.Content) {
		t.Fatalf("uploader received %+v", up.seen[0])
	}
	if status.IsError() {
		t.Fatal("success message should not be styled as an error")
	}
}

func TestSubmitRejectedKeepsPending(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"with message", &RejectedError{StatusCode: 413, Message: "too large"}, "Error during upload: too large"},
		{"without message", &RejectedError{StatusCode: 500}, "Error during upload: Unknown error"},
		{"malformed success body", &MalformedResponseError{StatusCode: 200, Err: errors.New("bad json")}, "Error during upload: Malformed response from server."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(&fakeUploader{err: tt.err})
			f := sampleFile()
			s.SelectFile(f)

			status := s.Submit(context.Background())
			if status.Phase != PhaseFailed || status.Message != tt.want {
				t.Fatalf("status = %+v, want message %q", status, tt.want)
			}
			if s.Pending() != f {
				t.Fatal("pending file should survive a rejection")
			}
			if !status.IsError() {
				t.Fatal("rejection should be styled as an error")
			}
			if !s.CanSubmit() {
				t.Fatal("retry should be possible without reselecting")
			}
		})
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	tests := []struct {
		name string
		up   *fakeUploader
	}{
		{"transport error", &fakeUploader{err: &TransportError{Err: errors.New("connection refused")}}},
		{"unclassified error", &fakeUploader{err: context.DeadlineExceeded}},
		{"panicking uploader", &fakeUploader{panicV: "boom"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(tt.up)
			f := sampleFile()
			s.SelectFile(f)

			status := s.Submit(context.Background())
			if status.Message != "Network error. Please check your connection and try again." {
				t.Fatalf("message = %q", status.Message)
			}
			if status.InFlight() {
				t.Fatal("status must not stay in flight")
			}
			if s.Pending() != f {
				t.Fatal("pending file should survive a transport failure")
			}
		})
	}
}

func TestSubmitWithoutUploaderIsTransportFailure(t *testing.T) {
	s := NewSession(nil)
	s.SelectFile(sampleFile())
	if got := s.Submit(context.Background()).Message; got != MessageNetwork {
		t.Fatalf("message = %q", got)
	}
}

func TestSelectFileIdempotent(t *testing.T) {
	f := sampleFile()

	once := NewSession(&fakeUploader{})
	once.SelectFile(f)

	twice := NewSession(&fakeUploader{})
	twice.SelectFile(f)
	twice.SelectFile(f)

	if once.Status() != twice.Status() || once.Pending() != twice.Pending() {
		t.Fatalf("state differs: once=%+v/%p twice=%+v/%p", once.Status(), once.Pending(), twice.Status(), twice.Pending())
	}
	if twice.Status().Phase != PhaseIdle {
		t.Fatalf("phase = %v, want idle", twice.Status().Phase)
	}
}

func TestSelectFileResetsPreviousOutcome(t *testing.T) {
	s := NewSession(&fakeUploader{err: &RejectedError{StatusCode: 400, Message: "nope"}})
	s.SelectFile(sampleFile())
	s.Submit(context.Background())
	if s.Status().Phase != PhaseFailed {
		t.Fatal("expected failure before reselecting")
	}

	next := &File{Name: "next.txt", Content: []byte("x")}
	if !s.SelectFile(next) {
		t.Fatal("selection should be accepted after failure")
	}
	if got := s.Status(); got.Phase != PhaseIdle || got.Message != "" {
		t.Fatalf("status after reselect = %+v", got)
	}
	if s.Pending() != next {
		t.Fatal("pending file should be replaced wholesale")
	}
}

func TestSelectFileNilIsNoop(t *testing.T) {
	s := NewSession(&fakeUploader{})
	s.Submit(context.Background())
	before := s.Status()

	if s.SelectFile(nil) {
		t.Fatal("nil selection should report no change")
	}
	if s.Status() != before || s.Pending() != nil {
		t.Fatalf("nil selection changed state: %+v", s.Status())
	}
}

func TestBeginIsSingleFlight(t *testing.T) {
	up := &fakeUploader{receipt: &Receipt{}}
	s := NewSession(up)
	s.SelectFile(sampleFile())

	attempt, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if !s.Status().InFlight() {
		t.Fatal("status should be in flight after Begin")
	}
	if s.CanSubmit() {
		t.Fatal("submit should be disabled while in flight")
	}
	if _, err := s.Begin(); !errors.Is(err, ErrInFlight) {
		t.Fatalf("second Begin err = %v, want ErrInFlight", err)
	}
	if got := s.Submit(context.Background()); !got.InFlight() {
		t.Fatalf("reentrant Submit changed status: %+v", got)
	}
	if s.SelectFile(&File{Name: "other"}) {
		t.Fatal("selection should be refused while in flight")
	}
	if s.Pending() == nil {
		t.Fatal("in-flight session must keep its staged file")
	}

	status := s.Settle(attempt.Run(context.Background()))
	if status.Phase != PhaseSucceeded {
		t.Fatalf("phase = %v, want succeeded", status.Phase)
	}
	if up.Calls() != 1 {
		t.Fatalf("uploader called %d times, want 1", up.Calls())
	}
}

func TestSettleIgnoresStaleOutcome(t *testing.T) {
	s := NewSession(&fakeUploader{err: &RejectedError{StatusCode: 500}})
	s.SelectFile(sampleFile())

	first, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	stale := first.Run(context.Background())
	s.Settle(stale)
	if s.Status().Phase != PhaseFailed {
		t.Fatalf("phase = %v, want failed", s.Status().Phase)
	}

	second, err := s.Begin()
	if err != nil {
		t.Fatalf("retry Begin: %v", err)
	}
	if second.Seq() != first.Seq()+1 {
		t.Fatalf("attempt seq = %d, want %d", second.Seq(), first.Seq()+1)
	}
	if got := s.Settle(stale); !got.InFlight() {
		t.Fatalf("stale outcome settled the new attempt: %+v", got)
	}
}

func TestSuccessUsesNameOfFileSent(t *testing.T) {
	s := NewSession(&fakeUploader{receipt: &Receipt{}})
	s.SelectFile(&File{Name: "first.txt"})
	attempt, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if attempt.File().Name != "first.txt" {
		t.Fatalf("attempt file = %q", attempt.File().Name)
	}
	status := s.Settle(attempt.Run(context.Background()))
	if status.Message != "Success! File 'first.txt' was uploaded." {
		t.Fatalf("message = %q", status.Message)
	}
}

func TestSessionReusableAcrossAttempts(t *testing.T) {
	up := &fakeUploader{receipt: &Receipt{}}
	s := NewSession(up)
	for i := 0; i < 3; i++ {
		s.SelectFile(sampleFile())
		if got := s.Submit(context.Background()); got.Phase != PhaseSucceeded {
			t.Fatalf("attempt %d: phase = %v", i, got.Phase)
		}
	}
	if got := s.Submit(context.Background()); got.Message != MessageNoFile {
		t.Fatalf("submit after success should require a fresh selection, got %q", got.Message)
	}
	if up.Calls() != 3 {
		t.Fatalf("uploader called %d times, want 3", up.Calls())
	}
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		PhaseIdle:      "idle",
		PhaseInFlight:  "in-flight",
		PhaseSucceeded: "succeeded",
		PhaseFailed:    "failed",
		Phase(9):       "unknown",
	}
	for phase, want := range cases {
		if got := phase.String(); got != want {
			t.Fatalf("Phase(%d).String() = %q, want %q", phase, got, want)
		}
	}
}

func TestStatusIsErrorUsesPrefix(t *testing.T) {
	cases := []struct {
		message string
		want    bool
	}{
		{"Error during upload: Unknown error", true},
		{"Error", true},
		{MessageNoFile, false},
		{MessageNetwork, false},
		{"Success! File 'a.txt' was uploaded.", false},
		{"error during upload", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := (Status{Message: tc.message}).IsError(); got != tc.want {
			t.Fatalf("IsError(%q) = %v, want %v", tc.message, got, tc.want)
		}
	}
}
