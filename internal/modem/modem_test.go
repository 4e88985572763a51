package modem

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/openduro/dwgate/internal/uwb"
)

// fakePort is a scripted serial port. Each entry in reads is returned by
// one Read call; an exhausted script behaves like an idle link (zero-length
// reads, i.e. port-level timeouts).
type fakePort struct {
	reads    [][]byte
	writes   [][]byte
	readErr  error
	writeErr error
	closed   bool
}

func (p *fakePort) Read(buf []byte) (int, error) {
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.reads) == 0 {
		return 0, nil // idle link: timeout
	}
	chunk := p.reads[0]
	n := copy(buf, chunk)
	if n < len(chunk) {
		p.reads[0] = chunk[n:]
	} else {
		p.reads = p.reads[1:]
	}
	return n, nil
}

func (p *fakePort) Write(data []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.writes = append(p.writes, append([]byte(nil), data...))
	return len(data), nil
}

func (p *fakePort) SetReadTimeout(_ time.Duration) error { return nil }

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

// testFrame is a valid frame addressed to the reference node identity.
func testFrame(t *testing.T) uwb.Frame {
	t.Helper()
	payload, err := uwb.EncodeMessage(uwb.SetCell{Cell: uwb.Cell{Row: 1, Col: 2, R: 3, G: 4, B: 5}})
	if err != nil {
		t.Fatalf("EncodeMessage() unexpected error: %v", err)
	}
	return uwb.Frame{
		Header: uwb.FrameHeader{
			Source:      uwb.Identity{PanID: 0x0386, ShortAddr: 0x0101},
			Destination: uwb.Identity{PanID: 0x0386, ShortAddr: 0x0808},
		},
		Payload: payload,
	}
}

func newTestModem(p *fakePort) *Modem {
	return newModem(p, Config{Port: "test", AckTimeout: 50 * time.Millisecond})
}

func TestBeginReceiveSendsListen(t *testing.T) {
	p := &fakePort{reads: [][]byte{EncodeHostMessage(MsgListenAck, nil)}}
	m := newTestModem(p)

	rx, err := m.BeginReceive()
	if err != nil {
		t.Fatalf("BeginReceive() unexpected error: %v", err)
	}
	if rx == nil {
		t.Fatal("BeginReceive() returned nil handle")
	}
	if len(p.writes) != 1 || !bytes.Equal(p.writes[0], EncodeHostMessage(MsgListen, nil)) {
		t.Errorf("writes = %X, want one listen command", p.writes)
	}
}

func TestBeginReceiveNotReady(t *testing.T) {
	// Modem never acknowledges the listen command.
	p := &fakePort{}
	m := newTestModem(p)

	if _, err := m.BeginReceive(); !errors.Is(err, ErrNotReady) {
		t.Errorf("BeginReceive() error = %v, want ErrNotReady", err)
	}

	// The slot must be released so a later attempt can succeed.
	p.reads = [][]byte{EncodeHostMessage(MsgListenAck, nil)}
	if _, err := m.BeginReceive(); err != nil {
		t.Errorf("BeginReceive() after failure: unexpected error: %v", err)
	}
}

func TestBeginReceiveRejectsOverlap(t *testing.T) {
	p := &fakePort{reads: [][]byte{EncodeHostMessage(MsgListenAck, nil)}}
	m := newTestModem(p)

	if _, err := m.BeginReceive(); err != nil {
		t.Fatalf("BeginReceive() unexpected error: %v", err)
	}
	if _, err := m.BeginReceive(); !errors.Is(err, ErrReceiveActive) {
		t.Errorf("overlapping BeginReceive() error = %v, want ErrReceiveActive", err)
	}
}

func TestWaitReturnsFrame(t *testing.T) {
	frame := testFrame(t)
	p := &fakePort{reads: [][]byte{
		EncodeHostMessage(MsgListenAck, nil),
		EncodeHostMessage(MsgRxFrame, frame.Encode()),
	}}
	m := newTestModem(p)

	rx, err := m.BeginReceive()
	if err != nil {
		t.Fatalf("BeginReceive() unexpected error: %v", err)
	}

	got, err := rx.Wait(time.Second)
	if err != nil {
		t.Fatalf("Wait() unexpected error: %v", err)
	}
	if got.Header != frame.Header {
		t.Errorf("Header = %+v, want %+v", got.Header, frame.Header)
	}
	if !bytes.Equal(got.Payload, frame.Payload) {
		t.Errorf("Payload = %X, want %X", got.Payload, frame.Payload)
	}
	if m.Stats().FramesRx != 1 {
		t.Errorf("FramesRx = %d, want 1", m.Stats().FramesRx)
	}
}

func TestWaitHandlesSplitReads(t *testing.T) {
	// The frame message arrives in three arbitrary chunks.
	frame := testFrame(t)
	msg := EncodeHostMessage(MsgRxFrame, frame.Encode())
	p := &fakePort{reads: [][]byte{
		EncodeHostMessage(MsgListenAck, nil),
		msg[:3],
		msg[3:10],
		msg[10:],
	}}
	m := newTestModem(p)

	rx, err := m.BeginReceive()
	if err != nil {
		t.Fatalf("BeginReceive() unexpected error: %v", err)
	}

	got, err := rx.Wait(time.Second)
	if err != nil {
		t.Fatalf("Wait() unexpected error: %v", err)
	}
	if got.Header != frame.Header {
		t.Errorf("Header = %+v, want %+v", got.Header, frame.Header)
	}
}

func TestWaitTimesOutOnIdleLink(t *testing.T) {
	p := &fakePort{reads: [][]byte{EncodeHostMessage(MsgListenAck, nil)}}
	m := newTestModem(p)

	rx, err := m.BeginReceive()
	if err != nil {
		t.Fatalf("BeginReceive() unexpected error: %v", err)
	}

	if _, err := rx.Wait(10 * time.Millisecond); !errors.Is(err, uwb.ErrReceiveTimeout) {
		t.Errorf("Wait() error = %v, want uwb.ErrReceiveTimeout", err)
	}

	// Timeout releases the receive slot.
	p.reads = [][]byte{EncodeHostMessage(MsgListenAck, nil)}
	if _, err := m.BeginReceive(); err != nil {
		t.Errorf("BeginReceive() after timeout: unexpected error: %v", err)
	}
}

func TestWaitReportsModemError(t *testing.T) {
	p := &fakePort{reads: [][]byte{
		EncodeHostMessage(MsgListenAck, nil),
		EncodeHostMessage(MsgRxError, []byte("rx overrun")),
	}}
	m := newTestModem(p)

	rx, err := m.BeginReceive()
	if err != nil {
		t.Fatalf("BeginReceive() unexpected error: %v", err)
	}

	_, err = rx.Wait(time.Second)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Wait() error = %v, want ErrTransport", err)
	}
	if m.Stats().ErrorsTotal != 1 {
		t.Errorf("ErrorsTotal = %d, want 1", m.Stats().ErrorsTotal)
	}
}

func TestWaitDetectsStalledMessage(t *testing.T) {
	frame := testFrame(t)
	msg := EncodeHostMessage(MsgRxFrame, frame.Encode())
	p := &fakePort{reads: [][]byte{
		EncodeHostMessage(MsgListenAck, nil),
		msg[:5], // message starts, then the link goes quiet
	}}
	m := newTestModem(p)

	rx, err := m.BeginReceive()
	if err != nil {
		t.Fatalf("BeginReceive() unexpected error: %v", err)
	}

	if _, err := rx.Wait(10 * time.Millisecond); !errors.Is(err, ErrDesync) {
		t.Errorf("Wait() error = %v, want ErrDesync", err)
	}
}

func TestWaitIsSingleUse(t *testing.T) {
	p := &fakePort{reads: [][]byte{EncodeHostMessage(MsgListenAck, nil)}}
	m := newTestModem(p)

	rx, err := m.BeginReceive()
	if err != nil {
		t.Fatalf("BeginReceive() unexpected error: %v", err)
	}
	if _, err := rx.Wait(time.Millisecond); !errors.Is(err, uwb.ErrReceiveTimeout) {
		t.Fatalf("Wait() error = %v, want uwb.ErrReceiveTimeout", err)
	}

	if _, err := rx.Wait(time.Millisecond); !errors.Is(err, ErrTransport) {
		t.Errorf("second Wait() error = %v, want ErrTransport", err)
	}
}

func TestBeginReceiveAfterClose(t *testing.T) {
	p := &fakePort{}
	m := newTestModem(p)

	if err := m.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if !p.closed {
		t.Error("expected underlying port to be closed")
	}
	if _, err := m.BeginReceive(); !errors.Is(err, ErrClosed) {
		t.Errorf("BeginReceive() error = %v, want ErrClosed", err)
	}
}
