package uwb

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseFrame(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    Frame
		wantErr bool
	}{
		{
			name: "frame with payload",
			// src=0386:0101, dst=0386:0808, payload = setcell tag + cell
			data: []byte{0x03, 0x86, 0x01, 0x01, 0x03, 0x86, 0x08, 0x08, 0x00, 0x02, 0x03, 0xFF, 0x80, 0x00},
			want: Frame{
				Header: FrameHeader{
					Source:      Identity{PanID: 0x0386, ShortAddr: 0x0101},
					Destination: Identity{PanID: 0x0386, ShortAddr: 0x0808},
				},
				Payload: []byte{0x00, 0x02, 0x03, 0xFF, 0x80, 0x00},
			},
		},
		{
			name: "frame with empty payload",
			data: []byte{0xFF, 0xFF, 0x00, 0x01, 0x03, 0x86, 0xFF, 0xFF},
			want: Frame{
				Header: FrameHeader{
					Source:      Identity{PanID: 0xFFFF, ShortAddr: 0x0001},
					Destination: Identity{PanID: 0x0386, ShortAddr: 0xFFFF},
				},
			},
		},
		{
			name:    "too short - header truncated",
			data:    []byte{0x03, 0x86, 0x01, 0x01, 0x03, 0x86, 0x08},
			wantErr: true,
		},
		{
			name:    "empty input",
			data:    []byte{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFrame(tt.data)

			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseFrame() expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidFrame) {
					t.Errorf("ParseFrame() error = %v, want ErrInvalidFrame", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseFrame() unexpected error: %v", err)
			}
			if got.Header != tt.want.Header {
				t.Errorf("Header = %+v, want %+v", got.Header, tt.want.Header)
			}
			if !bytes.Equal(got.Payload, tt.want.Payload) {
				t.Errorf("Payload = %X, want %X", got.Payload, tt.want.Payload)
			}
		})
	}
}

func TestFrameEncodeRoundTrip(t *testing.T) {
	frame := Frame{
		Header: FrameHeader{
			Source:      Identity{PanID: 0x0386, ShortAddr: 0x0101},
			Destination: Identity{PanID: 0x0386, ShortAddr: 0x0808},
		},
		Payload: []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05},
	}

	got, err := ParseFrame(frame.Encode())
	if err != nil {
		t.Fatalf("ParseFrame() unexpected error: %v", err)
	}
	if got.Header != frame.Header {
		t.Errorf("Header = %+v, want %+v", got.Header, frame.Header)
	}
	if !bytes.Equal(got.Payload, frame.Payload) {
		t.Errorf("Payload = %X, want %X", got.Payload, frame.Payload)
	}
}

func TestIdentityString(t *testing.T) {
	id := Identity{PanID: 0x0386, ShortAddr: 0x0808}
	if got := id.String(); got != "0386:0808" {
		t.Errorf("String() = %q, want %q", got, "0386:0808")
	}
}
