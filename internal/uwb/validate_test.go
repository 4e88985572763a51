package uwb

import (
	"errors"
	"testing"
)

// captureLogger records leveled log calls for assertions.
type captureLogger struct {
	warns  []string
	errors []string
}

func (l *captureLogger) Warn(msg string, _ ...any)  { l.warns = append(l.warns, msg) }
func (l *captureLogger) Error(msg string, _ ...any) { l.errors = append(l.errors, msg) }

// testIdentity is the reference node identity used throughout the tests.
var testIdentity = Identity{PanID: 0x0386, ShortAddr: 0x0808}

func TestValidatorValidate(t *testing.T) {
	tests := []struct {
		name    string
		header  FrameHeader
		wantErr error
	}{
		{
			name: "valid frame passes",
			header: FrameHeader{
				Source:      Identity{PanID: 0x0386, ShortAddr: 0x0101},
				Destination: Identity{PanID: 0x0386, ShortAddr: 0x0808},
			},
		},
		{
			name: "broadcast source PAN rejected",
			header: FrameHeader{
				Source:      Identity{PanID: Broadcast, ShortAddr: 0x0101},
				Destination: Identity{PanID: 0x0386, ShortAddr: 0x0808},
			},
			wantErr: ErrBroadcastSourcePAN,
		},
		{
			name: "broadcast source address rejected",
			header: FrameHeader{
				Source:      Identity{PanID: 0x0386, ShortAddr: Broadcast},
				Destination: Identity{PanID: 0x0386, ShortAddr: 0x0808},
			},
			wantErr: ErrBroadcastSourceAddr,
		},
		{
			name: "cross-PAN frame rejected",
			header: FrameHeader{
				Source:      Identity{PanID: 0x0386, ShortAddr: 0x0101},
				Destination: Identity{PanID: 0x0387, ShortAddr: 0x0808},
			},
			wantErr: ErrPANMismatch,
		},
		{
			name: "frame for another node rejected",
			header: FrameHeader{
				Source:      Identity{PanID: 0x0386, ShortAddr: 0x0101},
				Destination: Identity{PanID: 0x0386, ShortAddr: 0x0809},
			},
			wantErr: ErrNotForThisNode,
		},
		{
			name: "broadcast source PAN wins over every later check",
			header: FrameHeader{
				Source:      Identity{PanID: Broadcast, ShortAddr: Broadcast},
				Destination: Identity{PanID: 0x0001, ShortAddr: 0x0002},
			},
			wantErr: ErrBroadcastSourcePAN,
		},
		{
			name: "broadcast source address wins over PAN mismatch",
			header: FrameHeader{
				Source:      Identity{PanID: 0x0386, ShortAddr: Broadcast},
				Destination: Identity{PanID: 0x0001, ShortAddr: 0x0002},
			},
			wantErr: ErrBroadcastSourceAddr,
		},
		{
			name: "PAN mismatch wins over wrong destination address",
			header: FrameHeader{
				Source:      Identity{PanID: 0x0386, ShortAddr: 0x0101},
				Destination: Identity{PanID: 0x0400, ShortAddr: 0x0001},
			},
			wantErr: ErrPANMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &captureLogger{}
			v := NewValidator(testIdentity, log)

			err := v.Validate(tt.header)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				if len(log.errors) != 0 {
					t.Errorf("expected no rejection logs, got %v", log.errors)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if len(log.errors) != 1 {
				t.Errorf("expected exactly one rejection log, got %d", len(log.errors))
			}
		})
	}
}

func TestValidatorIsIdempotent(t *testing.T) {
	header := FrameHeader{
		Source:      Identity{PanID: 0x0386, ShortAddr: 0x0101},
		Destination: Identity{PanID: 0x0386, ShortAddr: 0x0809},
	}
	v := NewValidator(testIdentity, nil)

	first := v.Validate(header)
	second := v.Validate(header)

	if !errors.Is(first, ErrNotForThisNode) || !errors.Is(second, ErrNotForThisNode) {
		t.Errorf("repeated validation diverged: first=%v second=%v", first, second)
	}
}

func TestValidatorNilLogger(t *testing.T) {
	v := NewValidator(testIdentity, nil)
	header := FrameHeader{
		Source:      Identity{PanID: Broadcast, ShortAddr: 0x0101},
		Destination: Identity{PanID: 0x0386, ShortAddr: 0x0808},
	}

	// Must not panic without a logger.
	if err := v.Validate(header); !errors.Is(err, ErrBroadcastSourcePAN) {
		t.Errorf("Validate() error = %v, want ErrBroadcastSourcePAN", err)
	}
}
