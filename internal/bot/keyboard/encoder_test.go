package keyboard_test

import (
	"strings"
	"testing"

	"github.com/Proton-105/egeshop-bot/internal/bot/keyboard"
)

func TestEncodeCallback(t *testing.T) {
	tests := []struct {
		name      string
		action    string
		params    []string
		want      string
		wantError bool
	}{
		{
			name:   "action only",
			action: keyboard.ActionBuy,
			want:   "buy",
		},
		{
			name:   "single param",
			action: keyboard.ActionSubject,
			params: []string{"math_p"},
			want:   "subj|math_p",
		},
		{
			name:   "two params",
			action: keyboard.ActionProgram,
			params: []string{"chem", "пифагор"},
			want:   "school|chem|пифагор",
		},
		{
			name:      "exceeds limit",
			action:    strings.Repeat("x", keyboard.CallbackDataLimitBytes+1),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := keyboard.EncodeCallback(tt.action, tt.params...)
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("EncodeCallback() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeCallback(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantAction string
		wantParams []string
		wantErr    bool
	}{
		{
			name:       "action only",
			input:      "buy",
			wantAction: "buy",
			wantParams: nil,
		},
		{
			name:       "action with params",
			input:      "school|math_p|стобальный",
			wantAction: "school",
			wantParams: []string{"math_p", "стобальный"},
		},
		{
			name:    "empty payload",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, params, err := keyboard.DecodeCallback(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if action != tt.wantAction {
				t.Errorf("action = %q, want %q", action, tt.wantAction)
			}
			if len(params) != len(tt.wantParams) {
				t.Fatalf("params = %v, want %v", params, tt.wantParams)
			}
			for i := range params {
				if params[i] != tt.wantParams[i] {
					t.Errorf("params[%d] = %q, want %q", i, params[i], tt.wantParams[i])
				}
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload, err := keyboard.EncodeCallback(keyboard.ActionProgram, "bio", "пифагор")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	action, params, err := keyboard.DecodeCallback(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != keyboard.ActionProgram || len(params) != 2 || params[0] != "bio" || params[1] != "пифагор" {
		t.Fatalf("round trip mismatch: %q %v", action, params)
	}
}
