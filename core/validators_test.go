package core

import "testing"

func TestCheckSecretStrength(t *testing.T) {
	tests := []struct {
		name    string
		pwd     string
		wantErr bool
	}{
		{"empty", "", true},
		{"too short", "aB3!", true},
		{"no letter", "12345678!", true},
		{"no digit", "abcdefgh!", true},
		{"no symbol", "abcdefg1", true},
		{"disallowed symbol only", "abcdefg1§", true},
		{"ok", "LeSecret207!", false},
		{"ok minimal", "abcdef1-", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSecretStrength(tt.pwd)
			if tt.wantErr && err == nil {
				t.Errorf("CheckSecretStrength(%q) expected an error", tt.pwd)
			} else if !tt.wantErr && err != nil {
				t.Errorf("CheckSecretStrength(%q) unexpected error: %v", tt.pwd, err)
			}
		})
	}
}

func TestCleanString(t *testing.T) {
	tests := []struct {
		arg   string
		lower bool
		want  string
	}{
		{"  Hello There ", false, "Hello There"},
		{"  JANE ", true, "jane"},
		{"", false, ""},
	}
	for _, tt := range tests {
		var got string
		if tt.lower {
			got = CleanString(tt.arg, true)
		} else {
			got = CleanString(tt.arg)
		}
		if got != tt.want {
			t.Errorf("CleanString(%q) = %q; want %q", tt.arg, got, tt.want)
		}
	}
}
