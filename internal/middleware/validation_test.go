package middleware

import (
	"strings"
	"testing"
)

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "user_a1b2c3d4", "user_a1b2c3d4", false},
		{"valid with dash", "auth0-12345", "auth0-12345", false},
		{"trims whitespace", "  abc123  ", "abc123", false},
		{"empty", "", "", true},
		{"too long 65", strings.Repeat("a", 65), "", true},
		{"exactly 64", strings.Repeat("a", 64), strings.Repeat("a", 64), false},
		{"invalid chars", "abc def", "", true},
		{"sql injection", "a'; DROP--", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateUserID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateReportID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "trash_a1b2c3d4e5f6", "trash_a1b2c3d4e5f6", false},
		{"empty", "", "", true},
		{"too long", strings.Repeat("t", 65), "", true},
		{"invalid chars", "trash/../etc", "", true},
		{"unicode", "trashé", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateReportID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"valid", 48.8566, 2.3522, false},
		{"equator", 0, 0, false},
		{"lat max", 90, 180, false},
		{"lat min", -90, -180, false},
		{"lat too high", 90.01, 0, true},
		{"lat too low", -91, 0, true},
		{"lng too high", 0, 180.5, true},
		{"lng too low", 0, -181, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := ValidateCoordinates(tt.lat, tt.lng)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
		})
	}
}

func TestValidateImageURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://cdn.example.com/img/1.jpg", false},
		{"http", "http://cdn.example.com/img/1.jpg", false},
		{"data uri", "data:image/jpeg;base64,/9j/4AAQ", false},
		{"empty", "", true},
		{"ftp scheme", "ftp://example.com/img.jpg", true},
		{"bare path", "/img/1.jpg", true},
		{"too long", "https://x.com/" + strings.Repeat("a", MaxImageURLLen), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errMsg := ValidateImageURL(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
		})
	}
}
