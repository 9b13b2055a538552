package service

import (
	"testing"

	"github.com/leasedesk/leasedesk/backend/config"
)

func TestSuggestServiceEnabled(t *testing.T) {
	svc := NewSuggestService(&config.SuggestConfig{})
	if svc.Enabled() {
		t.Error("Expected service without API key to be disabled")
	}

	svc = NewSuggestService(&config.SuggestConfig{APIKey: "sk-test", Model: "claude-sonnet-4-5-20250929"})
	if !svc.Enabled() {
		t.Error("Expected configured service to be enabled")
	}
}

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantText string
		wantConf float64
		wantErr  bool
	}{
		{
			name:     "plain json",
			reply:    `{"suggested_text": "Tenant shall pay rent by the 5th.", "confidence": 0.9}`,
			wantText: "Tenant shall pay rent by the 5th.",
			wantConf: 0.9,
		},
		{
			name:     "json in code fence",
			reply:    "```json\n{\"suggested_text\": \"Revised clause.\", \"confidence\": 0.75}\n```",
			wantText: "Revised clause.",
			wantConf: 0.75,
		},
		{
			name:     "surrounding prose",
			reply:    `Here is my suggestion: {"suggested_text": "New text.", "confidence": 0.5} Hope that helps!`,
			wantText: "New text.",
			wantConf: 0.5,
		},
		{
			name:     "out of range confidence clamped to zero",
			reply:    `{"suggested_text": "X", "confidence": 7}`,
			wantText: "X",
			wantConf: 0,
		},
		{name: "no json at all", reply: "I cannot help with that.", wantErr: true},
		{name: "invalid json", reply: `{"suggested_text": `, wantErr: true},
		{name: "missing text", reply: `{"confidence": 0.9}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSuggestion(tt.reply)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Text != tt.wantText {
				t.Errorf("Expected text %q, got %q", tt.wantText, got.Text)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("Expected confidence %v, got %v", tt.wantConf, got.Confidence)
			}
		})
	}
}
