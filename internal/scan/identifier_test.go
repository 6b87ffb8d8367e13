package scan_test

import (
	"testing"

	"modeltidy/internal/scan"
)

func TestValidIdentifier(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"uuid", "e3e73746-d2b6-4a26-b775-aeb4e945d0a3", true},
		{"uppercase uuid", "E3E73746-D2B6-4A26-B775-AEB4E945D0A3", true},
		{"long hex digest", "9aa064e2b8fd1354", true},
		{"too short", "abc123", false},
		{"empty", "", false},
		{"spaces", "not an id at all", false},
		{"underscore", "model_folder_name", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := scan.ValidIdentifier(tc.value); got != tc.want {
				t.Fatalf("ValidIdentifier(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestIdentifierFromPath(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		wantID string
		wantOK bool
	}{
		{
			"standard layout",
			"/data/models/e3e73746-d2b6-4a26-b775-aeb4e945d0a3/model.safetensors",
			"e3e73746-d2b6-4a26-b775-aeb4e945d0a3",
			true,
		},
		{
			"relative layout",
			"models/9aa064e2b8fd1354/weights.ckpt",
			"9aa064e2b8fd1354",
			true,
		},
		{"external file", "/external/model.bin", "", false},
		{"bare file", "model.bin", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := scan.IdentifierFromPath(tc.path)
			if ok != tc.wantOK || id != tc.wantID {
				t.Fatalf("IdentifierFromPath(%q) = (%q, %v), want (%q, %v)", tc.path, id, ok, tc.wantID, tc.wantOK)
			}
		})
	}
}
