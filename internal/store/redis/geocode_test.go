package redis

import "testing"

func TestNormalizePlace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cozumel, Mexico", "cozumel, mexico"},
		{"  Key West  ", "key west"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := NormalizePlace(tt.in); got != tt.want {
			t.Errorf("NormalizePlace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeDoc(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantEntries int
	}{
		{
			name:        "well formed",
			data:        `{"version":1,"updatedAt":"2025-03-15T10:00:00Z","entries":{"cozumel":{"lat":20.5,"lng":-86.9}}}`,
			wantEntries: 1,
		},
		{"wrong version", `{"version":2,"entries":{"x":{"lat":1,"lng":2}}}`, 0},
		{"missing entries", `{"version":1}`, 0},
		{"not json", `{{{`, 0},
		{"empty", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decodeDoc([]byte(tt.data))
			if doc.Version != 1 {
				t.Errorf("Version = %d, want 1", doc.Version)
			}
			if doc.Entries == nil {
				t.Fatal("Entries = nil, want map")
			}
			if len(doc.Entries) != tt.wantEntries {
				t.Errorf("len(Entries) = %d, want %d", len(doc.Entries), tt.wantEntries)
			}
		})
	}
}
