package textutil

import "testing"

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
		want float64
	}{
		{"both nil", nil, nil, 0},
		{"a nil", nil, NewFingerprint("hello world"), 0},
		{"b nil", NewFingerprint("hello world"), nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	text := "The Lord of the Rings The Two Towers"
	a := NewFingerprint(text)
	b := NewFingerprint(text)

	got := CosineSimilarity(a, b)
	if got != 1.0 {
		t.Errorf("CosineSimilarity(identical) = %v, want 1.0", got)
	}
}

func TestTitleSimilarity(t *testing.T) {
	tests := []struct {
		name      string
		a, b      string
		wantExact bool
		wantZero  bool
	}{
		{"identical", "The Movie", "The Movie", true, false},
		{"different", "Spirited Away", "Blade Runner", false, true},
		{"short title exact", "Up", "Up", true, false},
		{"short title case", "UP", "up", true, false},
		{"short title different", "Up", "It", false, true},
		{"symbol normalization", "Fast & Furious", "Fast and Furious", true, false},
		{"empty", "", "The Movie", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TitleSimilarity(tt.a, tt.b)
			if tt.wantExact && got != 1.0 {
				t.Errorf("TitleSimilarity(%q, %q) = %v, want 1.0", tt.a, tt.b, got)
			}
			if tt.wantZero && got != 0 {
				t.Errorf("TitleSimilarity(%q, %q) = %v, want 0", tt.a, tt.b, got)
			}
		})
	}
}

func TestTitleSimilarityPartialOverlap(t *testing.T) {
	got := TitleSimilarity("The Matrix Reloaded", "The Matrix Revolutions")
	if got <= 0 || got >= 1 {
		t.Errorf("TitleSimilarity(partial) = %v, want between 0 and 1", got)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"The Movie", "themovie"},
		{"Fast & Furious", "fastandfurious"},
		{"Spider-Man: No Way Home", "spidermannowayhome"},
		{"  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeTitle(tt.input); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Face/Off (1997)", "Face-Off (1997)"},
		{"What If...?", "What If..."},
		{" trimmed ", "trimmed"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
