package utils

import (
	"testing"
)

func TestHashString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:  "simple string",
			input: "abc",
			want:  "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HashString(tt.input); got != tt.want {
				t.Errorf("HashString(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestHashStringHidesCredentials(t *testing.T) {
	// Fetch cache keys embed auth headers; two keys differing only in the
	// credential must not collide and must not leak it
	k1 := "https://api.openai.com/v1/models\nauthorization:Bearer sk-one"
	k2 := "https://api.openai.com/v1/models\nauthorization:Bearer sk-two"

	h1, h2 := HashString(k1), HashString(k2)
	if h1 == h2 {
		t.Error("HashString() produced same hash for different credentials")
	}
	if len(h1) != 64 {
		t.Errorf("HashString() length = %d, want 64", len(h1))
	}
}
