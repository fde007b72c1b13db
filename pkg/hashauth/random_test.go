package hashauth

import (
	"encoding/base64"
	"testing"
)

func TestGenerateRandom(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		random, err := GenerateRandom()
		if err != nil {
			t.Fatalf("GenerateRandom error: %v", err)
		}
		b, err := base64.RawURLEncoding.DecodeString(random)
		if err != nil {
			t.Fatalf("expected base64url value, got %q: %v", random, err)
		}
		if len(b) != randomSize {
			t.Fatalf("expected %d random bytes, got %d", randomSize, len(b))
		}
		if _, ok := seen[random]; ok {
			t.Fatalf("duplicate random %q", random)
		}
		seen[random] = struct{}{}
	}
}
