package cache

import "testing"

func TestHashIP(t *testing.T) {
	hash := hashIP("203.0.113.7")

	if len(hash) != 16 {
		t.Errorf("hash length = %d, want 16", len(hash))
	}

	// Deterministic: same input hashes the same.
	if hashIP("203.0.113.7") != hash {
		t.Error("hashIP is not deterministic")
	}

	// Distinct inputs hash differently.
	if hashIP("203.0.113.8") == hash {
		t.Error("different IPs produced the same hash")
	}

	// Output is lowercase hex only.
	for _, r := range hash {
		if !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'f') {
			t.Fatalf("hash contains non-hex character %q: %s", r, hash)
		}
	}
}

func TestUsageUserKey(t *testing.T) {
	if got := usageUserKey("user-42"); got != "usage:user:user-42:checks" {
		t.Errorf("usageUserKey = %q", got)
	}
}
