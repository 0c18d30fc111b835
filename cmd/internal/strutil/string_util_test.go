package strutil

import "testing"

func TestDefaultIfEmpty(t *testing.T) {
	if DefaultIfEmpty("", "default") != "default" {
		t.Fatalf("result should have been default")
	}

	if DefaultIfEmpty("  ", "default") != "default" {
		t.Fatalf("whitespace should be treated as empty")
	}

	if DefaultIfEmpty("notempty", "default") != "notempty" {
		t.Fatalf("result should have been notempty")
	}
}
