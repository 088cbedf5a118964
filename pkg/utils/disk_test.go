package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUsageBytes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.pdf"), make([]byte, 100), 0600); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	single := filepath.Join(sub, "b.pdf")
	if err := os.WriteFile(single, make([]byte, 50), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := DiskUsageBytes(dir, "", filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 150 {
		t.Errorf("DiskUsageBytes(dir) = %d, want 150", got)
	}
	if got, _ := DiskUsageBytes(single); got != 50 {
		t.Errorf("DiskUsageBytes(file) = %d, want 50", got)
	}
}
