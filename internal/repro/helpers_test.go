package repro

import (
	"os"
	"path/filepath"
	"testing"
)

// writeLists writes event list files named after the map keys into dir.
func writeLists(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// tableRoot lays out a Table1 target under a temp root.
func tableRoot(t *testing.T, gt, est map[string]string) string {
	t.Helper()
	root := t.TempDir()
	writeLists(t, filepath.Join(root, "ground_truth", "Table1"), gt)
	writeLists(t, filepath.Join(root, "AVCFillerNet_predictions", "Table1"), est)
	return root
}
