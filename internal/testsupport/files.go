package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"modeltidy/internal/config"
)

// PointerSignature is the prefix a git-lfs pointer file starts with.
const PointerSignature = "version https://git-lfs.github.com/spec/v1\n"

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteModelPayload creates {models}/{identifier}/{name} with the given size
// and returns the payload path.
func WriteModelPayload(t testing.TB, cfg *config.Config, identifier, name string, size int64) string {
	t.Helper()

	path := filepath.Join(cfg.Models(), identifier, name)
	WriteFile(t, path, size)
	return path
}

// WritePointerFile creates {models}/{identifier}/{name} containing a git-lfs
// pointer body and returns the payload path.
func WritePointerFile(t testing.TB, cfg *config.Config, identifier, name string) string {
	t.Helper()

	path := filepath.Join(cfg.Models(), identifier, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	body := PointerSignature +
		"oid sha256:4d7a214614ab2935c943f9e0ff69d22eadbb8f32b1258daaa5e2ca24fb7aa342\n" +
		"size 12345\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write pointer %s: %v", path, err)
	}
	return path
}
