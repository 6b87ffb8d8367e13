package scan

import (
	"bytes"
	"io"
	"os"
)

// pointerSignature is the leading bytes of a git-lfs pointer file. A pointer
// left behind by an interrupted download is metadata, not model payload.
var pointerSignature = []byte("version https://git-lfs.github.com")

// pointerMaxSize bounds both the size of a genuine pointer file and how much
// of a candidate is read while sniffing.
const pointerMaxSize = 1024

// IsPointerFile reports whether the file at path is a git-lfs pointer.
// Unreadable or oversized files are reported as not pointers.
func IsPointerFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if info.Size() >= pointerMaxSize {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	// A file shorter than the signature cannot be a pointer, and a partial
	// first Read must not misclassify one that is.
	head := make([]byte, len(pointerSignature))
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return bytes.Equal(head, pointerSignature)
}
