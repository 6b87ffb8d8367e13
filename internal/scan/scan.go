package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"golang.org/x/sync/errgroup"

	"modeltidy/internal/logging"
)

// Entry describes one identifier folder found under the models directory.
type Entry struct {
	Identifier string
	// Path is the primary payload file inside the identifier folder.
	Path string
	// SizeBytes is the total size of the identifier folder contents.
	SizeBytes int64
	// IsPointer marks payloads that are git-lfs pointers rather than weights.
	IsPointer bool
	// IsSymlink marks payloads that are symbolic links.
	IsSymlink bool
}

// Inventory is the result of one scan pass. It is rebuilt on every scan and
// never persisted.
type Inventory struct {
	Entries  map[string]Entry
	Warnings []string
}

// Scanner walks the models directory with a bounded worker pool.
type Scanner struct {
	workers int
	logger  *slog.Logger
}

// NewScanner constructs a scanner. Workers <= 0 falls back to 1.
func NewScanner(workers int, logger *slog.Logger) *Scanner {
	if workers <= 0 {
		workers = 1
	}
	return &Scanner{workers: workers, logger: logging.WithComponent(logger, "scanner")}
}

// Scan inventories root. A missing or unreadable root is a hard error; any
// per-folder failure is recorded as a warning and the folder skipped.
func (s *Scanner) Scan(ctx context.Context, root string) (*Inventory, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("models directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("models directory %s: not a directory", root)
	}

	folders, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read models directory: %w", err)
	}

	inv := &Inventory{Entries: make(map[string]Entry, len(folders))}
	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)

	for _, folder := range folders {
		if !folder.IsDir() {
			continue
		}
		name := folder.Name()
		if !ValidIdentifier(name) {
			// Stray files and non-identifier folders are not ours to manage.
			continue
		}
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry, err := s.inspectFolder(filepath.Join(root, name), name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				warning := fmt.Sprintf("skipped %s: %v", name, err)
				inv.Warnings = append(inv.Warnings, warning)
				s.logger.Warn("folder skipped during scan",
					logging.String(logging.FieldIdentifier, name),
					logging.Error(err),
				)
				return nil
			}
			inv.Entries[name] = entry
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("scan completed",
		logging.Int("folders", len(inv.Entries)),
		logging.Int("warnings", len(inv.Warnings)),
	)
	return inv, nil
}

// inspectFolder resolves the primary payload and total size of one identifier folder.
func (s *Scanner) inspectFolder(dir, identifier string) (Entry, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return Entry{}, err
	}

	names := make([]string, 0, len(children))
	for _, child := range children {
		if child.Type().IsRegular() || child.Type()&fs.ModeSymlink != 0 {
			names = append(names, child.Name())
		}
	}
	if len(names) == 0 {
		return Entry{}, fmt.Errorf("no payload file")
	}
	sort.Strings(names)
	payload := filepath.Join(dir, names[0])

	lstat, err := os.Lstat(payload)
	if err != nil {
		return Entry{}, err
	}

	size, err := folderSize(dir)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Identifier: identifier,
		Path:       payload,
		SizeBytes:  size,
		IsPointer:  IsPointerFile(payload),
		IsSymlink:  lstat.Mode()&fs.ModeSymlink != 0,
	}, nil
}

// folderSize sums regular-file sizes beneath dir. Diffusers models keep many
// files under one identifier folder, so the walk is parallel.
func folderSize(dir string) (int64, error) {
	var total atomic.Int64
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total.Add(info.Size())
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total.Load(), nil
}
