package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"modeltidy/internal/config"
	"modeltidy/internal/fileutil"
	"modeltidy/internal/reconcile"
)

// VerifyRequest carries the inputs for a deep hash verification pass.
type VerifyRequest struct {
	Config *config.Config
	Logger *slog.Logger
}

// VerifyModels re-hashes every healthy payload and compares it against the
// recorded content hash. Records stored with a hash algorithm other than
// sha256 are counted as skipped rather than guessed at.
func VerifyModels(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	snapshot, st, err := buildSnapshot(ctx, req.Config, req.Logger)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	result := &VerifyResult{Warnings: snapshot.Warnings}
	for _, entry := range snapshot.Entries {
		if entry.Category != reconcile.CategoryOK || entry.Record == nil || entry.File == nil {
			continue
		}
		expected, ok := sha256Hex(entry.Record.Hash)
		if !ok {
			result.Skipped++
			continue
		}
		actual, err := fileutil.HashFile(entry.File.Path)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("hash %s: %v", entry.File.Path, err))
			continue
		}
		result.Checked++
		if !strings.EqualFold(actual, expected) {
			result.Mismatches = append(result.Mismatches, HashMismatch{
				ID:       entry.ID,
				Path:     entry.File.Path,
				Expected: expected,
				Actual:   actual,
			})
		}
	}
	return result, nil
}

// sha256Hex extracts a comparable sha256 digest from a stored hash value.
// Accepted forms are a bare 64-char hex digest or an "sha256:" prefixed one.
func sha256Hex(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if rest, ok := strings.CutPrefix(value, "sha256:"); ok {
		value = rest
	} else if strings.Contains(value, ":") {
		return "", false
	}
	if len(value) != 64 {
		return "", false
	}
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return "", false
		}
	}
	return value, true
}
