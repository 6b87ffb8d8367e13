package api

// ModelEntry describes one reconciled entry in a transport-friendly format.
type ModelEntry struct {
	ID           string `json:"id"`
	Identifier   string `json:"identifier,omitempty"`
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	Category     string `json:"category"`
	Path         string `json:"path,omitempty"`
	Hash         string `json:"hash,omitempty"`
	SizeBytes    int64  `json:"sizeBytes"`
	Symlink      bool   `json:"symlink,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	DuplicateKey string `json:"duplicateKey,omitempty"`
}

// DuplicateGroupView describes one duplicate group with the bytes pruning it
// would reclaim.
type DuplicateGroupView struct {
	Hash             string   `json:"hash"`
	Keeper           string   `json:"keeper"`
	Removable        []string `json:"removable"`
	ReclaimableBytes int64    `json:"reclaimableBytes"`
}

// Report is the full result of one reconciliation pass.
type Report struct {
	Entries  []ModelEntry         `json:"entries"`
	Counts   map[string]int       `json:"counts"`
	Groups   []DuplicateGroupView `json:"groups"`
	Warnings []string             `json:"warnings,omitempty"`
}

// EntryFailure records one entry a sweep could not process.
type EntryFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// SweepResult summarizes one mutation batch.
type SweepResult struct {
	Action    string         `json:"action"`
	Succeeded []string       `json:"succeeded"`
	Failed    []EntryFailure `json:"failed,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// CheckView mirrors a preflight check result.
type CheckView struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Status aggregates environment health for the status command.
type Status struct {
	ConfigPath   string      `json:"configPath,omitempty"`
	DatabasePath string      `json:"databasePath"`
	ModelsDir    string      `json:"modelsDir"`
	ReviewDir    string      `json:"reviewDir"`
	ImportDir    string      `json:"importDir"`
	TotalRecords int         `json:"totalRecords"`
	Checks       []CheckView `json:"checks"`
	Healthy      bool        `json:"healthy"`
}

// HashMismatch records one payload whose content no longer matches its record.
type HashMismatch struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// VerifyResult summarizes a deep hash verification pass.
type VerifyResult struct {
	Checked    int            `json:"checked"`
	Skipped    int            `json:"skipped"`
	Mismatches []HashMismatch `json:"mismatches,omitempty"`
	Warnings   []string       `json:"warnings,omitempty"`
}
