package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const recordColumns = "rowid, id, name, type, hash, path, file_size, created_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (Record, error) {
	var (
		rowID      int64
		id         string
		name       sql.NullString
		recordType sql.NullString
		hash       sql.NullString
		path       sql.NullString
		fileSize   sql.NullInt64
		createdRaw sql.NullString
	)

	if err := scanner.Scan(&rowID, &id, &name, &recordType, &hash, &path, &fileSize, &createdRaw); err != nil {
		return Record{}, err
	}

	record := Record{
		RowID:    rowID,
		ID:       id,
		Name:     name.String,
		Type:     recordType.String,
		Hash:     strings.TrimSpace(hash.String),
		Path:     path.String,
		FileSize: fileSize.Int64,
	}
	if createdRaw.Valid {
		if created, err := parseTimeString(createdRaw.String); err == nil {
			record.CreatedAt = created
		}
	}
	return record, nil
}

// timeLayouts covers the timestamp formats InvokeAI has written over time.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseTimeString(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
