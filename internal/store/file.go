package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tablefolk/dmvault/pkg/types"
)

// pathLocks serializes load-mutate-save cycles per file path. Two concurrent
// transactions against the same file would otherwise race: both load the
// same snapshot and the second save silently overwrites the first.
var pathLocks sync.Map // map[string]*sync.Mutex

// lockPath returns the mutex guarding the given file path.
func lockPath(path string) *sync.Mutex {
	key := filepath.Clean(path)
	mu, _ := pathLocks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// fileExists reports whether path is an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// readJSON reads and decodes a whole JSON document.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.StorageErr(fmt.Sprintf("read %s", path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return types.SerializationErr(fmt.Sprintf("decode %s", path), err)
	}
	return nil
}

// writeJSON encodes v as pretty JSON and writes it to path using the
// temp-file, fsync, rename pattern. Parent directories are created on
// demand.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return types.SerializationErr(fmt.Sprintf("encode %s", path), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.StorageErr(fmt.Sprintf("create directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, ".json-*.tmp")
	if err != nil {
		return types.StorageErr("create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return types.StorageErr("write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return types.StorageErr("sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return types.StorageErr("close temp file", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return types.StorageErr(fmt.Sprintf("rename temp file to %s", path), err)
	}
	return nil
}

// backupTimestamp is the layout for backup file names.
const backupTimestamp = "20060102150405"

// backupFile copies the file at path to a timestamped sibling named
// <stem>.backup_<YYYYMMDDHHMMSS>.json and returns the backup path. Backups
// are advisory: callers treat failures as warnings, never as fatal.
func backupFile(path string) (string, error) {
	if !fileExists(path) {
		return "", types.NotFoundMsg(fmt.Sprintf("file not found: %s", path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", types.StorageErr(fmt.Sprintf("read %s", path), err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := fmt.Sprintf("%s.backup_%s.json", stem, time.Now().UTC().Format(backupTimestamp))
	backupPath := filepath.Join(filepath.Dir(path), name)

	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", types.StorageErr(fmt.Sprintf("write backup %s", backupPath), err)
	}
	return backupPath, nil
}
