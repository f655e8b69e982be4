// Package state snapshots files before a patch is applied so the last apply
// can be reverted.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	stateDirName  = ".repodoc"
	stateFileName = "state.json"
	backupDirName = "backup"
)

// Operation records one file touched by an apply.
type Operation struct {
	// Path is relative to the manager root.
	Path string `json:"path"`
	// Backup is the snapshot file name under the backup dir. Empty when the
	// file did not exist before the apply.
	Backup  string `json:"backup,omitempty"`
	Existed bool   `json:"existed"`
}

// Record is one apply worth of operations.
type Record struct {
	Timestamp  int64       `json:"timestamp"`
	Operations []Operation `json:"operations"`
}

// Manager owns the .repodoc state directory under the repository root.
type Manager struct {
	root     string
	stateDir string
}

// New creates the state directory if needed. Empty root means the current
// working directory.
func New(root string) (*Manager, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		root = wd
	}
	stateDir := filepath.Join(root, stateDirName)
	if err := os.MkdirAll(filepath.Join(stateDir, backupDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &Manager{root: root, stateDir: stateDir}, nil
}

// Snapshot saves the current content of each path (relative to the root),
// replacing any previous record. Paths that do not exist yet are recorded so
// Revert can remove them if the patch creates them.
func (m *Manager) Snapshot(paths []string) error {
	backupDir := filepath.Join(m.stateDir, backupDirName)
	if err := os.RemoveAll(backupDir); err != nil {
		return fmt.Errorf("clear backup directory: %w", err)
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	record := Record{Timestamp: time.Now().Unix()}
	for i, rel := range paths {
		op := Operation{Path: rel}
		data, err := os.ReadFile(filepath.Join(m.root, rel))
		if err == nil {
			op.Existed = true
			op.Backup = fmt.Sprintf("%d.bak", i)
			if err := os.WriteFile(filepath.Join(backupDir, op.Backup), data, 0o644); err != nil {
				return fmt.Errorf("write backup for %s: %w", rel, err)
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		record.Operations = append(record.Operations, op)
	}

	encoded, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.stateDir, stateFileName), encoded, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Revert restores every file from the last snapshot and clears the record.
// Files that did not exist before the apply are removed. Returns the
// restored paths.
func (m *Manager) Revert() ([]string, error) {
	statePath := filepath.Join(m.stateDir, stateFileName)
	data, err := os.ReadFile(statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	var restored []string
	for _, op := range record.Operations {
		target := filepath.Join(m.root, op.Path)
		if !op.Existed {
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				return restored, fmt.Errorf("remove %s: %w", op.Path, err)
			}
			restored = append(restored, op.Path)
			continue
		}
		content, err := os.ReadFile(filepath.Join(m.stateDir, backupDirName, op.Backup))
		if err != nil {
			return restored, fmt.Errorf("read backup for %s: %w", op.Path, err)
		}
		if err := os.WriteFile(target, content, 0o644); err != nil {
			return restored, fmt.Errorf("restore %s: %w", op.Path, err)
		}
		restored = append(restored, op.Path)
	}

	if err := os.Remove(statePath); err != nil && !os.IsNotExist(err) {
		return restored, fmt.Errorf("clear state file: %w", err)
	}
	return restored, nil
}
