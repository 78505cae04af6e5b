// Package storage writes one-way JSON exports of interview sessions.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kfreiman/interviewprep/internal/session"
)

const (
	exportDir    = "sessions"
	exportPrefix = "interview_session_"
	exportExt    = ".json"
)

// StorageError represents a storage-related failure
type StorageError struct {
	Operation string
	Path      string
	Err       error
	// Permanent marks failures a retry cannot fix
	Permanent bool
}

func (e *StorageError) Error() string {
	msg := fmt.Sprintf("storage error during %s", e.Operation)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path: %s)", e.Path)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsRetryable indicates if this storage error is retryable
func (e *StorageError) IsRetryable() bool {
	return !e.Permanent
}

// ExportInfo describes one stored export
type ExportInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// ExportConfig holds configuration for the exporter
type ExportConfig struct {
	BasePath   string
	DefaultTTL time.Duration
	// Redact, when set, is applied to every export before it is written
	Redact     func(session.ExportDocument) session.ExportDocument
	Retry      RetryConfig
	Logger     *slog.Logger // Optional: defaults to a discarding logger
	FileSystem FileSystem   // Optional: defaults to the OS filesystem
}

// Exporter writes session exports under <base>/sessions
type Exporter struct {
	basePath   string
	defaultTTL time.Duration
	redact     func(session.ExportDocument) session.ExportDocument
	retry      RetryConfig
	logger     *slog.Logger
	fs         FileSystem
}

// NewExporter creates a new exporter and its directory
func NewExporter(config ExportConfig) (*Exporter, error) {
	ctx := context.Background()

	if config.BasePath == "" {
		config.BasePath = "./exports"
	}
	if config.DefaultTTL == 0 {
		config.DefaultTTL = 30 * 24 * time.Hour
	}
	if config.Retry.MaxAttempts == 0 {
		config.Retry = DefaultRetryConfig
	}
	if config.FileSystem == nil {
		config.FileSystem = NewOSFileSystem()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dir := filepath.Join(config.BasePath, exportDir)
	if err := config.FileSystem.MkdirAll(dir, 0755); err != nil {
		config.Logger.ErrorContext(ctx, "failed to create export directory",
			"error", err,
			"path", dir,
			"operation", "init",
		)
		return nil, &StorageError{
			Operation: "init - create directory",
			Path:      dir,
			Err:       err,
		}
	}

	config.Logger.InfoContext(ctx, "session exporter initialized",
		"base_path", config.BasePath,
		"default_ttl", config.DefaultTTL,
		"redaction", config.Redact != nil,
	)

	return &Exporter{
		basePath:   config.BasePath,
		defaultTTL: config.DefaultTTL,
		redact:     config.Redact,
		retry:      config.Retry,
		logger:     config.Logger,
		fs:         config.FileSystem,
	}, nil
}

// Dir returns the directory exports are written to
func (e *Exporter) Dir() string {
	return filepath.Join(e.basePath, exportDir)
}

// FileName returns interview_session_<YYYYMMDD_HHMMSS>_<id8>.json for a document
func FileName(doc session.ExportDocument) string {
	id := doc.SessionID
	if len(id) > 8 {
		id = id[:8]
	}
	return exportPrefix + doc.ExportedAt.Format("20060102_150405") + "_" + id + exportExt
}

// Save writes the export document and returns the path written
func (e *Exporter) Save(ctx context.Context, doc session.ExportDocument) (string, error) {
	if e.redact != nil {
		doc = e.redact(doc)
	}

	data, err := doc.ToJSON()
	if err != nil {
		return "", &StorageError{Operation: "encode export", Err: err, Permanent: true}
	}

	path := filepath.Join(e.Dir(), FileName(doc))

	err = retry(ctx, e.retry, func(attempt int) error {
		if err := e.fs.WriteFile(path, data, 0644); err != nil {
			e.logger.WarnContext(ctx, "export write failed",
				"error", err,
				"path", path,
				"attempt", attempt,
			)
			return &StorageError{
				Operation: fmt.Sprintf("write export (attempt %d)", attempt),
				Path:      path,
				Err:       err,
			}
		}
		return nil
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to save export",
			"error", err,
			"session_id", doc.SessionID,
			"path", path,
			"operation", "save",
		)
		return "", err
	}

	e.logger.InfoContext(ctx, "session exported",
		"session_id", doc.SessionID,
		"path", path,
		"bytes", len(data),
		"turns", len(doc.Turns),
	)

	return path, nil
}

// Read returns the contents of a stored export by file name
func (e *Exporter) Read(name string) ([]byte, error) {
	if name != filepath.Base(name) || !isExportFile(name) {
		return nil, &StorageError{
			Operation: "read export",
			Err:       fmt.Errorf("invalid export name: %s", name),
			Permanent: true,
		}
	}

	path := filepath.Join(e.Dir(), name)
	data, err := e.fs.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Operation: "read export", Path: path, Err: err}
	}
	return data, nil
}

// List returns stored exports, newest first
func (e *Exporter) List() ([]ExportInfo, error) {
	dir := e.Dir()
	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		return nil, &StorageError{Operation: "read directory", Path: dir, Err: err}
	}

	var exports []ExportInfo
	for _, entry := range entries {
		if entry.IsDir() || !isExportFile(entry.Name()) {
			continue
		}
		exports = append(exports, ExportInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			Size:    entry.Size(),
			ModTime: entry.ModTime(),
		})
	}

	sort.Slice(exports, func(i, j int) bool {
		return exports[i].ModTime.After(exports[j].ModTime)
	})
	return exports, nil
}

// Cleanup removes exports older than ttl; zero uses the default TTL
func (e *Exporter) Cleanup(ttl time.Duration) (int64, error) {
	ctx := context.Background()
	if ttl == 0 {
		ttl = e.defaultTTL
	}

	exports, err := e.List()
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to read directory for cleanup",
			"error", err,
			"dir", e.Dir(),
		)
		return 0, err
	}

	cutoff := time.Now().Add(-ttl)
	var removed int64
	for _, exp := range exports {
		if exp.ModTime.Before(cutoff) {
			if err := e.fs.Remove(exp.Path); err == nil {
				removed++
			}
		}
	}

	e.logger.InfoContext(ctx, "export cleanup completed",
		"removed", removed,
		"ttl", ttl,
	)

	return removed, nil
}

// IsAccessible checks that the export directory exists
func (e *Exporter) IsAccessible() bool {
	info, err := e.fs.Stat(e.Dir())
	return err == nil && info.IsDir()
}

func isExportFile(name string) bool {
	return strings.HasPrefix(name, exportPrefix) && strings.HasSuffix(name, exportExt)
}
