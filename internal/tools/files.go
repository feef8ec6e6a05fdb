package tools

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/BangRocket/mypalclara/internal/security"
)

// SaveFileInput defines input for the save_file tool.
type SaveFileInput struct {
	Filename string `json:"filename" jsonschema_description:"Name for the saved file"`
	Content  string `json:"content" jsonschema_description:"Content to write"`
	UserID   string `json:"user_id" jsonschema_description:"User ID"`
}

// ListFilesInput defines input for the list_files tool.
type ListFilesInput struct {
	UserID string `json:"user_id" jsonschema_description:"User ID"`
}

// ReadFileInput defines input for the read_file tool.
type ReadFileInput struct {
	Filename string `json:"filename" jsonschema_description:"Name of the saved file"`
	UserID   string `json:"user_id" jsonschema_description:"User ID"`
}

// DeleteFileInput defines input for the delete_file tool.
type DeleteFileInput struct {
	Filename string `json:"filename" jsonschema_description:"Name of the saved file"`
	UserID   string `json:"user_id" jsonschema_description:"User ID"`
}

// DownloadFromSandboxInput defines input for the download_from_sandbox tool.
type DownloadFromSandboxInput struct {
	SandboxPath   string `json:"sandbox_path" jsonschema_description:"Path of the file inside the sandbox"`
	LocalFilename string `json:"local_filename,omitempty" jsonschema_description:"Local name for the file (defaults to the sandbox filename)"`
	UserID        string `json:"user_id" jsonschema_description:"User ID"`
}

// UploadToSandboxInput defines input for the upload_to_sandbox tool.
type UploadToSandboxInput struct {
	LocalFilename string `json:"local_filename" jsonschema_description:"Name of the saved local file"`
	SandboxPath   string `json:"sandbox_path,omitempty" jsonschema_description:"Destination path in the sandbox (defaults to /home/user/{filename})"`
	UserID        string `json:"user_id" jsonschema_description:"User ID"`
}

// Files stores per-user documents under a shared base directory. Each user
// gets an isolated subdirectory named by their sanitized id, and filenames
// pass through the same sanitizer, so nothing escapes the base directory.
// Mutations take a cross-process lock on the user directory; reads and
// listings are lock-free (last write wins).
type Files struct {
	baseDir string
	sandbox *Sandbox
	logger  *slog.Logger
}

// NewFiles creates the local files tool group rooted at dir, creating the
// directory if needed. The sandbox dependency serves the transfer tools.
func NewFiles(dir string, sandbox *Sandbox, logger *slog.Logger) (*Files, error) {
	if dir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if sandbox == nil {
		return nil, fmt.Errorf("sandbox tools is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating files directory: %w", err)
	}

	return &Files{
		baseDir: dir,
		sandbox: sandbox,
		logger:  logger,
	}, nil
}

// Save writes a user file and reports the sanitized name actually written.
func (f *Files) Save(ctx context.Context, in SaveFileInput) (string, error) {
	safe := security.SanitizeName(in.Filename)
	dir, err := f.userDir(in.UserID)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Failed to save file: %v", err)
	}

	release, err := f.lockUserDir(ctx, dir)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Failed to save file: %v", err)
	}
	defer release()

	if err := os.WriteFile(filepath.Join(dir, safe), []byte(in.Content), 0o644); err != nil {
		return "", Wrapf(KindTransport, err, "Failed to save file: %v", err)
	}

	f.logger.Debug("saved file", "user_id", in.UserID, "name", safe, "bytes", len(in.Content))
	return fmt.Sprintf("Saved %s (%d bytes)", safe, len(in.Content)), nil
}

// List returns a name-sorted listing of the user's saved files. Dotfiles
// (the lock file included) stay hidden.
func (f *Files) List(_ context.Context, in ListFilesInput) (string, error) {
	dir, err := f.userDir(in.UserID)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Failed to list files: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Failed to list files: %v", err)
	}

	var lines []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		lines = append(lines, fmt.Sprintf("- %s (%d bytes)", e.Name(), size))
	}
	if len(lines) == 0 {
		return "No files saved.", nil
	}
	return "**Saved Files:**\n" + strings.Join(lines, "\n"), nil
}

// Read returns a saved file's content verbatim.
func (f *Files) Read(_ context.Context, in ReadFileInput) (string, error) {
	safe := security.SanitizeName(in.Filename)
	dir, err := f.userDir(in.UserID)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Failed to read file: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, safe))
	if err != nil {
		if os.IsNotExist(err) {
			return "", Errf(KindNotFound, "File not found: %s", safe)
		}
		return "", Wrapf(KindTransport, err, "Failed to read file: %v", err)
	}
	return string(data), nil
}

// Delete removes a saved file.
func (f *Files) Delete(ctx context.Context, in DeleteFileInput) (string, error) {
	safe := security.SanitizeName(in.Filename)
	dir, err := f.userDir(in.UserID)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Failed to delete file: %v", err)
	}

	release, err := f.lockUserDir(ctx, dir)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Failed to delete file: %v", err)
	}
	defer release()

	if err := os.Remove(filepath.Join(dir, safe)); err != nil {
		if os.IsNotExist(err) {
			return "", Errf(KindNotFound, "File not found: %s", safe)
		}
		return "", Wrapf(KindTransport, err, "Failed to delete file: %v", err)
	}

	f.logger.Debug("deleted file", "user_id", in.UserID, "name", safe)
	return "Deleted: " + safe, nil
}

// DownloadFromSandbox copies a sandbox file into the user's local storage.
// Sandbox and save errors propagate unchanged.
func (f *Files) DownloadFromSandbox(ctx context.Context, in DownloadFromSandboxInput) (string, error) {
	content, err := f.sandbox.ReadFile(ctx, SandboxReadFileInput{Path: in.SandboxPath})
	if err != nil {
		return "", err
	}

	name := in.LocalFilename
	if name == "" {
		name = lastPathSegment(in.SandboxPath)
	}

	if _, err := f.Save(ctx, SaveFileInput{Filename: name, Content: content, UserID: in.UserID}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Downloaded %s from sandbox", name), nil
}

// UploadToSandbox copies a saved local file into the sandbox. Local read and
// sandbox errors propagate unchanged.
func (f *Files) UploadToSandbox(ctx context.Context, in UploadToSandboxInput) (string, error) {
	content, err := f.Read(ctx, ReadFileInput{Filename: in.LocalFilename, UserID: in.UserID})
	if err != nil {
		return "", err
	}

	dest := in.SandboxPath
	if dest == "" {
		dest = "/home/user/" + in.LocalFilename
	}

	if _, err := f.sandbox.WriteFile(ctx, SandboxWriteFileInput{Path: dest, Content: content}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Uploaded %s to %s", in.LocalFilename, dest), nil
}

// userDir resolves and creates the per-user directory.
func (f *Files) userDir(userID string) (string, error) {
	dir := filepath.Join(f.baseDir, security.SanitizeName(userID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// lockUserDir takes the cross-process mutation lock for a user directory.
// The returned release func must be called exactly once.
func (f *Files) lockUserDir(ctx context.Context, dir string) (func(), error) {
	l := flock.New(filepath.Join(dir, ".lock"))
	locked, err := l.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, fmt.Errorf("lock not acquired")
	}

	return func() {
		if err := l.Unlock(); err != nil {
			f.logger.Warn("releasing user dir lock", "dir", dir, "error", err)
		}
	}, nil
}

func lastPathSegment(p string) string {
	seg := p
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		seg = p[i+1:]
	}
	if seg == "" {
		return "file"
	}
	return seg
}
