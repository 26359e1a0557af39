package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Well-known user directories
const (
	DesktopDirName   = "Desktop"
	DownloadsDirName = "Downloads"
)

// PartialSuffix marks in-progress downloads. Files carrying it are never
// treated as finished recordings.
const PartialSuffix = ".part"

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	return homeSubdir(DownloadsDirName)
}

// GetHomeDesktopDir returns the user's Desktop directory
func GetHomeDesktopDir() (string, error) {
	return homeSubdir(DesktopDirName)
}

func homeSubdir(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, name), nil
}

// GetDefaultDownloadDir returns the first existing directory among Desktop
// and Downloads, falling back to the OS temp directory.
func GetDefaultDownloadDir() string {
	for _, lookup := range []func() (string, error){GetHomeDesktopDir, GetHomeDownloadsDir} {
		dir, err := lookup()
		if err != nil {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return os.TempDir()
}

// FileExists reports whether something is present at path
func FileExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// CreateTempSibling creates a hidden partial file next to the final
// destination of name inside dir, so the final move stays on one filesystem.
func CreateTempSibling(dir, name string) (*os.File, error) {
	return os.CreateTemp(dir, "."+name+".*"+PartialSuffix)
}

// MoveIfAbsent moves src to dst unless dst already exists, in which case src
// is removed and moved is false. An existing dst is never replaced.
func MoveIfAbsent(src, dst string) (moved bool, err error) {
	// A hard link fails atomically when dst exists.
	linkErr := os.Link(src, dst)
	switch {
	case linkErr == nil:
		return true, os.Remove(src)
	case errors.Is(linkErr, fs.ErrExist):
		return false, os.Remove(src)
	}

	// Filesystems without hard links: check, then rename.
	exists, err := FileExists(dst)
	if err != nil {
		return false, err
	}
	if exists {
		return false, os.Remove(src)
	}
	if err := os.Rename(src, dst); err != nil {
		return false, fmt.Errorf("failed to move %s: %w", filepath.Base(dst), err)
	}
	return true, nil
}

// IsPartialFile reports whether name is an in-progress download
func IsPartialFile(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, PartialSuffix)
}

// RemovePartialFiles deletes leftover partial downloads in dir, for example
// after the process was killed mid-transfer. It returns how many were removed.
func RemovePartialFiles(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !IsPartialFile(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// OpenFileInManager opens the file in the system file manager and highlights it
func OpenFileInManager(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, WindowsSelectParam, absPath).Run()
	case OSLinux:
		return openFileInManagerLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openFileInManagerLinux opens directory containing file on Linux
// Note: File selection is not standardized on Linux, so we open the parent directory
func openFileInManagerLinux(filePath string) error {
	dir := filepath.Dir(filePath)

	if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}

	return fmt.Errorf("no suitable file manager found")
}
