package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDirs(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("USERPROFILE", "/home/tester")

	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}
	if filepath.Base(downloadsDir) != DownloadsDirName {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}

	desktopDir, err := GetHomeDesktopDir()
	if err != nil {
		t.Fatalf("Failed to get desktop directory: %v", err)
	}
	if filepath.Base(desktopDir) != DesktopDirName {
		t.Errorf("Expected directory to end with 'Desktop', got: %s", desktopDir)
	}
}

func TestGetDefaultDownloadDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	if got := GetDefaultDownloadDir(); got != os.TempDir() {
		t.Errorf("Expected temp dir fallback, got %s", got)
	}

	downloads := filepath.Join(home, DownloadsDirName)
	if err := os.Mkdir(downloads, DefaultDirPermissions); err != nil {
		t.Fatal(err)
	}
	if got := GetDefaultDownloadDir(); got != downloads {
		t.Errorf("Expected %s, got %s", downloads, got)
	}

	desktop := filepath.Join(home, DesktopDirName)
	if err := os.Mkdir(desktop, DefaultDirPermissions); err != nil {
		t.Fatal(err)
	}
	if got := GetDefaultDownloadDir(); got != desktop {
		t.Errorf("Expected Desktop to win, got %s", got)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mp4")

	exists, err := FileExists(path)
	if err != nil || exists {
		t.Fatalf("FileExists() = %v, %v; expected false, nil", exists, err)
	}

	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	exists, err = FileExists(path)
	if err != nil || !exists {
		t.Fatalf("FileExists() = %v, %v; expected true, nil", exists, err)
	}
}

func TestCreateTempSibling(t *testing.T) {
	dir := t.TempDir()

	f, err := CreateTempSibling(dir, "20230115_143022_NF.mp4")
	if err != nil {
		t.Fatalf("CreateTempSibling() error: %v", err)
	}
	defer f.Close()

	name := filepath.Base(f.Name())
	if filepath.Dir(f.Name()) != dir {
		t.Errorf("Expected temp file in %s, got %s", dir, f.Name())
	}
	if !strings.HasPrefix(name, ".20230115_143022_NF.mp4.") {
		t.Errorf("Unexpected temp name: %s", name)
	}
	if !IsPartialFile(name) {
		t.Errorf("Expected %s to be recognised as partial", name)
	}
}

func TestMoveIfAbsent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, ".a.part")
	dst := filepath.Join(dir, "a.mp4")

	if err := os.WriteFile(src, []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}

	moved, err := MoveIfAbsent(src, dst)
	if err != nil || !moved {
		t.Fatalf("MoveIfAbsent() = %v, %v; expected true, nil", moved, err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("Expected source to be gone")
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "new" {
		t.Errorf("Expected destination content 'new', got %q", data)
	}

	// Destination present: never replaced
	if err := os.WriteFile(src, []byte("other"), 0644); err != nil {
		t.Fatal(err)
	}
	moved, err = MoveIfAbsent(src, dst)
	if err != nil || moved {
		t.Fatalf("MoveIfAbsent() = %v, %v; expected false, nil", moved, err)
	}
	data, _ = os.ReadFile(dst)
	if string(data) != "new" {
		t.Errorf("Existing destination was modified: %q", data)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("Expected discarded source to be removed")
	}
}

func TestIsPartialFile(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{".a.mp4.123.part", true},
		{"a.mp4.part", false},
		{".hidden", false},
		{"20230115_143022_NF.mp4", false},
	}

	for _, tt := range tests {
		if got := IsPartialFile(tt.name); got != tt.expected {
			t.Errorf("IsPartialFile(%q) = %v, expected %v", tt.name, got, tt.expected)
		}
	}
}

func TestRemovePartialFiles(t *testing.T) {
	dir := t.TempDir()
	files := []string{".a.mp4.1.part", ".b.mp4.2.part", "c.mp4"}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := RemovePartialFiles(dir)
	if err != nil {
		t.Fatalf("RemovePartialFiles() error: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 removed, got %d", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, "c.mp4")); err != nil {
		t.Errorf("Finished recording was removed: %v", err)
	}

	if _, err := RemovePartialFiles(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestOpenFileInManager_NonExistentFile(t *testing.T) {
	nonExistentFile := filepath.Join(t.TempDir(), "nonexistent.mp4")

	if err := OpenFileInManager(nonExistentFile); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}
