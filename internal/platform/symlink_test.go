package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateSymlink(t *testing.T) {
	tmp := t.TempDir()

	skillDir := filepath.Join(tmp, "skills", "writer")
	if err := os.MkdirAll(skillDir, 0755); err != nil {
		t.Fatal(err)
	}

	// Parent of the link does not exist yet.
	linkPath := filepath.Join(tmp, "target", "writer")
	if err := CreateSymlink(skillDir, linkPath); err != nil {
		t.Fatalf("CreateSymlink failed: %v", err)
	}

	got, err := ReadSymlinkTarget(linkPath)
	if err != nil {
		t.Fatalf("ReadSymlinkTarget failed: %v", err)
	}
	if got != skillDir {
		t.Errorf("symlink target = %q, want %q", got, skillDir)
	}
}

func TestRemoveSymlink(t *testing.T) {
	tmp := t.TempDir()

	target := filepath.Join(tmp, "real")
	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(tmp, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	if err := RemoveSymlink(link); err != nil {
		t.Fatalf("RemoveSymlink failed: %v", err)
	}
	if Exists(link) {
		t.Error("link still exists after RemoveSymlink")
	}
	if !Exists(target) {
		t.Error("RemoveSymlink removed the link target")
	}
}

func TestRemoveSymlinkRefusesDirectory(t *testing.T) {
	tmp := t.TempDir()

	dir := filepath.Join(tmp, "plain")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	err := RemoveSymlink(dir)
	if !errors.Is(err, ErrNotSymlink) {
		t.Fatalf("RemoveSymlink(dir) error = %v, want ErrNotSymlink", err)
	}
	if !Exists(dir) {
		t.Error("plain directory was removed")
	}
}

func TestResolveLinkRelative(t *testing.T) {
	tmp := t.TempDir()

	target := filepath.Join(tmp, "skills", "alpha")
	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatal(err)
	}
	targetDir := filepath.Join(tmp, "agent")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(targetDir, "alpha")
	if err := os.Symlink(filepath.Join("..", "skills", "alpha"), link); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveLink(link)
	if err != nil {
		t.Fatalf("ResolveLink failed: %v", err)
	}
	want, _ := filepath.EvalSymlinks(target)
	if got != want {
		t.Errorf("ResolveLink = %q, want %q", got, want)
	}
}

func TestResolveLinkBroken(t *testing.T) {
	tmp := t.TempDir()

	link := filepath.Join(tmp, "dangling")
	if err := os.Symlink(filepath.Join(tmp, "missing"), link); err != nil {
		t.Fatal(err)
	}

	if _, err := ResolveLink(link); err == nil {
		t.Error("expected error resolving a broken link")
	}
	if !Exists(link) {
		t.Error("Exists should report a broken symlink as present")
	}
	ok, err := IsSymlink(link)
	if err != nil || !ok {
		t.Errorf("IsSymlink = %v, %v; want true, nil", ok, err)
	}
}

func TestMove(t *testing.T) {
	tmp := t.TempDir()

	src := filepath.Join(tmp, "a")
	if err := os.Symlink(tmp, src); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(tmp, ".disabled", "a")
	if err := Move(src, dst); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if Exists(src) {
		t.Error("source still present after Move")
	}
	if ok, _ := IsSymlink(dst); !ok {
		t.Error("destination is not the moved symlink")
	}
}
