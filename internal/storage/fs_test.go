package storage

import (
	"testing"
)

func tempDocs(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempDocs(t)
	content := []byte("---\ntitle: Hi\n---\nWorld\n")
	if err := s.Write("page.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("page.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempDocs(t)
	if err := s.Write("guides/setup/install.md", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("guides/setup/install.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestDelete(t *testing.T) {
	s := tempDocs(t)
	_ = s.Write("del.md", []byte("bye"))
	if err := s.Delete("del.md"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del.md"); err == nil {
		t.Error("expected error reading deleted file")
	}
}

func TestList(t *testing.T) {
	s := tempDocs(t)
	_ = s.Write("guides/a.md", []byte("a"))
	_ = s.Write("reference/b.md", []byte("b"))
	_ = s.Write("notes.txt", []byte("not markdown"))

	infos, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len = %d, want 2 (.md only)", len(infos))
	}
	for _, info := range infos {
		if info.Checksum == "" {
			t.Errorf("missing checksum for %s", info.Path)
		}
	}
}

func TestListSubdir(t *testing.T) {
	s := tempDocs(t)
	_ = s.Write("guides/a.md", []byte("a"))
	_ = s.Write("reference/b.md", []byte("b"))

	infos, err := s.List("guides")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || infos[0].Path != "guides/a.md" {
		t.Errorf("infos = %+v", infos)
	}
}

func TestPathTraversalRejected(t *testing.T) {
	s := tempDocs(t)
	if _, err := s.Read("../outside.md"); err == nil {
		t.Error("traversal read should fail")
	}
	if err := s.Write("../outside.md", []byte("x")); err == nil {
		t.Error("traversal write should fail")
	}
	if _, err := s.Read("/etc/passwd"); err == nil {
		t.Error("absolute path should fail")
	}
}
