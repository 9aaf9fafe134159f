package images

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveCollision(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if got, want := resolveCollision(dir, "a.png"), filepath.Join(dir, "a.png"); got != want {
		t.Errorf("free name = %q, want %q", got, want)
	}

	for _, name := range []string{"a.png", "a(1).png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if got, want := resolveCollision(dir, "a.png"), filepath.Join(dir, "a(2).png"); got != want {
		t.Errorf("after two collisions = %q, want %q", got, want)
	}
}

func TestResolveCollisionUnreachableDir(t *testing.T) {
	t.Parallel()

	// A directory path whose parent is a regular file makes every Stat fail
	// with something other than not-exist. The search must still terminate;
	// the write that follows surfaces the real error.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	bad := filepath.Join(blocker, "sub")
	if got, want := resolveCollision(bad, "a.png"), filepath.Join(bad, "a.png"); got != want {
		t.Errorf("unreachable dir = %q, want %q", got, want)
	}
}
