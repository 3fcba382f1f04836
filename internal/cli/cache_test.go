package cli

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hydrograph/pkg/cache"
)

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	c := New(io.Discard, log.InfoLevel)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", home)

	c := New(io.Discard, log.InfoLevel)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirConfigured(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.Config.Cache.Dir = "/srv/hydrograph-cache"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/srv/hydrograph-cache" {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestNewCacheNoCache(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	store, err := c.newCache(t.Context(), true)
	if err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := store.Get(t.Context(), "k"); hit {
		t.Error("--no-cache should disable caching")
	}
}

func TestNewRunnerPrefixedKeys(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.Config.Cache.Dir = t.TempDir()
	c.Config.Cache.Prefix = "net1:"

	r, err := c.newRunner(t.Context(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	key := r.Keyer.ArtifactKey(cache.Hash([]byte("digraph {}")), cache.ArtifactKeyOpts{Format: "svg", Layout: "neato", Kind: "graph"})
	if !strings.HasPrefix(key, "net1:") {
		t.Errorf("ArtifactKey() = %q, want net1: prefix", key)
	}
	if err := r.Cache.Set(t.Context(), key, []byte("<svg/>"), 0); err != nil {
		t.Fatal(err)
	}
	if data, hit, _ := r.Cache.Get(t.Context(), key); !hit || string(data) != "<svg/>" {
		t.Errorf("Get(%q) = %q, %v", key, data, hit)
	}
}
