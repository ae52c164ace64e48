package config_test

import (
	"testing"

	"github.com/spf13/pflag"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/config"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/guard"
)

func TestConfig_GuardReflectsFlags(t *testing.T) {
	c := config.Default()
	c.Merge = true
	c.Overwrite = false
	c.Recursive = true

	g := c.Guard()
	if allowed, _ := g.Authorize(core.MustPath("/a"), guard.CapMerge); !allowed {
		t.Fatal("expected merge to be authorized")
	}
	if allowed, err := g.Authorize(core.MustPath("/a"), guard.CapOverwrite); allowed || err == nil {
		t.Fatal("expected overwrite to be denied with an error")
	}
	if allowed, _ := g.Authorize(core.MustPath("/a"), guard.CapRecursive); !allowed {
		t.Fatal("expected recursive to be authorized")
	}
}

func TestConfig_BindFlagsParsesCLIArgs(t *testing.T) {
	c := config.Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.BindFlags(fs)

	if err := fs.Parse([]string{"--root", "/tmp/workdir", "--overwrite", "-vv"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Root != "/tmp/workdir" {
		t.Fatalf("expected root to be parsed, got %q", c.Root)
	}
	if !c.Overwrite {
		t.Fatal("expected overwrite flag to be set")
	}
	if c.Verbosity != 2 {
		t.Fatalf("expected verbosity 2 from -vv, got %d", c.Verbosity)
	}
}
