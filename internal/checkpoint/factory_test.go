package checkpoint

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenDefaultsToFilesystem(t *testing.T) {
	t.Setenv("ADAPTERCORE_CHECKPOINT_DRIVER", "")
	t.Setenv("ADAPTERCORE_CHECKPOINT_FS_ROOT", t.TempDir())
	tr, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if tr.Driver() != DriverFilesystem {
		t.Fatalf("expected fs driver, got %s", tr.Driver())
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	t.Setenv("ADAPTERCORE_SQLITE_PATH", filepath.Join(t.TempDir(), "cp.db"))
	for _, d := range []Driver{DriverMemory, DriverSQLite} {
		t.Setenv("ADAPTERCORE_CHECKPOINT_DRIVER", string(d))
		tr, err := Open(context.Background())
		if err != nil {
			t.Fatalf("open %s: %v", d, err)
		}
		if tr.Driver() != d {
			t.Fatalf("expected %s, got %s", d, tr.Driver())
		}
	}
}

func TestOpenErrors(t *testing.T) {
	t.Setenv("ADAPTERCORE_CHECKPOINT_DRIVER", "floppy")
	if _, err := Open(context.Background()); err == nil || !strings.Contains(err.Error(), "unknown checkpoint driver") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
	t.Setenv("ADAPTERCORE_CHECKPOINT_DRIVER", string(DriverS3))
	t.Setenv("ADAPTERCORE_CHECKPOINT_S3_BUCKET", "")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected s3 without bucket to fail")
	}
}
