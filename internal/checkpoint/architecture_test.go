package checkpoint

import (
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestOnlyCheckpointPackageImportsInfra ensures the concrete drivers are only
// wired here. Everything else depends on the Transport contract.
func TestOnlyCheckpointPackageImportsInfra(t *testing.T) {
	infraPrefix := "adaptercore/internal/infra/checkpoint"
	allowedPrefix := "adaptercore/internal/checkpoint"

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "adaptercore/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		if strings.HasPrefix(pkg.PkgPath, allowedPrefix) || strings.HasPrefix(pkg.PkgPath, infraPrefix) {
			continue
		}
		for importPath := range pkg.Imports {
			if importPath == infraPrefix || strings.HasPrefix(importPath, infraPrefix+"/") {
				seen[filepath.Join(pkg.PkgPath, "...")+": "+importPath] = struct{}{}
			}
		}
	}
	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden import of checkpoint driver: %s", v)
		}
		t.Fatalf("found %d forbidden imports of checkpoint drivers", len(violations))
	}
}
