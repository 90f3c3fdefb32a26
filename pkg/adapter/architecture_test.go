package adapter_test

import (
	"testing"

	"adaptercore/testutil"
)

// TestEngineHasNoStorageDependencies keeps the engine usable without any
// checkpoint driver: blobs leave it through Save and nothing else.
func TestEngineHasNoStorageDependencies(t *testing.T) {
	testutil.AssertNoTransitiveDependency(t, ".", testutil.DriverImportForbidden,
		"the engine hands snapshots to callers and never stores them itself")
}
