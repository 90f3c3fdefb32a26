package domain

import (
	"testing"

	"adaptercore/testutil"
)

// TestDomainStaysLeaf keeps the shared value types free of engine and
// driver dependencies so every layer can import them.
func TestDomainStaysLeaf(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".",
		testutil.AnyOf(testutil.InternalImportForbidden, testutil.AdapterImportForbidden),
		"domain must not depend on the engine or its internals")
	testutil.AssertNoTransitiveDependency(t, ".", testutil.DriverImportForbidden,
		"domain must not pull in checkpoint drivers")
}
