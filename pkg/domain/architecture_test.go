package domain

import (
	"testing"

	"zoocore/testutil"
)

// The domain layer stays free of internal packages and third-party modules.
func TestDomainImportBoundaries(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "domain must not import internal packages")
	testutil.AssertNoDirectImports(t, ".", testutil.ThirdPartyImportForbidden, "domain depends on the standard library only")
}
