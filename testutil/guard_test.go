package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPredicates(t *testing.T) {
	cases := []struct {
		name string
		pred func(string) bool
		in   string
		want bool
	}{
		{"internal", InternalImportForbidden, "zoocore/internal/core", true},
		{"internal root", InternalImportForbidden, "internal/core", true},
		{"internal pkg", InternalImportForbidden, "zoocore/pkg/domain", false},
		{"internal word", InternalImportForbidden, "example.com/notinternal", false},
		{"infra", InfraImportForbidden, "zoocore/internal/infra/blob/s3", true},
		{"infra parent", InfraImportForbidden, "zoocore/internal/blob", false},
		{"third party", ThirdPartyImportForbidden, "github.com/sirupsen/logrus", true},
		{"third party gopkg", ThirdPartyImportForbidden, "gopkg.in/yaml.v2", true},
		{"stdlib", ThirdPartyImportForbidden, "encoding/json", false},
		{"module", ThirdPartyImportForbidden, "zoocore/pkg/domain", false},
	}
	for _, c := range cases {
		if got := c.pred(c.in); got != c.want {
			t.Fatalf("%s(%q)=%v want %v", c.name, c.in, got, c.want)
		}
	}
	combined := Any(InfraImportForbidden, ThirdPartyImportForbidden)
	if !combined("github.com/spf13/pflag") || !combined("zoocore/internal/infra/persistence/memory") || combined("fmt") {
		t.Fatalf("unexpected combined predicate result")
	}
}

func writeFile(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestAssertNoDirectImportsIgnoresTestsAndSubdirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.go", "package tmp\nimport (\n\t\"fmt\"\n\talias \"context\"\n)\nfunc X(){fmt.Println(alias.Background())}")
	writeFile(t, dir, "x_test.go", "package tmp\nimport \"forbidden/pkg\"\n")
	writeFile(t, dir, "notes.txt", "import \"forbidden/pkg\"")
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, sub, "y.go", "package sub\nimport \"forbidden/pkg\"\n")
	AssertNoDirectImports(t, dir, func(p string) bool { return p == "forbidden/pkg" }, "none")
}

type recordingFatal struct{ msg string }

func (r *recordingFatal) Fatalf(format string, args ...any) { r.msg = fmt.Sprintf(format, args...) }

func TestDirectImportViolationsReported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.go", "package tmp\nimport _ \"zoocore/internal/infra/blob/fs\"\n")
	writeFile(t, dir, "a.go", "package tmp\nimport _ \"github.com/sirupsen/logrus\"\n")
	viols, err := directImportViolations(dir, Any(InfraImportForbidden, ThirdPartyImportForbidden))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 2 || !strings.HasPrefix(viols[0], "github.com/sirupsen/logrus") {
		t.Fatalf("unexpected violations %v", viols)
	}
	rec := &recordingFatal{}
	failIfDirectViolations(rec, "layering", viols)
	if !strings.Contains(rec.msg, "layering") {
		t.Fatalf("expected reason in message, got %q", rec.msg)
	}
}

func TestDirectImportViolationsMissingDir(t *testing.T) {
	if _, err := directImportViolations(filepath.Join(t.TempDir(), "missing"), InternalImportForbidden); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
