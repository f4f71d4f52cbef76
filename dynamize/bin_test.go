package main

import (
	"bytes"
	"github.com/ZenLiuCN/fn"
	. "github.com/ahmetsait/BindingDynamizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const binding = "module gl.funcs;\n\n// void glHidden();\nvoid glBegin(GLenum mode);\nint x_init(int a, int b);\n"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"dynamize"}, args...))
	return out.String(), err
}

func workspace(t *testing.T) (dir string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "funcs.d"), []byte(binding), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "sub", "more.d"), []byte("int x_more();\n"), 0o644))
	return
}

func read(t *testing.T, path string) string {
	t.Helper()
	return string(fn.Panic1(os.ReadFile(path)))
}

func TestDynamize(t *testing.T) {
	dir := workspace(t)
	out := filepath.Join(dir, "out")
	stdout, err := run(t, "-o", out, "-r", filepath.Join(dir, "src"))
	require.NoError(t, err)

	assert.Equal(t, "import gl.funcs;\n"+
		`lib.bindSymbol(cast(void**)&x_init, "x_init");`+"\n"+
		`lib.bindSymbol(cast(void**)&x_more, "x_more");`+"\n", stdout)

	text := read(t, filepath.Join(out, "funcs.d"))
	assert.Contains(t, text, "version(Static)\n\tint x_init(int a, int b);\nelse\n")
	assert.Contains(t, text, "void glBegin(GLenum mode);\nversion(Static)")
	assert.Contains(t, text, "// void glHidden();\n")
	assert.Contains(t, read(t, filepath.Join(out, "sub", "more.d")), "__gshared fp_x_more x_more;")
}

func TestDynamizeFlags(t *testing.T) {
	dir := workspace(t)
	out := filepath.Join(dir, "out")
	loader := filepath.Join(dir, "loader.txt")
	stdout, err := run(t, "-p", "gl", "-v", "GL_Static", "-o", out, "-l", loader, filepath.Join(dir, "src", "funcs.d"))
	require.NoError(t, err)
	assert.Empty(t, stdout)

	assert.Equal(t, "import gl.funcs;\n"+`lib.bindSymbol(cast(void**)&glBegin, "glBegin");`+"\n", read(t, loader))
	text := read(t, filepath.Join(out, "funcs.d"))
	assert.Contains(t, text, "version(GL_Static)\n\tvoid glBegin(GLenum mode);\n")
	assert.Contains(t, text, "\nint x_init(int a, int b);\n")
	assert.NoFileExists(t, filepath.Join(out, "more.d"))
}

func TestDynamizeInvalidVersionKeepsDefault(t *testing.T) {
	dir := workspace(t)
	out := filepath.Join(dir, "out")
	_, err := run(t, "-v", "not-valid", "-o", out, filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Contains(t, read(t, filepath.Join(out, "funcs.d")), "version(Static)\n")
}

func TestDynamizeConfigFile(t *testing.T) {
	dir := workspace(t)
	cfg := filepath.Join(dir, "dynamize.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("prefix: gl\nversion: GL_Static\nrecursive: true\noutput: "+filepath.Join(dir, "gen")+"\n"), 0o644))

	stdout, err := run(t, "-c", cfg, "-v", "Flag_Static", filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Equal(t, "import gl.funcs;\n"+`lib.bindSymbol(cast(void**)&glBegin, "glBegin");`+"\n", stdout)
	assert.Contains(t, read(t, filepath.Join(dir, "gen", "funcs.d")), "version(Flag_Static)\n")
	assert.FileExists(t, filepath.Join(dir, "gen", "sub", "more.d"))
}

func TestDynamizeDryRun(t *testing.T) {
	dir := workspace(t)
	out := filepath.Join(dir, "out")
	stdout, err := run(t, "-n", "-o", out, filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "x_init")
	assert.NoDirExists(t, out)
}

func TestDynamizeErrors(t *testing.T) {
	_, err := run(t)
	assert.Error(t, err)

	_, err = run(t, "-o", t.TempDir(), filepath.Join(t.TempDir(), "missing.d"))
	assert.Error(t, err)

	_, err = run(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"), workspace(t))
	assert.Error(t, err)
}

func TestDynamizeDuplicateDestination(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, name), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name, "x.d"), []byte("int x_"+name+"();\n"), 0o644))
	}
	out := filepath.Join(dir, "out")

	stdout, err := run(t, "-o", out, filepath.Join(dir, "a", "x.d"), filepath.Join(dir, "b", "x.d"))
	assert.ErrorIs(t, err, ErrDuplicateDestination)
	assert.NotContains(t, stdout, "bindSymbol")
	assert.NoDirExists(t, out)

	_, err = run(t, "-o", out, filepath.Join(dir, "a"), filepath.Join(dir, "b"))
	assert.ErrorIs(t, err, ErrDuplicateDestination)
	assert.NoDirExists(t, out)
}

func TestDynamizeSkipsOutput(t *testing.T) {
	dir := workspace(t)
	src := filepath.Join(dir, "src")
	out := filepath.Join(src, "dynamic")

	first, err := run(t, "-r", "-o", out, src)
	require.NoError(t, err)
	second, err := run(t, "-r", "-o", out, src)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(second, "x_init\""))
	assert.NoDirExists(t, filepath.Join(out, "dynamic"))
	assert.Equal(t, 1, strings.Count(read(t, filepath.Join(out, "funcs.d")), "version(Static)"))
}

func TestScan(t *testing.T) {
	dir := workspace(t)
	stdout, err := run(t, "scan", filepath.Join(dir, "src", "funcs.d"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3, stdout)
	assert.True(t, strings.HasSuffix(lines[0], ":1: module gl.funcs"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ":3: comment"), lines[1])
	assert.Contains(t, lines[2], `:5: function x_init returns "int" params "(int a, int b)"`)
}
