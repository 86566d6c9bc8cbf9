package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woozymasta/alf"
)

// runCLI runs one invocation with stdin and returns exit status, stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := newApp(strings.NewReader(stdin), &stdout, &stderr).run(context.Background(), args)

	return exitStatus(err), stdout.String(), stderr.String()
}

// prepareSources creates a.txt and dir/b.txt in the current directory.
func prepareSources(t *testing.T) {
	t.Helper()

	require := require.New(t)
	require.NoError(os.WriteFile("a.txt", []byte("hi"), 0o644))
	require.NoError(os.MkdirAll("dir", 0o755))
	require.NoError(os.WriteFile(filepath.Join("dir", "b.txt"), []byte("world"), 0o644))
}

func TestCreateListReadExtract(t *testing.T) {
	require := require.New(t)
	t.Chdir(t.TempDir())
	prepareSources(t)

	code, _, stderr := runCLI(t, "a.txt\r\n\n  \ndir/b.txt\n", "-c", "test.alf")
	require.Equal(exitOK, code, stderr)
	require.Empty(stderr)

	code, stdout, stderr := runCLI(t, "", "-l", "test.alf")
	require.Equal(exitOK, code, stderr)
	require.Equal(fmt.Sprintf("%08x  %10s  %s\n%08x  %10s  %s\n",
		crc32.ChecksumIEEE([]byte("hi")), "2 B", "/a.txt",
		crc32.ChecksumIEEE([]byte("world")), "5 B", "/dir/b.txt",
	), stdout)

	code, stdout, stderr = runCLI(t, "", "-r", "dir/b.txt", "test.alf")
	require.Equal(exitOK, code, stderr)
	require.Equal("world", stdout)

	code, _, stderr = runCLI(t, "", "-x", "test.alf")
	require.Equal(exitOK, code, stderr)

	data, err := os.ReadFile(filepath.Join("test", "dir", "b.txt"))
	require.NoError(err)
	require.Equal("world", string(data))

	data, err = os.ReadFile(filepath.Join("test", "a.txt"))
	require.NoError(err)
	require.Equal("hi", string(data))

	code, _, stderr = runCLI(t, "", "-x", "-d", "out", "-i", "dir/**", "test.alf")
	require.Equal(exitOK, code, stderr)

	_, err = os.Stat(filepath.Join("out", "a.txt"))
	require.True(errors.Is(err, fs.ErrNotExist))

	data, err = os.ReadFile(filepath.Join("out", "dir", "b.txt"))
	require.NoError(err)
	require.Equal("world", string(data))
}

func TestCreate_StoredLayout(t *testing.T) {
	require := require.New(t)
	t.Chdir(t.TempDir())
	prepareSources(t)

	code, _, stderr := runCLI(t, "a.txt\ndir/b.txt\n", "-c", "test.alf")
	require.Equal(exitOK, code, stderr)

	header, err := alf.ReadHeader("test.alf")
	require.NoError(err)
	require.Equal(uint32(2), header.EntryCount)
	require.Equal(int32(alf.HeaderSize+7), header.TableOffset)

	entries, err := alf.ListEntries("test.alf")
	require.NoError(err)
	require.Len(entries, 2)
	require.Equal(`\a.txt`, entries[0].Path)
	require.Equal(uint32(2), entries[0].Size)
	require.Equal(`\dir\b.txt`, entries[1].Path)
	require.Equal(uint32(5), entries[1].Size)
}

func TestCreate_NeverPolicyWarns(t *testing.T) {
	require := require.New(t)
	t.Chdir(t.TempDir())
	prepareSources(t)

	code, _, stderr := runCLI(t, "dir/b.txt\n", "-c", "-p", "never", "test.alf")
	require.Equal(exitOK, code)
	require.Contains(stderr, "warning:")

	entries, err := alf.ListEntries("test.alf")
	require.NoError(err)
	require.Equal("/dir/b.txt", entries[0].Path)

	// Default lookup converts the request to Windows form and misses.
	code, _, _ = runCLI(t, "", "-r", "dir/b.txt", "test.alf")
	require.Equal(exitNotFound, code)

	code, stdout, _ := runCLI(t, "", "-r", "dir/b.txt", "-p", "always", "test.alf")
	require.Equal(exitOK, code)
	require.Equal("world", stdout)
}

func TestCreate_SkipsDirectories(t *testing.T) {
	require := require.New(t)
	t.Chdir(t.TempDir())
	prepareSources(t)

	code, _, stderr := runCLI(t, "dir\na.txt\n", "-c", "test.alf")
	require.Equal(exitOK, code)
	require.Contains(stderr, "warning: skipping dir")

	entries, err := alf.ListEntries("test.alf")
	require.NoError(err)
	require.Len(entries, 1)
}

func TestCreate_MissingSource(t *testing.T) {
	require := require.New(t)
	t.Chdir(t.TempDir())

	code, _, stderr := runCLI(t, "missing.txt\n", "-c", "test.alf")
	require.Equal(exitIO, code)
	require.Contains(stderr, "error:")

	_, err := os.Stat("test.alf")
	require.True(errors.Is(err, fs.ErrNotExist))
}

func TestCreate_ParentTraversalRejected(t *testing.T) {
	require := require.New(t)
	root := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(root, "up.txt"), []byte("up"), 0o644))
	require.NoError(os.Mkdir(filepath.Join(root, "work"), 0o755))
	t.Chdir(filepath.Join(root, "work"))
	prepareSources(t)

	code, _, stderr := runCLI(t, "a.txt\n../up.txt\n", "-c", "test.alf")
	require.Equal(exitInvalidPath, code, stderr)
	require.Contains(stderr, "error:")

	_, err := os.Stat("test.alf")
	require.True(errors.Is(err, fs.ErrNotExist))
}

func TestReadModes_ArchiveErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name string, raw []byte) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, raw, 0o644))
		return path
	}

	badMagic := write("bad.alf", append([]byte("XXXX"), make([]byte, 12)...))
	compressed := write("compressed.alf", alf.EncodeHeader(alf.Header{
		Magic:       alf.Magic,
		Flags:       alf.FlagCompressed,
		TableOffset: alf.HeaderSize,
	}))
	truncated := write("truncated.alf", alf.EncodeHeader(alf.Header{
		Magic:       alf.Magic,
		EntryCount:  2,
		TableOffset: alf.HeaderSize,
	}))
	empty := write("empty.alf", alf.EncodeHeader(alf.Header{
		Magic:       alf.Magic,
		TableOffset: alf.HeaderSize,
	}))

	testCases := []struct {
		name string
		args []string
		code int
	}{
		{name: "bad magic", args: []string{"-l", badMagic}, code: exitBadMagic},
		{name: "compressed", args: []string{"-x", "-d", filepath.Join(dir, "x"), compressed}, code: exitCompressed},
		{name: "truncated table", args: []string{"-l", truncated}, code: exitUnexpectedEOF},
		{name: "entry not found", args: []string{"-r", "a.txt", empty}, code: exitNotFound},
		{name: "missing archive", args: []string{"-l", filepath.Join(dir, "missing.alf")}, code: exitIO},
		{name: "empty archive lists nothing", args: []string{"-l", empty}, code: exitOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			code, stdout, stderr := runCLI(t, "", tc.args...)
			require.Equal(t, tc.code, code, stderr)
			if tc.code == exitOK {
				require.Empty(t, stdout)
				return
			}

			require.Contains(t, stderr, "error:")
		})
	}
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
	}{
		{name: "no mode", args: []string{"test.alf"}},
		{name: "two modes", args: []string{"-c", "-l", "test.alf"}},
		{name: "no archive", args: []string{"-l"}},
		{name: "unknown policy", args: []string{"-l", "-p", "sometimes", "test.alf"}},
		{name: "extra argument", args: []string{"-l", "test.alf", "more.alf"}},
		{name: "unknown flag", args: []string{"-l", "--bogus", "test.alf"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			code, _, stderr := runCLI(t, "", tc.args...)
			require.Equal(t, exitUsage, code)
			require.Contains(t, stderr, "error:")
		})
	}
}

func TestHelp(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := runCLI(t, "", "--help")
	require.Equal(t, exitOK, code)
	require.Empty(t, stderr)
	require.Contains(t, stdout, "--path-conversion")
}

func TestDefaultExtractDir(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"foo.alf":                                   "foo",
		"foo":                                       "foo.d",
		filepath.Join("data", "pack.v2.alf"):        filepath.Join("data", "pack.v2"),
		filepath.Join("data.d", "archive"):          filepath.Join("data.d", "archive.d"),
		filepath.Join("data", ".hidden"):            filepath.Join("data", ".hidden.d"),
		filepath.Join("nested", "dir", "game.alf"): filepath.Join("nested", "dir", "game"),
	}

	for in, want := range testCases {
		require.Equal(t, want, defaultExtractDir(in), in)
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		err  error
		code int
	}{
		{err: nil, code: exitOK},
		{err: fmt.Errorf("open: %w", alf.ErrBadMagic), code: exitBadMagic},
		{err: fmt.Errorf("table: %w", alf.ErrUnexpectedEOF), code: exitUnexpectedEOF},
		{err: alf.ErrCompressedUnsupported, code: exitCompressed},
		{err: alf.ErrEntryNotFound, code: exitNotFound},
		{err: alf.ErrSizeMismatch, code: exitSizeMismatch},
		{err: alf.ErrMissingCapability, code: exitMissingCapability},
		{err: alf.ErrPathTooLong, code: exitInvalidPath},
		{err: alf.ErrInvalidExtractPath, code: exitInvalidPath},
		{err: alf.ErrInvalidPathConversion, code: exitUsage},
		{err: &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, code: exitIO},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.code, exitCodeFor(tc.err), "%v", tc.err)
	}

	require.Equal(t, exitSizeMismatch, exitStatus(&exitError{code: exitSizeMismatch, err: alf.ErrSizeMismatch}))
	require.Equal(t, exitUsage, exitStatus(errors.New("plain")))
}

func TestReadSourcePaths(t *testing.T) {
	t.Parallel()

	paths, err := readSourcePaths(strings.NewReader("a.txt\r\n\n \r\ndir/b c.txt\nlast"))
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt", "dir/b c.txt", "last"}, paths)
}
