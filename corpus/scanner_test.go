package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calumari/keypath"
	"github.com/calumari/keypath/openstep"
)

const (
	fontA = `{
.appVersion = "3151";
.formatVersion = 3;
familyName = A;
fontMaster = (
{
id = m01;
userData = {
com.example.note = x;
};
}
);
}
`
	fontB = `{
.appVersion = "3151";
.formatVersion = 3;
changeCount = 4;
glyphs = (
{
glyphname = a;
unicode = 97;
}
);
}
`
	legacyFont = `{
.appVersion = "1342";
familyName = Legacy;
legacyKey = 1;
}
`
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	location := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(location), 0o755))
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))
	return location
}

func newScanner(t *testing.T, opts ...Option) *Scanner {
	t.Helper()
	registry, err := keypath.NewRegistry(openstep.Glyphs, keypath.JSON)
	require.NoError(t, err)
	rules, err := keypath.NewRuleSet(keypath.Glyphs3)
	require.NoError(t, err)
	return New(registry, rules, opts...)
}

func TestScanner_Scan(t *testing.T) {
	ctx := context.Background()

	t.Run("unions key paths across nested directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "A.glyphs", fontA)
		writeFile(t, dir, "nested/deeper/B.glyphs", fontB)
		writeFile(t, dir, "notes.txt", "not a font")

		res, err := newScanner(t).Scan(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"/.appVersion",
			"/.formatVersion",
			"/familyName",
			"/fontMaster/id",
			"/fontMaster/userData",
			"/glyphs/glyphname",
			"/glyphs/unicode",
		}, res.Paths.Sorted())
		assert.Len(t, res.Files, 2)
		assert.Empty(t, res.Skipped)
	})

	t.Run("legacy format files are skipped", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "A.glyphs", fontA)
		legacy := writeFile(t, dir, "Legacy.glyphs", legacyFont)

		res, err := newScanner(t).Scan(ctx, dir)
		require.NoError(t, err)
		assert.False(t, res.Paths.Has("/legacyKey"))
		require.Len(t, res.Skipped, 1)
		assert.Equal(t, Skip{Location: legacy, Reason: ReasonFormatVersion}, res.Skipped[0])
	})

	t.Run("marker outside the window is not accepted", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "A.glyphs", fontA)

		res, err := newScanner(t, WithFormatVersion(DefaultVersionMarker, 10)).Scan(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Paths.Len())
		assert.Len(t, res.Skipped, 1)
	})

	t.Run("guard disabled collects legacy files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "Legacy.glyphs", legacyFont)

		res, err := newScanner(t, WithFormatVersion("", 0)).Scan(ctx, dir)
		require.NoError(t, err)
		assert.True(t, res.Paths.Has("/legacyKey"))
	})

	t.Run("excluded files are skipped", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "A.glyphs", fontA)
		excluded := writeFile(t, dir, "B.glyphs", fontB)

		res, err := newScanner(t, WithExclusions(excluded)).Scan(ctx, dir)
		require.NoError(t, err)
		assert.False(t, res.Paths.Has("/glyphs/glyphname"))
		assert.Equal(t, []Skip{{Location: excluded, Reason: ReasonExcluded}}, res.Skipped)
	})

	t.Run("reference files are collected", func(t *testing.T) {
		dir := t.TempDir()
		refDir := t.TempDir()
		writeFile(t, dir, "A.glyphs", fontA)
		ref := writeFile(t, refDir, "Reference.glyphs", fontB)

		res, err := newScanner(t, WithReferences(ref)).Scan(ctx, dir)
		require.NoError(t, err)
		assert.True(t, res.Paths.Has("/glyphs/unicode"))
		assert.Contains(t, res.Files, ref)
	})

	t.Run("additional extensions", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "export.json", `{"familyName":"J","axes":[{"tag":"wght"}]}`)

		res, err := newScanner(t, WithExtensions(".json"), WithFormatVersion("", 0)).Scan(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"/axes/tag", "/familyName"}, res.Paths.Sorted())
	})

	t.Run("parse failure aborts", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "A.glyphs", fontA)
		broken := writeFile(t, dir, "Broken.glyphs", "{\n.formatVersion = 3;\nfamilyName = ;\n}")

		res, err := newScanner(t).Scan(ctx, dir)
		require.Error(t, err)
		assert.Nil(t, res)
		assert.Contains(t, err.Error(), broken)
		var perr *openstep.ParseError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("short root is rejected", func(t *testing.T) {
		_, err := newScanner(t).Scan(ctx, "/")
		require.ErrorIs(t, err, ErrRootTooShort)
	})

	t.Run("ten byte root is rejected", func(t *testing.T) {
		root := "/tmp/abcde"
		require.Len(t, root, 10)
		_, err := newScanner(t).Scan(ctx, root)
		require.ErrorIs(t, err, ErrRootTooShort)
	})

	t.Run("eleven byte root passes the length guard", func(t *testing.T) {
		root := "/tmp/abcdef"
		require.Len(t, root, 11)
		_, err := newScanner(t).Scan(ctx, root)
		assert.NotErrorIs(t, err, ErrRootTooShort)
	})

	t.Run("idempotent", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "A.glyphs", fontA)
		writeFile(t, dir, "B.glyphs", fontB)

		first, err := newScanner(t).Scan(ctx, dir)
		require.NoError(t, err)
		second, err := newScanner(t).Scan(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, first.Paths.Sorted(), second.Paths.Sorted())
	})

	t.Run("union law", func(t *testing.T) {
		dirA := t.TempDir()
		dirB := t.TempDir()
		dirAB := t.TempDir()
		writeFile(t, dirA, "A.glyphs", fontA)
		writeFile(t, dirB, "B.glyphs", fontB)
		writeFile(t, dirAB, "A.glyphs", fontA)
		writeFile(t, dirAB, "B.glyphs", fontB)

		a, err := newScanner(t).Scan(ctx, dirA)
		require.NoError(t, err)
		b, err := newScanner(t).Scan(ctx, dirB)
		require.NoError(t, err)
		ab, err := newScanner(t).Scan(ctx, dirAB)
		require.NoError(t, err)
		assert.Equal(t, keypath.Union(a.Paths, b.Paths).Sorted(), ab.Paths.Sorted())
	})
}

func TestNewOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		o := NewOptions()
		assert.Equal(t, []string{DefaultExtension}, o.Extensions)
		assert.Equal(t, DefaultVersionMarker, o.VersionMarker)
		assert.Equal(t, DefaultVersionWindow, o.VersionWindow)
		assert.Equal(t, DefaultMinRootLength, o.MinRootLength)
		assert.NotNil(t, o.fs)
	})

	t.Run("overrides", func(t *testing.T) {
		o := NewOptions(WithExtensions(".json"), WithMinRootLength(3), WithFormatVersion("v", 5))
		assert.Equal(t, []string{".json"}, o.Extensions)
		assert.Equal(t, 3, o.MinRootLength)
		assert.Equal(t, "v", o.VersionMarker)
		assert.Equal(t, 5, o.VersionWindow)
	})
}
