package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/ingenieras/internal/fsstore"
)

func writeReport(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func seedReports(t *testing.T) (*Query, string) {
	t.Helper()
	dir := t.TempDir()
	writeReport(t, dir, "20260101_080000_Ana_López_solar01_aaaa0001.json",
		`{"challenge_id":"solar01","student_name":"Ana López","steps":[{"question_id":"Paso 1","answer":"200","reasoning":"4*50"}],"timestamp":"2026-01-01 08:00:00"}`)
	writeReport(t, dir, "20260102_080000_Bea_puente_aaaa0002.json",
		`{"challenge_id":"puente","student_name":"Bea","steps":[],"timestamp":"2026-01-02 08:00:00"}`)
	writeReport(t, dir, "20260103_080000_Broken_x_aaaa0003.json", `{"challenge_id":`)
	writeReport(t, dir, "20260104_080000_SANA_rio_aaaa0004.json",
		`{"challenge_id":"rio","student_name":"SANA","timestamp":"2026-01-04 08:00:00"}`)
	writeReport(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.json"), 0o755))
	return NewQuery(dir, nil, zerolog.Nop()), dir
}

func filenames(reports []Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.Filename
	}
	return out
}

func TestListAllNewestFirstSkippingCorrupt(t *testing.T) {
	q, _ := seedReports(t)

	reports, err := q.ListAll()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20260104_080000_SANA_rio_aaaa0004.json",
		"20260102_080000_Bea_puente_aaaa0002.json",
		"20260101_080000_Ana_López_solar01_aaaa0001.json",
	}, filenames(reports))
	assert.NotNil(t, reports[0].Steps)
	assert.Equal(t, "2026-01-01 08:00:00", reports[2].Timestamp)
}

func TestListAllMissingDirIsEmpty(t *testing.T) {
	q := NewQuery(filepath.Join(t.TempDir(), "nope"), nil, zerolog.Nop())
	reports, err := q.ListAll()
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestFindByStudentCaseInsensitiveSubstring(t *testing.T) {
	q, _ := seedReports(t)

	reports, err := q.FindByStudent("  ANA ")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20260104_080000_SANA_rio_aaaa0004.json",
		"20260101_080000_Ana_López_solar01_aaaa0001.json",
	}, filenames(reports))

	reports, err = q.FindByStudent("lópez")
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestFindByStudentNoMatchOrBlank(t *testing.T) {
	q, _ := seedReports(t)

	reports, err := q.FindByStudent("zoe")
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)

	reports, err = q.FindByStudent("   ")
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestDeleteByFilename(t *testing.T) {
	q, dir := seedReports(t)
	name := "20260102_080000_Bea_puente_aaaa0002.json"

	require.NoError(t, q.DeleteByFilename(name))
	reports, err := q.ListAll()
	require.NoError(t, err)
	assert.NotContains(t, filenames(reports), name)

	assert.ErrorIs(t, q.DeleteByFilename(name), ErrNotFound)
	assert.ErrorIs(t, q.DeleteByFilename("notes.txt"), ErrNotFound)

	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err, "non-report files are never deleted")
}

func TestDeleteByFilenameRejectsTraversal(t *testing.T) {
	q, dir := seedReports(t)
	outside := filepath.Join(filepath.Dir(dir), "victim.json")
	require.NoError(t, os.WriteFile(outside, []byte("{}"), 0o644))
	t.Cleanup(func() { os.Remove(outside) })

	for _, name := range []string{"../victim.json", "..", "a/b.json", `..\victim.json`} {
		assert.ErrorIs(t, q.DeleteByFilename(name), fsstore.ErrInvalidName, name)
	}
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
