package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var header = []string{"TC ID", "Test Case Name", "Input", "Expected Output", "Actual Output", "Status", "Remarks", "Coverage"}

func TestEscapeRoundTrip(t *testing.T) {
	values := []string{
		``,
		`plain`,
		`say "hi"`,
		`""`,
		`"`,
		"multi\nline, with comma",
		`මම "ගෙදර" යනවා`,
	}

	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			escaped := Escape(v)
			assert.True(t, strings.HasPrefix(escaped, `"`) && strings.HasSuffix(escaped, `"`))
			assert.Equal(t, v, Unescape(escaped))
		})
	}

	assert.Equal(t, `"say ""hi"""`, Escape(`say "hi"`))
	assert.Equal(t, "bare", Unescape("bare"))
}

func TestCSVStorage_CreateAppendLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_results.csv")
	st := NewCSVStorage(path)

	require.NoError(t, st.Create(header))
	require.NoError(t, st.Append([]string{"Pos_Fun_0001", "name", "mata", "මට", "මට", "PASS", "Success", "x"}))
	require.NoError(t, st.Append([]string{"Neg_Fun_0001", `with "quote"`, "a,b", "c\nd", "", "FAIL", "No output generated", ""}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Join(header, ",")+"\n"))

	rows, err := st.Load()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Pos_Fun_0001", rows[0][0])
	assert.Equal(t, `with "quote"`, rows[1][1])
	assert.Equal(t, "a,b", rows[1][2])
	assert.Equal(t, "c\nd", rows[1][3])
	assert.Equal(t, "FAIL", rows[1][5])
}

func TestCSVStorage_LoadKeepsWhitespace(t *testing.T) {
	st := NewCSVStorage(filepath.Join(t.TempDir(), "test_results.csv"))

	require.NoError(t, st.Create(header))
	require.NoError(t, st.Append([]string{"Neg_Fun_0002", "spaces", " mata ", "මට", "  මට\n", "FAIL", "Output differs from expected", ""}))

	rows, err := st.Load()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, " mata ", rows[0][2])
	assert.Equal(t, "  මට\n", rows[0][4])
}

func TestCSVStorage_CreateTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_results.csv")
	st := NewCSVStorage(path)

	require.NoError(t, st.Create(header))
	require.NoError(t, st.Append([]string{"old"}))
	require.NoError(t, st.Create(header))

	rows, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSVStorage_AppendWithoutCreate(t *testing.T) {
	st := NewCSVStorage(filepath.Join(t.TempDir(), "missing", "report.csv"))
	assert.Error(t, st.Append([]string{"x"}))
}

func TestCSVStorage_ConcurrentAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_results.csv")
	st := NewCSVStorage(path)
	require.NoError(t, st.Create(header))

	const writers = 8
	const perWriter = 25
	payload := strings.Repeat("ම", 200)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				id := fmt.Sprintf("W%d_%03d", w, i)
				assert.NoError(t, st.Append([]string{id, payload, "x", "y", "z", "PASS", "Success", "c"}))
			}
		}(w)
	}
	wg.Wait()

	rows, err := st.Load()
	require.NoError(t, err)
	require.Len(t, rows, writers*perWriter)
	for _, row := range rows {
		require.Len(t, row, len(header))
		assert.Equal(t, payload, row[1])
	}
}
