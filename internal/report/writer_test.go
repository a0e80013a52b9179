package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/a3tai/pdf-spec-scanner/internal/specsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	ts := time.Date(2024, 3, 7, 9, 5, 42, 0, time.UTC)
	return func() time.Time { return ts }
}

func sampleRecord() *specsheet.Record {
	return &specsheet.Record{
		ProductName: `"Black Tea"`,
		Country:     &specsheet.Country{Code: "IN", Name: "India"},
		Microbiological: []specsheet.Microbiological{{
			TVC: "<106 cfu/g",
		}},
	}
}

func TestWriter_Persist(t *testing.T) {
	dir := t.TempDir()
	var echo bytes.Buffer
	w := NewWriter(&echo, WithClock(fixedClock()))

	out, err := w.Persist(Document{
		SourcePath: filepath.Join(dir, "black_tea.pdf"),
		Raw:        "## Organic Black Tea\n",
		Record:     sampleRecord(),
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-07T09-05", out.Prefix)
	assert.Equal(t, filepath.Join(dir, "2024-03-07T09-05_raw_content.md"), out.RawPath)
	assert.Equal(t, filepath.Join(dir, "2024-03-07T09-05_product_data.json"), out.JSONPath)

	raw, err := os.ReadFile(out.RawPath)
	require.NoError(t, err)
	assert.Equal(t, "## Organic Black Tea\n", string(raw))

	data, err := os.ReadFile(out.JSONPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    \"product_name\": ")
	assert.Contains(t, string(data), `"tvc": "<106 cfu/g"`)

	var decoded specsheet.Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sampleRecord(), &decoded)

	assert.Equal(t, EchoStart+"\n"+string(data)+"\n"+EchoEnd+"\n", echo.String())
}

func TestWriter_PrefixCollisions(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(nil, WithClock(fixedClock()))

	var prefixes []string
	for i := 0; i < 3; i++ {
		out, err := w.Persist(Document{SourcePath: filepath.Join(dir, "sheet.pdf"), Record: sampleRecord()})
		require.NoError(t, err)
		prefixes = append(prefixes, out.Prefix)
	}

	assert.Equal(t, []string{"2024-03-07T09-05", "2024-03-07T09-05-2", "2024-03-07T09-05-3"}, prefixes)
}

func TestWriter_SkipsPrefixesFromEarlierRuns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-03-07T09-05_product_data.json"), []byte("{}"), 0o644))

	out, err := NewWriter(nil, WithClock(fixedClock())).Persist(Document{
		SourcePath: filepath.Join(dir, "sheet.pdf"),
		Record:     sampleRecord(),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-07T09-05-2", out.Prefix)
}

func TestWriter_SeparateDirectoriesShareBasePrefix(t *testing.T) {
	w := NewWriter(nil, WithClock(fixedClock()))

	a, err := w.Persist(Document{SourcePath: filepath.Join(t.TempDir(), "a.pdf")})
	require.NoError(t, err)
	b, err := w.Persist(Document{SourcePath: filepath.Join(t.TempDir(), "b.pdf")})
	require.NoError(t, err)

	assert.Equal(t, a.Prefix, b.Prefix)
}

func TestWriter_ConcurrentPersist(t *testing.T) {
	dir := t.TempDir()
	var echo bytes.Buffer
	w := NewWriter(&echo, WithClock(fixedClock()))

	const n = 8
	var wg sync.WaitGroup
	outputs := make([]*Output, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := w.Persist(Document{SourcePath: filepath.Join(dir, "sheet.pdf"), Record: sampleRecord()})
			assert.NoError(t, err)
			outputs[i] = out
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, out := range outputs {
		require.NotNil(t, out)
		assert.False(t, seen[out.JSONPath], "duplicate output %s", out.JSONPath)
		seen[out.JSONPath] = true
	}
	assert.Equal(t, n, strings.Count(echo.String(), EchoStart))
	assert.Equal(t, n, strings.Count(echo.String(), EchoEnd))
}

func TestWriter_NilRecordWritesEmptyObject(t *testing.T) {
	out, err := NewWriter(nil, WithClock(fixedClock())).Persist(Document{
		SourcePath: filepath.Join(t.TempDir(), "blank.pdf"),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out.JSONPath)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestWriter_Errors(t *testing.T) {
	w := NewWriter(nil, WithClock(fixedClock()))

	_, err := w.Persist(Document{})
	assert.Error(t, err)

	_, err = w.Persist(Document{SourcePath: filepath.Join(t.TempDir(), "missing", "sheet.pdf")})
	assert.Error(t, err)
}

func TestMarshalRecord(t *testing.T) {
	data, err := MarshalRecord(&specsheet.Record{
		BotanicalName: "Camellia sinensis",
		Microbiological: []specsheet.Microbiological{{
			Salmonella: "Absent & <1",
		}},
	})
	require.NoError(t, err)

	want := `{
    "botanical_name": "Camellia sinensis",
    "microbiological_analysis": [
        {
            "salmonella": "Absent & <1"
        }
    ]
}`
	assert.Equal(t, want, string(data))
}
