package subtitle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMicroDVDReader_Read(t *testing.T) {
	path := writeTemp(t, "sample.sub", `{1}{1}25.0
{25}{50}Hello there.
{75}{100}Two|lines here.
`)
	reader, err := NewReader(path)
	require.NoError(t, err)

	f, err := reader.Read()
	require.NoError(t, err)
	assert.Equal(t, FormatMicroDVD, f.Format)
	require.Len(t, f.Lines, 2)

	// 25 frames at 25 fps = 1s
	assert.Equal(t, time.Second, f.Lines[0].StartTime)
	assert.Equal(t, 2*time.Second, f.Lines[0].EndTime)
	assert.Equal(t, "Hello there.", f.Lines[0].Text)
	assert.Equal(t, "Two lines here.", f.Lines[1].Text)
}

func TestMicroDVDReader_DefaultFrameRate(t *testing.T) {
	path := writeTemp(t, "sample.sub", "{24}{48}Hi.\n")
	reader, err := NewReader(path)
	require.NoError(t, err)

	f, err := reader.Read()
	require.NoError(t, err)
	require.Len(t, f.Lines, 1)
	assert.InDelta(t, float64(time.Second), float64(f.Lines[0].StartTime), float64(2*time.Millisecond))
}

func TestMicroDVDReader_MalformedLineRejectsWholeFile(t *testing.T) {
	path := writeTemp(t, "bad.sub", "{25}{50}ok\nnot a marker\n")
	reader, err := NewReader(path)
	require.NoError(t, err)

	_, err = reader.Read()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
}

func TestMicroDVDReader_BackwardsRangeRejected(t *testing.T) {
	path := writeTemp(t, "bad.sub", "{50}{25}backwards\n")
	reader, err := NewReader(path)
	require.NoError(t, err)

	_, err = reader.Read()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}
