package csvsource

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/raincast/internal/domain"
)

const processedCSV = `date,tavg,tmin,tmax,prcp,wspd,pres,wdir,tsun
2023-01-01,10.5,7.0,14.1,0.0,12.3,1015.2,240,300
2023-01-02,,6.5,13.0,2.4,15.0,,250,120
2023-01-03,9.0,5.0,12.0,NaN,9.1,1010.0,,60
`

func TestRead(t *testing.T) {
	records, err := Read(strings.NewReader(processedCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 10.5, first.TAvg)
	assert.Equal(t, 1015.2, first.Pres)
	assert.Equal(t, 240.0, first.WDir)
	assert.Equal(t, 300.0, first.Extra["tsun"])

	assert.True(t, math.IsNaN(records[1].TAvg))
	assert.True(t, math.IsNaN(records[1].Pres))
	assert.True(t, math.IsNaN(records[2].Prcp))
	assert.True(t, math.IsNaN(records[2].WDir))
}

func TestRead_MissingColumnStaysMissing(t *testing.T) {
	csv := "date,tavg,prcp,pres\n2023-05-01,20,0,1012\n"

	records, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, math.IsNaN(records[0].WDir))
	assert.Equal(t, 20.0, records[0].TAvg)
}

func TestRead_Headerless(t *testing.T) {
	csv := "2023-05-01,20,15,25,1.2,,180,11,,1012,\n"

	records, err := Read(strings.NewReader(csv), Headerless(
		"date", "tavg", "tmin", "tmax", "prcp", "snow", "wdir", "wspd", "wpgt", "pres", "tsun",
	))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1.2, records[0].Prcp)
	assert.Equal(t, 180.0, records[0].WDir)
	assert.Equal(t, 1012.0, records[0].Pres)
}

func TestRead_Errors(t *testing.T) {
	t.Run("no date column", func(t *testing.T) {
		_, err := Read(strings.NewReader("tavg,prcp\n1,2\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "date")
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := Read(strings.NewReader("date,tavg\nnot-a-date,1\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 1")
	})
}

func TestWriteThenRead(t *testing.T) {
	r := domain.NewWeatherRecord(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	r.TAvg, r.Prcp, r.Pres = 4.5, 0.2, 1001.5

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []domain.WeatherRecord{r}))

	assert.Equal(t,
		"date,tavg,tmin,tmax,prcp,wspd,pres,wdir\n2024-02-29,4.5,,,0.2,,1001.5,\n",
		buf.String())

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteFile(path, []domain.WeatherRecord{r}))

	back, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, r.Date, back[0].Date)
	assert.Equal(t, 4.5, back[0].TAvg)
	assert.True(t, math.IsNaN(back[0].TMin))
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
