package stationcsv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

const sampleCSV = `#名称,经度,纬度,水体类型,点位分组
朱家尖水库,122.39,29.91,湖库,普陀
1.甬江大桥（左岸）,121.60,29.95,河流,江北
东港闸,  121.8 , 29.8 ,,
,0,0,,
`

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.csv")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoad_UTF8(t *testing.T) {
	dir, err := Load(writeTemp(t, []byte(sampleCSV)))
	require.NoError(t, err)

	assert.Equal(t, 3, dir.Len())

	info, ok := dir.LookupStation("朱家尖水库")
	require.True(t, ok)
	assert.Equal(t, domain.StationInfo{Name: "朱家尖水库", Lon: 122.39, Lat: 29.91, WaterType: domain.WaterLake, Group: "普陀"}, info)

	info, ok = dir.LookupStation("甬江大桥")
	require.True(t, ok, "serial number and qualifier are ignored")
	assert.Equal(t, "1.甬江大桥(左岸)", info.Name)
	assert.Equal(t, domain.WaterRiver, info.WaterType)

	info, ok = dir.LookupStation("东港闸")
	require.True(t, ok)
	assert.Equal(t, 121.8, info.Lon)
	assert.Equal(t, domain.WaterUnspecified, info.WaterType)
}

func TestLoad_UTF8WithBOM(t *testing.T) {
	data := append([]byte("\xef\xbb\xbf"), []byte(sampleCSV)...)
	dir, err := Load(writeTemp(t, data))
	require.NoError(t, err)
	assert.Equal(t, 3, dir.Len())
}

func TestLoad_GBK(t *testing.T) {
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(sampleCSV)
	require.NoError(t, err)

	dir, err := Load(writeTemp(t, []byte(encoded)))
	require.NoError(t, err)

	info, ok := dir.LookupStation("朱家尖水库")
	require.True(t, ok)
	assert.Equal(t, "普陀", info.Group)
}

func TestParse_EnglishHeaders(t *testing.T) {
	csv := "Station,Longitude,Latitude,Type,Group\nLake A,1.5,2.5,lake,north\n"
	dir, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)

	info, ok := dir.LookupStation("lake a")
	require.True(t, ok)
	assert.Equal(t, domain.StationInfo{Name: "Lake A", Lon: 1.5, Lat: 2.5, WaterType: domain.WaterLake, Group: "north"}, info)
}

func TestParse_NoNameColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("经度,纬度\n1,2\n"))
	require.ErrorIs(t, err, ErrNoNameColumn)

	_, err = Parse(strings.NewReader(""))
	require.ErrorIs(t, err, ErrNoNameColumn)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read station csv")
}

func TestLookupStation_Partial(t *testing.T) {
	csv := "名称\n朱家尖水库\n东港闸\n东港桥\n"
	dir, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)

	_, ok := dir.LookupStation("朱家尖水库库心监测点")
	assert.True(t, ok, "query contains a unique station")

	_, ok = dir.LookupStation("朱家尖")
	assert.True(t, ok, "unique station contains query")

	_, ok = dir.LookupStation("东港")
	assert.False(t, ok, "ambiguous partial match")

	_, ok = dir.LookupStation("")
	assert.False(t, ok)
}

func TestDirectory_Derived(t *testing.T) {
	dir, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"朱家尖水库"}, dir.LakeStations())
	assert.Equal(t, []string{"普陀", "江北"}, dir.GroupNames())

	groups := dir.Groups()
	assert.Equal(t, []string{"东港闸"}, groups[""])

	stations := dir.Stations()
	require.Len(t, stations, 3)
	assert.Equal(t, "朱家尖水库", stations[0].Name)

	var _ domain.StationDirectory = dir
}
