// Package stationcsv loads station mapping CSV files exported from the
// monitoring network's station list. Files may be UTF-8 (with or without a
// BOM) or GBK, the encoding spreadsheet tools use on Chinese Windows.
package stationcsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

// Header spellings accepted for each column, compared after Normalize and
// lowercasing with any leading "#" removed.
var columnCandidates = map[string][]string{
	"name":  {"名称", "name", "站名", "站点", "点位", "点位名称", "site", "station"},
	"lon":   {"经度", "lon", "lng", "longitude"},
	"lat":   {"纬度", "lat", "latitude"},
	"water": {"水体类型", "type", "water_type"},
	"group": {"点位分组", "分组", "group"},
}

// ErrNoNameColumn is returned when no header names the station column.
var ErrNoNameColumn = errors.New("station csv: no station name column")

// Directory is an in-memory station mapping. It implements
// domain.StationDirectory and is safe for concurrent reads.
type Directory struct {
	stations map[string]domain.StationInfo // keyed by NormalizeStationName
	order    []string
}

// Load reads and parses the CSV file at path.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station csv: %w", err)
	}
	dir, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dir, nil
}

// Parse reads a station mapping from r. Rows without a name are skipped; a
// later row for the same station replaces an earlier one.
func Parse(r io.Reader) (*Directory, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read station csv: %w", err)
	}
	text, err := decode(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoNameColumn
		}
		return nil, fmt.Errorf("parse station csv header: %w", err)
	}
	cols := mapColumns(header)
	if _, ok := cols["name"]; !ok {
		return nil, ErrNoNameColumn
	}

	d := &Directory{stations: make(map[string]domain.StationInfo)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse station csv: %w", err)
		}
		d.add(stationFromRecord(record, cols))
	}
	return d, nil
}

// decode returns raw as UTF-8 text, converting from GBK when raw is not valid
// UTF-8.
func decode(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decode station csv as gbk: %w", err)
	}
	return string(decoded), nil
}

func headerKey(s string) string {
	return strings.ToLower(strings.TrimLeft(domain.Normalize(s), "#"))
}

// mapColumns returns the record index of every recognized column. The first
// candidate that appears wins.
func mapColumns(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[headerKey(h)]; !dup {
			index[headerKey(h)] = i
		}
	}
	cols := make(map[string]int, len(columnCandidates))
	for field, candidates := range columnCandidates {
		for _, c := range candidates {
			if i, ok := index[c]; ok {
				cols[field] = i
				break
			}
		}
	}
	return cols
}

func stationFromRecord(record []string, cols map[string]int) domain.StationInfo {
	get := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(record) {
			return ""
		}
		return domain.Normalize(record[i])
	}
	return domain.StationInfo{
		Name:      get("name"),
		Lon:       parseCoordinate(get("lon")),
		Lat:       parseCoordinate(get("lat")),
		WaterType: domain.ParseWaterBodyType(get("water")),
		Group:     get("group"),
	}
}

// parseCoordinate returns 0 for blank or malformed cells.
func parseCoordinate(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func (d *Directory) add(info domain.StationInfo) {
	key := domain.NormalizeStationName(info.Name)
	if key == "" {
		return
	}
	if _, exists := d.stations[key]; !exists {
		d.order = append(d.order, key)
	}
	d.stations[key] = info
}

// LookupStation finds name by its normalized key. When there is no exact
// entry, a single station whose key contains name (or is contained in it) is
// accepted; ambiguous partial matches are rejected.
func (d *Directory) LookupStation(name string) (domain.StationInfo, bool) {
	key := domain.NormalizeStationName(name)
	if key == "" {
		return domain.StationInfo{}, false
	}
	if info, ok := d.stations[key]; ok {
		return info, true
	}

	var match domain.StationInfo
	found := 0
	for k, info := range d.stations {
		if strings.Contains(k, key) || strings.Contains(key, k) {
			match = info
			found++
		}
	}
	if found != 1 {
		return domain.StationInfo{}, false
	}
	return match, true
}

// Len returns the number of stations.
func (d *Directory) Len() int { return len(d.stations) }

// Stations returns every station in file order.
func (d *Directory) Stations() []domain.StationInfo {
	out := make([]domain.StationInfo, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, d.stations[key])
	}
	return out
}

// LakeStations returns the names of stations marked as lake or reservoir,
// suitable for seeding a domain.StationRegistry.
func (d *Directory) LakeStations() []string {
	var out []string
	for _, info := range d.Stations() {
		if info.WaterType == domain.WaterLake {
			out = append(out, info.Name)
		}
	}
	return out
}

// Groups maps each group to its station names in file order. Stations
// without a group are listed under "".
func (d *Directory) Groups() map[string][]string {
	groups := make(map[string][]string)
	for _, info := range d.Stations() {
		groups[info.Group] = append(groups[info.Group], info.Name)
	}
	return groups
}

// GroupNames returns the non-empty group names sorted.
func (d *Directory) GroupNames() []string {
	var names []string
	for g := range d.Groups() {
		if g != "" {
			names = append(names, g)
		}
	}
	sort.Strings(names)
	return names
}
