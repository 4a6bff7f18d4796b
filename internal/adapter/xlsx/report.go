// Package xlsx writes assessments to a spreadsheet report, one row per
// station and sampling date, with category cells filled in their palette color.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/width"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

// Fixed column headers.
const (
	HeaderStation          = "点位名称"
	HeaderSampledAt        = "监测日期"
	HeaderOverall          = "总体类别"
	HeaderLon              = "经度"
	HeaderLat              = "纬度"
	HeaderFactorsIV        = "四类因子"
	HeaderFactorsV         = "五类因子"
	HeaderFactorsInferiorV = "劣五类因子"

	categorySuffix = "类别"
	factorSep      = "，"
)

// DefaultSheet is used when Options.Sheet is empty.
const DefaultSheet = "水质评价"

// Options controls the report layout and coloring.
type Options struct {
	Sheet      string
	Palette    domain.Palette
	Categories *domain.CategoryNormalizer

	// IncludeCategories adds a "<label>类别" column after every recognized metric.
	IncludeCategories bool
	// IncludeLocation adds longitude and latitude columns when known.
	IncludeLocation bool
}

func (o Options) withDefaults() Options {
	if o.Sheet == "" {
		o.Sheet = DefaultSheet
	}
	if o.Palette == nil {
		o.Palette = domain.DefaultPalette()
	}
	if o.Categories == nil {
		o.Categories = domain.NewCategoryNormalizer(nil)
	}
	return o
}

// Report is a workbook that assessments are appended to. Columns missing
// from an existing sheet are inserted at the position they would have in a
// fresh report; columns the report does not know about are left in place.
type Report struct {
	f       *excelize.File
	opts    Options
	headers []string
	nextRow int
	styles  map[string]int
	header  int
}

// NewReport creates an empty workbook.
func NewReport(opts Options) (*Report, error) {
	f := excelize.NewFile()
	if sheet := opts.withDefaults().Sheet; sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, fmt.Errorf("name sheet %s: %w", sheet, err)
		}
	}
	return newReport(f, opts)
}

// OpenReport opens the workbook at path for appending, or creates a new one
// if the file does not exist.
func OpenReport(path string, opts Options) (*Report, error) {
	f, err := excelize.OpenFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewReport(opts)
	}
	if err != nil {
		return nil, fmt.Errorf("open report %s: %w", path, err)
	}
	return newReport(f, opts)
}

func newReport(f *excelize.File, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	r := &Report{f: f, opts: opts, styles: make(map[string]int)}

	idx, err := f.GetSheetIndex(opts.Sheet)
	if err != nil {
		return nil, fmt.Errorf("find sheet %s: %w", opts.Sheet, err)
	}
	if idx < 0 {
		if idx, err = f.NewSheet(opts.Sheet); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", opts.Sheet, err)
		}
	}
	f.SetActiveSheet(idx)

	rows, err := f.GetRows(opts.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", opts.Sheet, err)
	}
	if len(rows) > 0 {
		for _, h := range rows[0] {
			r.headers = append(r.headers, strings.TrimSpace(h))
		}
	}
	r.nextRow = len(rows) + 1
	if r.nextRow < 2 {
		r.nextRow = 2
	}

	r.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	return r, nil
}

// Len returns the number of data rows in the sheet.
func (r *Report) Len() int { return r.nextRow - 2 }

// Headers returns the current header row.
func (r *Report) Headers() []string {
	return append([]string(nil), r.headers...)
}

// Append writes a as the next row.
func (r *Report) Append(a domain.Assessment) error {
	cols, values := r.rowData(a)
	if err := r.ensureHeaders(cols); err != nil {
		return err
	}

	for i, h := range cols {
		col := r.columnOf(h)
		cell, err := excelize.CoordinatesToCellName(col, r.nextRow)
		if err != nil {
			return err
		}
		if err := r.f.SetCellValue(r.opts.Sheet, cell, values[i]); err != nil {
			return fmt.Errorf("write %s: %w", cell, err)
		}
		if strings.HasSuffix(h, categorySuffix) {
			if err := r.fill(cell, h, fmt.Sprint(values[i])); err != nil {
				return err
			}
		}
	}
	r.nextRow++
	return nil
}

// AppendAll writes every assessment in order.
func (r *Report) AppendAll(assessments []domain.Assessment) error {
	for _, a := range assessments {
		if err := r.Append(a); err != nil {
			return fmt.Errorf("append %s %s: %w", a.Station, a.SampledAt, err)
		}
	}
	return nil
}

// rowData returns the columns of a in report order and their cell values.
// Readings are written as numbers when they parse cleanly and as the original
// text otherwise, so qualifiers such as "<0.05" survive.
func (r *Report) rowData(a domain.Assessment) ([]string, []any) {
	var cols []string
	var values []any
	seen := make(map[string]bool)
	add := func(h string, v any) {
		if h == "" || seen[h] {
			return
		}
		seen[h] = true
		cols = append(cols, h)
		values = append(values, v)
	}

	add(HeaderStation, a.Station)
	add(HeaderSampledAt, a.SampledAt)
	for _, res := range a.Results {
		label := strings.TrimSpace(res.Label)
		if res.Raw == "" || label == HeaderStation || label == HeaderSampledAt {
			continue
		}
		add(label, cellValue(res.Raw))
		if r.opts.IncludeCategories && res.Metric != "" && res.Category != "" {
			add(label+categorySuffix, string(res.Category))
		}
	}
	if r.opts.IncludeCategories && a.Overall != "" {
		add(HeaderOverall, string(a.Overall))
	}
	if r.opts.IncludeLocation && a.Location != nil && (a.Location.Lon != 0 || a.Location.Lat != 0) {
		add(HeaderLon, a.Location.Lon)
		add(HeaderLat, a.Location.Lat)
	}
	add(HeaderFactorsIV, strings.Join(a.FactorsIV, factorSep))
	add(HeaderFactorsV, strings.Join(a.FactorsV, factorSep))
	add(HeaderFactorsInferiorV, strings.Join(a.FactorsInferiorV, factorSep))
	return cols, values
}

func cellValue(raw string) any {
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return v
	}
	return raw
}

// ensureHeaders inserts every missing header at its position in want,
// shifting existing columns right.
func (r *Report) ensureHeaders(want []string) error {
	for i, h := range want {
		if r.columnOf(h) > 0 {
			continue
		}
		pos := i
		if pos > len(r.headers) {
			pos = len(r.headers)
		}
		name, err := excelize.ColumnNumberToName(pos + 1)
		if err != nil {
			return err
		}
		if pos < len(r.headers) {
			if err := r.f.InsertCols(r.opts.Sheet, name, 1); err != nil {
				return fmt.Errorf("insert column %s: %w", h, err)
			}
		}
		cell := name + "1"
		if err := r.f.SetCellValue(r.opts.Sheet, cell, h); err != nil {
			return fmt.Errorf("write header %s: %w", h, err)
		}
		if err := r.f.SetCellStyle(r.opts.Sheet, cell, cell, r.header); err != nil {
			return fmt.Errorf("style header %s: %w", h, err)
		}
		r.headers = append(r.headers[:pos], append([]string{h}, r.headers[pos:]...)...)
	}
	return nil
}

// columnOf returns the 1-based column of header h, or 0.
func (r *Report) columnOf(h string) int {
	for i, x := range r.headers {
		if x == h {
			return i + 1
		}
	}
	return 0
}

// fill colors a category cell by its normalized category, then its raw text,
// then the metric named by the header. Cells matching none stay unfilled.
func (r *Report) fill(cell, header, text string) error {
	color := r.colorFor(header, text)
	if color == "" {
		return nil
	}
	id, ok := r.styles[color]
	if !ok {
		var err error
		id, err = r.f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("create fill %s: %w", color, err)
		}
		r.styles[color] = id
	}
	return r.f.SetCellStyle(r.opts.Sheet, cell, cell, id)
}

func (r *Report) colorFor(header, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if c := r.opts.Categories.Normalize(text); c != "" {
		if color, ok := r.opts.Palette[string(c)]; ok {
			return color
		}
	}
	if color, ok := r.opts.Palette[text]; ok {
		return color
	}
	metric := strings.TrimSuffix(header, categorySuffix)
	if id, ok := domain.RecognizeMetric(metric); ok {
		metric = string(id)
	}
	return r.opts.Palette[metric]
}

// autoWidth sizes each column to its widest cell, counting East Asian wide
// characters as two.
func (r *Report) autoWidth() error {
	rows, err := r.f.GetRows(r.opts.Sheet)
	if err != nil {
		return err
	}
	widths := make([]int, len(r.headers))
	for _, row := range rows {
		for i, v := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := displayWidth(v); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i, w := range widths {
		if w == 0 {
			continue
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := r.f.SetColWidth(r.opts.Sheet, name, name, float64(w+2)); err != nil {
			return err
		}
	}
	return nil
}

func displayWidth(s string) int {
	n := 0
	for _, c := range s {
		switch width.LookupRune(c).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// Write sizes the columns and writes the workbook to w.
func (r *Report) Write(w io.Writer) error {
	if err := r.autoWidth(); err != nil {
		return fmt.Errorf("size columns: %w", err)
	}
	if err := r.f.Write(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Save sizes the columns and writes the workbook to path.
func (r *Report) Save(path string) error {
	if err := r.autoWidth(); err != nil {
		return fmt.Errorf("size columns: %w", err)
	}
	if err := r.f.SaveAs(path); err != nil {
		return fmt.Errorf("save report %s: %w", path, err)
	}
	return nil
}

// Close releases the workbook.
func (r *Report) Close() error {
	return r.f.Close()
}

// SaveReport appends assessments to the workbook at path, creating it if needed.
func SaveReport(path string, assessments []domain.Assessment, opts Options) error {
	r, err := OpenReport(path, opts)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := r.AppendAll(assessments); err != nil {
		return err
	}
	return r.Save(path)
}

