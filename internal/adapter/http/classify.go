package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

const maxRequestBody = 1 << 20

type boundariesResponse struct {
	Metric     domain.MetricID `json:"metric"`
	Name       string          `json:"name"`
	WaterType  string          `json:"water_type"`
	Boundaries any             `json:"boundaries"`
}

// handleBoundaries serves GET /v1/boundaries?metric=TP&water_type=湖库&visual=true.
// metric may be any header the metric identifier recognizes.
func (s *Server) handleBoundaries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric, ok := domain.RecognizeMetric(q.Get("metric"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown metric "+strconv.Quote(q.Get("metric")))
		return
	}
	water := domain.ParseWaterBodyType(q.Get("water_type"))
	if water == domain.WaterUnspecified {
		water = s.classifier.DefaultWaterType()
	}

	resp := boundariesResponse{Metric: metric, Name: metric.DisplayName(), WaterType: water.String()}
	if visual, _ := strconv.ParseBool(q.Get("visual")); visual {
		resp.Boundaries = domain.VisualBoundaries(metric, water, s.display.Palette)
	} else {
		resp.Boundaries = domain.Boundaries(metric, water)
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

type standardsRow struct {
	Name      string            `json:"name"`
	Metric    domain.MetricID   `json:"metric"`
	WaterType string            `json:"water_type"`
	Cells     map[string]string `json:"cells"`
}

func (s *Server) handleStandards(w http.ResponseWriter, _ *http.Request) {
	table := domain.StandardsTable()
	rows := make([]standardsRow, len(table))
	for i, row := range table {
		cells := make(map[string]string, len(row.Cells))
		for j, c := range domain.Categories {
			cells[string(c)] = row.Cells[j]
		}
		rows[i] = standardsRow{Name: row.Name, Metric: row.Metric, WaterType: row.WaterType.String(), Cells: cells}
	}
	sharedobs.WriteJSON(w, http.StatusOK, rows)
}

type classifyRequest struct {
	Label     string              `json:"label"`
	Value     domain.ReadingValue `json:"value"`
	WaterType string              `json:"water_type"`
	Station   string              `json:"station"`
}

type classifyResponse struct {
	Label      string          `json:"label"`
	Metric     domain.MetricID `json:"metric,omitempty"`
	Recognized bool            `json:"recognized"`
	Value      *float64        `json:"value,omitempty"`
	Category   domain.Category `json:"category"`
	WaterType  string          `json:"water_type,omitempty"`
	Color      string          `json:"color,omitempty"`
}

// handleClassify serves POST /v1/classify. Unrecognized labels and unusable
// values are not errors; they yield an empty category.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp := classifyResponse{Label: domain.Normalize(req.Label)}
	metric, ok := domain.RecognizeMetric(req.Label)
	if !ok {
		sharedobs.WriteJSON(w, http.StatusOK, resp)
		return
	}
	resp.Metric = metric
	resp.Recognized = true

	explicit := domain.ParseWaterBodyType(req.WaterType)
	if metric == domain.MetricTotalPhosphorus {
		resp.WaterType = s.classifier.ResolveWaterType(req.Station, explicit).String()
	}
	if v, ok := domain.CoerceReading(string(req.Value)); ok {
		resp.Value = &v
		resp.Category = s.classifier.ClassifyValue(metric, v, explicit, req.Station)
	}
	if resp.Category != "" {
		resp.Color = s.display.Palette.Color(string(resp.Category), string(metric))
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

type overallRequest struct {
	Categories []string `json:"categories"`
}

type overallResponse struct {
	Overall    domain.Category   `json:"overall"`
	Normalized []domain.Category `json:"normalized"`
}

// handleOverall serves POST /v1/overall using the configured synonym table.
func (s *Server) handleOverall(w http.ResponseWriter, r *http.Request) {
	var req overallRequest
	if !decodeBody(w, r, &req) {
		return
	}

	normalized := make([]domain.Category, len(req.Categories))
	canonical := make([]string, len(req.Categories))
	for i, raw := range req.Categories {
		normalized[i] = s.display.Categories.Normalize(raw)
		canonical[i] = string(normalized[i])
	}
	sharedobs.WriteJSON(w, http.StatusOK, overallResponse{
		Overall:    domain.OverallCategory(canonical),
		Normalized: normalized,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
