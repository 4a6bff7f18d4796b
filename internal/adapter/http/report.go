package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/IceRain5491/WaterQualityClassifier/internal/adapter/xlsx"
	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxReportObservations bounds the rows of one generated report.
const maxReportObservations = 5000

type reportRequest struct {
	Observations      []domain.RawObservation `json:"observations"`
	IncludeCategories *bool                   `json:"include_categories"`
	IncludeLocation   bool                    `json:"include_location"`
}

// handleReport serves POST /v1/report: the observations are evaluated and
// returned as a colored workbook.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Observations) == 0 {
		writeError(w, http.StatusBadRequest, "no observations")
		return
	}
	if len(req.Observations) > maxReportObservations {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d observations per report", maxReportObservations))
		return
	}

	opts := xlsx.Options{
		Palette:           s.display.Palette,
		Categories:        s.display.Categories,
		IncludeCategories: req.IncludeCategories == nil || *req.IncludeCategories,
		IncludeLocation:   req.IncludeLocation,
	}
	report, err := xlsx.NewReport(opts)
	if err != nil {
		s.internalError(w, r, "create report", err)
		return
	}
	defer report.Close()

	for _, obs := range req.Observations {
		obs = domain.EnrichWithStation(obs, s.stations, s.logger)
		if err := report.Append(domain.EvaluateObservation(s.classifier, obs)); err != nil {
			s.internalError(w, r, "append report row", err)
			return
		}
	}

	var buf bytes.Buffer
	if err := report.Write(&buf); err != nil {
		s.internalError(w, r, "write report", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="water-quality.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // best-effort response
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.Error(msg, "request_id", RequestID(r.Context()), "error", err)
	writeError(w, http.StatusInternalServerError, msg)
}
