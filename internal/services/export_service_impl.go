package services

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/apperr"
	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/store"
)

// supportedExportFormats lists the formats Export accepts.
var supportedExportFormats = []string{"csv", "pdf"}

// reportExportService implements ReportExportService
type reportExportService struct {
	store *store.Store
}

func newReportExportService(st *store.Store) ReportExportService {
	return &reportExportService{store: st}
}

// GetReportData builds the ranked report over every project in the
// conference. Unlike the results view, projects without complete
// evaluations are included with a zero average.
func (s *reportExportService) GetReportData(caller auth.Caller, conferenceID uuid.UUID) ([]ReportRow, error) {
	if !caller.Role.IsAdmin() {
		return nil, apperr.Authorization("Only admins can access report data")
	}

	projects, err := s.store.Projects.ListByConference(conferenceID)
	if err != nil {
		return nil, apperr.Internal("failed to load projects", err)
	}

	rows := []ReportRow{}
	for _, project := range projects {
		evaluations, err := s.store.Evaluations.ListCompleteByProject(project.ID)
		if err != nil {
			return nil, apperr.Internal("failed to load evaluations", err)
		}

		rows = append(rows, ReportRow{
			TitleEn:         project.TitleEn,
			TitleHe:         project.TitleHe,
			Room:            project.Room,
			TeamMembers:     strings.Join(project.TeamMembers, ", "),
			EvaluationCount: len(evaluations),
			AverageScore:    round2(flatAverage(evaluations)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AverageScore > rows[j].AverageScore
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// ExportCSV renders the report as CSV text with a header row.
func (s *reportExportService) ExportCSV(caller auth.Caller, conferenceID uuid.UUID) (string, error) {
	if !caller.Role.IsAdmin() {
		return "", apperr.Authorization("Only admins can export reports")
	}

	rows, err := s.GetReportData(caller, conferenceID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", apperr.Validation("No data to export")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"rank", "title_en", "title_he", "room", "team_members", "evaluation_count", "average_score"}
	if err := w.Write(header); err != nil {
		return "", apperr.Internal("failed to write csv", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Rank),
			r.TitleEn,
			r.TitleHe,
			r.Room,
			r.TeamMembers,
			strconv.Itoa(r.EvaluationCount),
			strconv.FormatFloat(r.AverageScore, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return "", apperr.Internal("failed to write csv", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", apperr.Internal("failed to write csv", err)
	}
	return buf.String(), nil
}

// ExportPDF reports metadata about the PDF that would be generated.
// Actual PDF rendering happens client side.
func (s *reportExportService) ExportPDF(caller auth.Caller, conferenceID uuid.UUID) (*PDFMetadata, error) {
	if !caller.Role.IsAdmin() {
		return nil, apperr.Authorization("Only admins can export reports")
	}

	rows, err := s.GetReportData(caller, conferenceID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.Validation("No data to export")
	}

	return &PDFMetadata{Format: "pdf", RowCount: len(rows), Generated: true}, nil
}

// Export dispatches to the requested format after validating it.
func (s *reportExportService) Export(caller auth.Caller, conferenceID uuid.UUID, format string) (*ExportResult, error) {
	if err := validateExportFormat(format); err != nil {
		return nil, err
	}

	switch format {
	case "csv":
		out, err := s.ExportCSV(caller, conferenceID)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Format: "csv", CSV: out}, nil
	case "pdf":
		meta, err := s.ExportPDF(caller, conferenceID)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Format: "pdf", PDF: meta}, nil
	}
	return nil, apperr.Validationf("Unsupported format: %s. Supported: %v", format, supportedExportFormats)
}

func validateExportFormat(format string) error {
	for _, supported := range supportedExportFormats {
		if format == supported {
			return nil
		}
	}
	return apperr.Validationf("Unsupported format: %s. Supported: %v", format, supportedExportFormats)
}
