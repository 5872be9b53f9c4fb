package services

import (
	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/models"
	"github.com/confjudge/api-server/internal/store"
)

// Services contains all application services
type Services struct {
	Auth          AuthService
	Roles         RoleAssignmentService
	Expertise     ExpertiseAreaService
	Presentations PresentationViewService
	Evaluations   EvaluationService
	Results       EvaluationResultsService
	Reports       ReportExportService
	Uploads       FileUploadService
	Grades        StudentGradeService
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Login(email, password string) (*models.LoginResponse, error)
	Register(req *models.RegisterRequest) (*models.User, error)
}

// RoleAssignmentService defines the interface for role management.
// Assigning replaces any role the target user already holds.
type RoleAssignmentService interface {
	AssignRole(caller auth.Caller, userID uuid.UUID, role string) (models.Role, error)
	GetRole(caller auth.Caller, userID uuid.UUID) (models.Role, error)
}

// ExpertiseAreaService defines the interface for managing the expertise
// tag vocabulary of a conference and the tags picked for each judge.
type ExpertiseAreaService interface {
	AddConferenceArea(caller auth.Caller, conferenceID uuid.UUID, area string) ([]string, error)
	RemoveConferenceArea(caller auth.Caller, conferenceID uuid.UUID, area string) ([]string, error)
	GetConferenceAreas(conferenceID uuid.UUID) ([]string, error)
	AssignJudgeExpertise(caller auth.Caller, judgeID uuid.UUID, areas []string) error
}

// PresentationViewService defines the judge-side read interface over
// assigned projects.
type PresentationViewService interface {
	GetAssignedProjects(caller auth.Caller) ([]models.Project, error)
	GetPresentationURL(caller auth.Caller, projectID uuid.UUID) (*string, error)
	GetProjectDetails(caller auth.Caller, projectID uuid.UUID) (*models.Project, error)
}

// ScoreInput is one criterion score as submitted by a judge. MaxScore
// is the criterion ceiling the score is validated against; when it is
// omitted the ceiling defaults to 10.
type ScoreInput struct {
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
	Notes    string  `json:"notes"`
}

// EvaluationService defines the interface for judge evaluation writes.
// Drafts and submissions share upsert semantics; submission marks the
// evaluation complete.
type EvaluationService interface {
	GetCriteria(conferenceID uuid.UUID) ([]models.EvaluationCriterion, error)
	SaveDraft(caller auth.Caller, projectID uuid.UUID, scores map[uuid.UUID]ScoreInput, generalNotes string) (uuid.UUID, error)
	SubmitEvaluation(caller auth.Caller, projectID uuid.UUID, scores map[uuid.UUID]ScoreInput, generalNotes string) (uuid.UUID, error)
	GetEvaluation(caller auth.Caller, projectID uuid.UUID) (*models.Evaluation, error)
}

// EvaluationSummary aggregates completion counts for a conference.
type EvaluationSummary struct {
	Total                int     `json:"total"`
	Complete             int     `json:"complete"`
	Pending              int     `json:"pending"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// ProjectAverage is one ranked row of the manager results view. Only
// complete evaluations contribute.
type ProjectAverage struct {
	ProjectID       uuid.UUID `json:"project_id"`
	TitleEn         string    `json:"title_en"`
	TitleHe         string    `json:"title_he"`
	AverageScore    float64   `json:"average_score"`
	EvaluationCount int       `json:"evaluation_count"`
}

// JudgeStatus counts a judge's complete and pending evaluations.
type JudgeStatus struct {
	Complete int `json:"complete"`
	Pending  int `json:"pending"`
}

// EvaluationResultsService defines the manager-side read interface over
// evaluation data.
type EvaluationResultsService interface {
	GetAllEvaluations(caller auth.Caller, conferenceID uuid.UUID) ([]models.Evaluation, error)
	GetProjectEvaluations(caller auth.Caller, projectID uuid.UUID) ([]models.Evaluation, error)
	GetSummary(caller auth.Caller, conferenceID uuid.UUID) (*EvaluationSummary, error)
	GetProjectAverageScores(caller auth.Caller, conferenceID uuid.UUID) ([]ProjectAverage, error)
	GetJudgeStatus(caller auth.Caller, conferenceID uuid.UUID) (map[uuid.UUID]JudgeStatus, error)
}

// ReportRow is one exported report line. Rank is assigned after sorting
// by average score descending.
type ReportRow struct {
	Rank            int     `json:"rank"`
	TitleEn         string  `json:"title_en"`
	TitleHe         string  `json:"title_he"`
	Room            string  `json:"room"`
	TeamMembers     string  `json:"team_members"`
	EvaluationCount int     `json:"evaluation_count"`
	AverageScore    float64 `json:"average_score"`
}

// PDFMetadata describes a generated PDF report.
type PDFMetadata struct {
	Format    string `json:"format"`
	RowCount  int    `json:"row_count"`
	Generated bool   `json:"generated"`
}

// ExportResult wraps either a CSV payload or PDF metadata depending on
// the requested format.
type ExportResult struct {
	Format string       `json:"format"`
	CSV    string       `json:"csv,omitempty"`
	PDF    *PDFMetadata `json:"pdf,omitempty"`
}

// ReportExportService defines the manager-side report export interface.
type ReportExportService interface {
	GetReportData(caller auth.Caller, conferenceID uuid.UUID) ([]ReportRow, error)
	ExportCSV(caller auth.Caller, conferenceID uuid.UUID) (string, error)
	ExportPDF(caller auth.Caller, conferenceID uuid.UUID) (*PDFMetadata, error)
	Export(caller auth.Caller, conferenceID uuid.UUID, format string) (*ExportResult, error)
}

// FileUpload carries an uploaded file through validation and storage.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// UploadResult is returned after a successful presentation upload.
type UploadResult struct {
	FilePath  string `json:"file_path"`
	PublicURL string `json:"public_url"`
}

// FileUploadService defines the student-side presentation file
// interface. Team membership is checked by profile full name.
type FileUploadService interface {
	UploadPresentation(caller auth.Caller, projectID uuid.UUID, file *FileUpload) (*UploadResult, error)
	DeletePresentation(caller auth.Caller, projectID uuid.UUID) error
	GetStudentProjects(caller auth.Caller) ([]models.Project, error)
}

// ProjectGrade is the student-facing grade view of one project.
// AverageScore is nil until at least one evaluation is complete.
type ProjectGrade struct {
	ProjectID       uuid.UUID `json:"project_id"`
	TitleEn         string    `json:"title_en"`
	TitleHe         string    `json:"title_he"`
	HasGrade        bool      `json:"has_grade"`
	AverageScore    *float64  `json:"average_score"`
	EvaluationCount int       `json:"evaluation_count"`
	Message         string    `json:"message,omitempty"`
}

// CriterionScore is the per-criterion average in the detailed student
// breakdown. AverageScore is nil when no scores exist for the
// criterion.
type CriterionScore struct {
	NameEn          string   `json:"name_en"`
	NameHe          string   `json:"name_he"`
	MaxScore        float64  `json:"max_score"`
	Weight          float64  `json:"weight"`
	AverageScore    *float64 `json:"average_score"`
	EvaluationCount int      `json:"evaluation_count"`
}

// StudentGradeService defines the student-side grade read interface.
type StudentGradeService interface {
	GetStudentProjects(caller auth.Caller) ([]models.Project, error)
	GetProjectGrade(caller auth.Caller, projectID uuid.UUID) (*ProjectGrade, error)
	GetAllGrades(caller auth.Caller) ([]ProjectGrade, error)
	GetDetailedScores(caller auth.Caller, projectID uuid.UUID) (map[uuid.UUID]CriterionScore, error)
}

// NewServices creates a new Services instance with all dependencies
func NewServices(st *store.Store, files store.ObjectStorage, jwt *auth.JWTService) *Services {
	return &Services{
		Auth:          newAuthService(st, jwt),
		Roles:         newRoleAssignmentService(st),
		Expertise:     newExpertiseAreaService(st),
		Presentations: newPresentationViewService(st),
		Evaluations:   newEvaluationService(st),
		Results:       newEvaluationResultsService(st),
		Reports:       newReportExportService(st),
		Uploads:       newFileUploadService(st, files),
		Grades:        newStudentGradeService(st),
	}
}
