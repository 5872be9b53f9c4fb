package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/metrics"
	"github.com/confjudge/api-server/internal/models"
	"github.com/confjudge/api-server/internal/services"
	"github.com/confjudge/api-server/internal/store/memory"
)

const testSecret = "test-secret"

func newTestRouter() (*memory.Store, *memory.ObjectStorage, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mem := memory.New()
	files := memory.NewObjectStorage("http://localhost:8080/files")
	svcs := services.NewServices(mem.Stores(), files, auth.NewJWTService(testSecret))

	r := gin.New()
	RegisterRoutes(r, svcs, testSecret, metrics.NewManager(), nil)
	return mem, files, r
}

func tokenFor(t *testing.T, userID uuid.UUID, role models.Role) string {
	t.Helper()
	token, _, err := auth.NewJWTService(testSecret).GenerateToken(auth.Claims{
		UserID: userID,
		Role:   string(role),
	})
	require.NoError(t, err)
	return token
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLoginEndpoints(t *testing.T) {
	_, _, r := newTestRouter()

	w := doJSON(r, "POST", "/api/v1/auth/register", "", gin.H{
		"email":     "dana@conf.test",
		"password":  "secret123",
		"full_name": "Dana Levi",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/api/v1/auth/login", "", gin.H{
		"email":    "dana@conf.test",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string      `json:"token"`
		Role  models.Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleStudent, resp.Role)
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	_, _, r := newTestRouter()

	w := doJSON(r, "POST", "/api/v1/auth/register", "", gin.H{
		"email": "dana@conf.test", "password": "secret123", "full_name": "Dana Levi",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/api/v1/auth/login", "", gin.H{
		"email": "dana@conf.test", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	_, _, r := newTestRouter()
	body := gin.H{"email": "dana@conf.test", "password": "secret123", "full_name": "Dana Levi"}

	require.Equal(t, http.StatusCreated, doJSON(r, "POST", "/api/v1/auth/register", "", body).Code)
	w := doJSON(r, "POST", "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Email already registered")
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	_, _, r := newTestRouter()

	w := doJSON(r, "GET", "/api/v1/judge/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")
}

func TestAssignRoleEndpoint(t *testing.T) {
	mem, _, r := newTestRouter()
	adminID := mem.SeedUser("admin@conf.test", "Admin", models.RoleDepartmentManager)
	targetID := mem.SeedUser("user@conf.test", "User", models.RoleStudent)
	admin := tokenFor(t, adminID, models.RoleDepartmentManager)

	w := doJSON(r, "PUT", "/api/v1/admin/users/"+targetID.String()+"/role", admin, gin.H{"role": "judge"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleJudge, mem.RoleOf(targetID))

	// Invalid role names are rejected.
	w = doJSON(r, "PUT", "/api/v1/admin/users/"+targetID.String()+"/role", admin, gin.H{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid role: superuser")

	// Non-admins get 403.
	student := tokenFor(t, targetID, models.RoleStudent)
	w = doJSON(r, "PUT", "/api/v1/admin/users/"+targetID.String()+"/role", student, gin.H{"role": "judge"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Only admins can assign roles")
}

func TestGetRoleEndpoint_AdminOnly(t *testing.T) {
	mem, _, r := newTestRouter()
	adminID := mem.SeedUser("admin@conf.test", "Admin", models.RoleDepartmentManager)
	judgeID := mem.SeedUser("judge@conf.test", "Judge One", models.RoleJudge)
	admin := tokenFor(t, adminID, models.RoleDepartmentManager)

	w := doJSON(r, "GET", "/api/v1/admin/users/"+judgeID.String()+"/role", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"judge"`)

	// Non-admins cannot look up other users' roles.
	student := tokenFor(t, uuid.New(), models.RoleStudent)
	w = doJSON(r, "GET", "/api/v1/admin/users/"+adminID.String()+"/role", student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Only admins can view roles")
}

func TestExpertiseAreaEndpoints(t *testing.T) {
	mem, _, r := newTestRouter()
	adminID := mem.SeedUser("admin@conf.test", "Admin", models.RoleDepartmentManager)
	admin := tokenFor(t, adminID, models.RoleDepartmentManager)
	conferenceID := uuid.New()
	base := "/api/v1/admin/conferences/" + conferenceID.String() + "/expertise-areas"

	w := doJSON(r, "POST", base, admin, gin.H{"area": "Machine Learning"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "POST", base, admin, gin.H{"area": "Machine Learning"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Expertise area already exists")

	w = doJSON(r, "GET", "/api/v1/conferences/"+conferenceID.String()+"/expertise-areas", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Machine Learning")

	w = doJSON(r, "DELETE", base, admin, gin.H{"area": "Machine Learning"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJudgeProjectEndpoints(t *testing.T) {
	mem, _, r := newTestRouter()
	judgeID := mem.SeedUser("judge@conf.test", "Judge One", models.RoleJudge)
	judge := tokenFor(t, judgeID, models.RoleJudge)
	project := mem.SeedProject(models.Project{TitleEn: "Smart Garden", Room: "101"})
	mem.SeedAssignment(judgeID, project.ID)

	w := doJSON(r, "GET", "/api/v1/judge/projects", judge, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Smart Garden")

	w = doJSON(r, "GET", "/api/v1/judge/projects/"+project.ID.String(), judge, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "101")

	// Students are rejected by the service layer.
	studentID := mem.SeedUser("student@conf.test", "Dana Levi", models.RoleStudent)
	student := tokenFor(t, studentID, models.RoleStudent)
	w = doJSON(r, "GET", "/api/v1/judge/projects", student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEvaluationEndpoints(t *testing.T) {
	mem, _, r := newTestRouter()
	conf := uuid.New()
	judgeID := mem.SeedUser("judge@conf.test", "Judge One", models.RoleJudge)
	judge := tokenFor(t, judgeID, models.RoleJudge)
	project := mem.SeedProject(models.Project{ConferenceID: conf, TitleEn: "Smart Garden"})
	mem.SeedAssignment(judgeID, project.ID)
	crit := mem.SeedCriterion(models.EvaluationCriterion{ConferenceID: conf, NameEn: "Innovation", MaxScore: 10})

	w := doJSON(r, "GET", "/api/v1/conferences/"+conf.String()+"/criteria", judge, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Innovation")

	body := gin.H{
		"scores": gin.H{
			crit.ID.String(): gin.H{"score": 8.5, "max_score": 10, "notes": "solid"},
		},
		"general_notes": "well presented",
	}
	w = doJSON(r, "POST", "/api/v1/judge/projects/"+project.ID.String()+"/evaluation/submit", judge, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_complete":true`)

	w = doJSON(r, "GET", "/api/v1/judge/projects/"+project.ID.String()+"/evaluation", judge, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "well presented")
	assert.Contains(t, w.Body.String(), "8.5")
}

func TestEvaluationEndpoint_MaxScoreOptional(t *testing.T) {
	mem, _, r := newTestRouter()
	conf := uuid.New()
	judgeID := mem.SeedUser("judge@conf.test", "Judge One", models.RoleJudge)
	judge := tokenFor(t, judgeID, models.RoleJudge)
	project := mem.SeedProject(models.Project{ConferenceID: conf, TitleEn: "Smart Garden"})
	mem.SeedAssignment(judgeID, project.ID)
	crit := mem.SeedCriterion(models.EvaluationCriterion{ConferenceID: conf, NameEn: "Innovation", MaxScore: 10})

	// Scores without an explicit max_score validate against the default
	// ceiling of 10.
	body := gin.H{"scores": gin.H{crit.ID.String(): gin.H{"score": 8}}}
	w := doJSON(r, "POST", "/api/v1/judge/projects/"+project.ID.String()+"/evaluation/submit", judge, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_complete":true`)

	body = gin.H{"scores": gin.H{crit.ID.String(): gin.H{"score": 11}}}
	w = doJSON(r, "POST", "/api/v1/judge/projects/"+project.ID.String()+"/evaluation/submit", judge, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Score must be between 0 and 10")
}

func TestEvaluationEndpoint_BadCriterionID(t *testing.T) {
	mem, _, r := newTestRouter()
	judgeID := mem.SeedUser("judge@conf.test", "Judge One", models.RoleJudge)
	judge := tokenFor(t, judgeID, models.RoleJudge)
	project := mem.SeedProject(models.Project{TitleEn: "Smart Garden"})
	mem.SeedAssignment(judgeID, project.ID)

	body := gin.H{"scores": gin.H{"not-a-uuid": gin.H{"score": 5, "max_score": 10}}}
	w := doJSON(r, "POST", "/api/v1/judge/projects/"+project.ID.String()+"/evaluation/submit", judge, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid criterion id")
}

func TestManagerResultsEndpoints(t *testing.T) {
	mem, _, r := newTestRouter()
	conf := uuid.New()
	adminID := mem.SeedUser("manager@conf.test", "Manager", models.RoleDepartmentManager)
	admin := tokenFor(t, adminID, models.RoleDepartmentManager)
	judgeID := mem.SeedUser("judge@conf.test", "Judge One", models.RoleJudge)
	project := mem.SeedProject(models.Project{ConferenceID: conf, TitleEn: "Smart Garden"})
	crit := mem.SeedCriterion(models.EvaluationCriterion{ConferenceID: conf, MaxScore: 10})
	mem.SeedEvaluation(models.Evaluation{
		JudgeID: judgeID, ProjectID: project.ID, IsComplete: true,
		Scores: []models.EvaluationScore{{CriterionID: crit.ID, Score: 9}},
	})

	w := doJSON(r, "GET", "/api/v1/manager/conferences/"+conf.String()+"/summary", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.Contains(t, w.Body.String(), `"complete":1`)

	w = doJSON(r, "GET", "/api/v1/manager/conferences/"+conf.String()+"/rankings", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"average_score":9`)

	// Judges cannot read manager views.
	judge := tokenFor(t, judgeID, models.RoleJudge)
	w = doJSON(r, "GET", "/api/v1/manager/conferences/"+conf.String()+"/summary", judge, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExportEndpoint_CSVDownload(t *testing.T) {
	mem, _, r := newTestRouter()
	conf := uuid.New()
	adminID := mem.SeedUser("manager@conf.test", "Manager", models.RoleDepartmentManager)
	admin := tokenFor(t, adminID, models.RoleDepartmentManager)
	mem.SeedProject(models.Project{ConferenceID: conf, TitleEn: "Smart Garden", Room: "101"})

	w := doJSON(r, "GET", "/api/v1/manager/conferences/"+conf.String()+"/export?format=csv", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "conference_report.csv")
	assert.Contains(t, w.Body.String(), "rank,title_en,title_he,room,team_members,evaluation_count,average_score")
	assert.Contains(t, w.Body.String(), "Smart Garden")
}

func TestExportEndpoint_UnsupportedFormat(t *testing.T) {
	mem, _, r := newTestRouter()
	adminID := mem.SeedUser("manager@conf.test", "Manager", models.RoleDepartmentManager)
	admin := tokenFor(t, adminID, models.RoleDepartmentManager)

	w := doJSON(r, "GET", "/api/v1/manager/conferences/"+uuid.New().String()+"/export?format=xml", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unsupported format: xml")
}

func multipartUpload(t *testing.T, fieldName, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldName, fileName))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestUploadEndpoint(t *testing.T) {
	mem, files, r := newTestRouter()
	studentID := mem.SeedUser("student@conf.test", "Dana Levi", models.RoleStudent)
	student := tokenFor(t, studentID, models.RoleStudent)
	project := mem.SeedProject(models.Project{TitleEn: "Smart Garden", TeamMembers: []string{"Dana Levi"}})

	body, contentType := multipartUpload(t, "file", "deck.pdf", "application/pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest("POST", "/api/v1/student/projects/"+project.ID.String()+"/presentation", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+student)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	wantPath := fmt.Sprintf("presentations/%s/deck.pdf", project.ID)
	assert.Contains(t, w.Body.String(), wantPath)
	_, ok := files.File(wantPath)
	assert.True(t, ok)

	// And delete it again.
	w2 := doJSON(r, "DELETE", "/api/v1/student/projects/"+project.ID.String()+"/presentation", student, nil)
	assert.Equal(t, http.StatusOK, w2.Code)
	_, ok = files.File(wantPath)
	assert.False(t, ok)
}

func TestUploadEndpoint_MissingFile(t *testing.T) {
	mem, _, r := newTestRouter()
	studentID := mem.SeedUser("student@conf.test", "Dana Levi", models.RoleStudent)
	student := tokenFor(t, studentID, models.RoleStudent)
	project := mem.SeedProject(models.Project{TeamMembers: []string{"Dana Levi"}})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest("POST", "/api/v1/student/projects/"+project.ID.String()+"/presentation", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+student)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file provided")
}

func TestStudentGradeEndpoints(t *testing.T) {
	mem, _, r := newTestRouter()
	conf := uuid.New()
	studentID := mem.SeedUser("student@conf.test", "Dana Levi", models.RoleStudent)
	student := tokenFor(t, studentID, models.RoleStudent)
	judgeID := mem.SeedUser("judge@conf.test", "Judge One", models.RoleJudge)
	project := mem.SeedProject(models.Project{ConferenceID: conf, TitleEn: "Smart Garden", TeamMembers: []string{"Dana Levi"}})
	crit := mem.SeedCriterion(models.EvaluationCriterion{ConferenceID: conf, NameEn: "Innovation", MaxScore: 10})
	mem.SeedEvaluation(models.Evaluation{
		JudgeID: judgeID, ProjectID: project.ID, IsComplete: true,
		Scores: []models.EvaluationScore{{CriterionID: crit.ID, Score: 8.5}},
	})

	w := doJSON(r, "GET", "/api/v1/student/projects/"+project.ID.String()+"/grade", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"has_grade":true`)
	assert.Contains(t, w.Body.String(), "8.5")

	w = doJSON(r, "GET", "/api/v1/student/grades", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Smart Garden")

	w = doJSON(r, "GET", "/api/v1/student/projects/"+project.ID.String()+"/scores", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Innovation")
}

func TestHealthEndpoint(t *testing.T) {
	_, _, r := newTestRouter()

	w := doJSON(r, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestMetricsEndpoint(t *testing.T) {
	_, _, r := newTestRouter()

	// Drive one request through the middleware first.
	doJSON(r, "GET", "/health", "", nil)

	w := doJSON(r, "GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "confjudge_http_requests_total")
}
