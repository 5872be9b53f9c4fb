package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confjudge/api-server/internal/apperr"
	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/models"
	"github.com/confjudge/api-server/internal/store/memory"
)

// resultsFixture seeds two projects with evaluations from two judges.
// Project A has complete evaluations averaging 8.25; project B has one
// pending draft and nothing complete.
type resultsFixture struct {
	conf     uuid.UUID
	judgeA   uuid.UUID
	judgeB   uuid.UUID
	projectA models.Project
	projectB models.Project
}

func seedResultsFixture(mem *memory.Store) resultsFixture {
	conf := uuid.New()
	judgeA := mem.SeedUser("judge.a@conf.test", "Judge A", models.RoleJudge)
	judgeB := mem.SeedUser("judge.b@conf.test", "Judge B", models.RoleJudge)
	projectA := mem.SeedProject(models.Project{ConferenceID: conf, TitleEn: "Smart Garden"})
	projectB := mem.SeedProject(models.Project{ConferenceID: conf, TitleEn: "Drone Fleet"})

	crit := mem.SeedCriterion(models.EvaluationCriterion{ConferenceID: conf, NameEn: "Innovation", MaxScore: 10})

	mem.SeedEvaluation(models.Evaluation{
		JudgeID: judgeA, ProjectID: projectA.ID, IsComplete: true,
		Scores: []models.EvaluationScore{{CriterionID: crit.ID, Score: 8}},
	})
	mem.SeedEvaluation(models.Evaluation{
		JudgeID: judgeB, ProjectID: projectA.ID, IsComplete: true,
		Scores: []models.EvaluationScore{{CriterionID: crit.ID, Score: 8.5}},
	})
	mem.SeedEvaluation(models.Evaluation{
		JudgeID: judgeA, ProjectID: projectB.ID, IsComplete: false,
		Scores: []models.EvaluationScore{{CriterionID: crit.ID, Score: 4}},
	})

	return resultsFixture{conf: conf, judgeA: judgeA, judgeB: judgeB, projectA: projectA, projectB: projectB}
}

func adminCaller(mem *memory.Store) (uuid.UUID, auth.Caller) {
	id := mem.SeedUser("manager@conf.test", "Manager", models.RoleDepartmentManager)
	return id, asCaller(id, models.RoleDepartmentManager)
}

func TestGetAllEvaluations(t *testing.T) {
	mem, _, svcs := newTestEnv()
	fx := seedResultsFixture(mem)
	_, admin := adminCaller(mem)

	evaluations, err := svcs.Results.GetAllEvaluations(admin, fx.conf)
	require.NoError(t, err)
	assert.Len(t, evaluations, 3)
}

func TestGetAllEvaluations_EmptyConference(t *testing.T) {
	mem, _, svcs := newTestEnv()
	_, admin := adminCaller(mem)

	evaluations, err := svcs.Results.GetAllEvaluations(admin, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, []models.Evaluation{}, evaluations)
}

func TestGetProjectEvaluations(t *testing.T) {
	mem, _, svcs := newTestEnv()
	fx := seedResultsFixture(mem)
	_, admin := adminCaller(mem)

	evaluations, err := svcs.Results.GetProjectEvaluations(admin, fx.projectA.ID)
	require.NoError(t, err)
	require.Len(t, evaluations, 2)
	for _, e := range evaluations {
		assert.Equal(t, fx.projectA.ID, e.ProjectID)
		assert.NotEmpty(t, e.Scores)
	}
}

func TestGetSummary(t *testing.T) {
	mem, _, svcs := newTestEnv()
	fx := seedResultsFixture(mem)
	_, admin := adminCaller(mem)

	summary, err := svcs.Results.GetSummary(admin, fx.conf)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Complete)
	assert.Equal(t, 1, summary.Pending)
	assert.InDelta(t, 66.67, summary.CompletionPercentage, 0.01)
}

func TestGetSummary_EmptyConference(t *testing.T) {
	mem, _, svcs := newTestEnv()
	_, admin := adminCaller(mem)

	summary, err := svcs.Results.GetSummary(admin, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.CompletionPercentage)
}

func TestGetProjectAverageScores(t *testing.T) {
	mem, _, svcs := newTestEnv()
	fx := seedResultsFixture(mem)
	_, admin := adminCaller(mem)

	rankings, err := svcs.Results.GetProjectAverageScores(admin, fx.conf)
	require.NoError(t, err)

	// Project B has no complete evaluations and is excluded.
	require.Len(t, rankings, 1)
	assert.Equal(t, fx.projectA.ID, rankings[0].ProjectID)
	assert.Equal(t, 8.25, rankings[0].AverageScore)
	assert.Equal(t, 2, rankings[0].EvaluationCount)
}

func TestGetProjectAverageScores_SortedDescending(t *testing.T) {
	mem, _, svcs := newTestEnv()
	conf := uuid.New()
	judge := mem.SeedUser("judge@conf.test", "Judge", models.RoleJudge)
	crit := mem.SeedCriterion(models.EvaluationCriterion{ConferenceID: conf, MaxScore: 10})
	low := mem.SeedProject(models.Project{ConferenceID: conf, TitleEn: "Low"})
	high := mem.SeedProject(models.Project{ConferenceID: conf, TitleEn: "High"})
	mem.SeedEvaluation(models.Evaluation{JudgeID: judge, ProjectID: low.ID, IsComplete: true,
		Scores: []models.EvaluationScore{{CriterionID: crit.ID, Score: 3}}})
	mem.SeedEvaluation(models.Evaluation{JudgeID: judge, ProjectID: high.ID, IsComplete: true,
		Scores: []models.EvaluationScore{{CriterionID: crit.ID, Score: 9}}})
	_, admin := adminCaller(mem)

	rankings, err := svcs.Results.GetProjectAverageScores(admin, conf)
	require.NoError(t, err)
	require.Len(t, rankings, 2)
	assert.Equal(t, "High", rankings[0].TitleEn)
	assert.Equal(t, "Low", rankings[1].TitleEn)
}

func TestGetJudgeStatus(t *testing.T) {
	mem, _, svcs := newTestEnv()
	fx := seedResultsFixture(mem)
	_, admin := adminCaller(mem)

	status, err := svcs.Results.GetJudgeStatus(admin, fx.conf)
	require.NoError(t, err)
	assert.Equal(t, JudgeStatus{Complete: 1, Pending: 1}, status[fx.judgeA])
	assert.Equal(t, JudgeStatus{Complete: 1, Pending: 0}, status[fx.judgeB])
}

func TestResults_NonAdminRejected(t *testing.T) {
	mem, _, svcs := newTestEnv()
	fx := seedResultsFixture(mem)
	judge := asCaller(fx.judgeA, models.RoleJudge)

	_, err := svcs.Results.GetAllEvaluations(judge, fx.conf)
	assert.True(t, apperr.IsAuthorization(err))
	assert.Contains(t, err.Error(), "Only admins can view all evaluation results")

	_, err = svcs.Results.GetProjectEvaluations(judge, fx.projectA.ID)
	assert.True(t, apperr.IsAuthorization(err))
	assert.Contains(t, err.Error(), "Only admins can view project evaluations")

	_, err = svcs.Results.GetSummary(judge, fx.conf)
	assert.True(t, apperr.IsAuthorization(err))
	assert.Contains(t, err.Error(), "Only admins can view evaluation summary")

	_, err = svcs.Results.GetProjectAverageScores(judge, fx.conf)
	assert.True(t, apperr.IsAuthorization(err))
	assert.Contains(t, err.Error(), "Only admins can view average scores")

	_, err = svcs.Results.GetJudgeStatus(judge, fx.conf)
	assert.True(t, apperr.IsAuthorization(err))
	assert.Contains(t, err.Error(), "Only admins can view judge status")
}
