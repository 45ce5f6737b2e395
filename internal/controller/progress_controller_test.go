package controller

import (
	"bytes"
	"encoding/json"
	"learning_path_backend/internal/config"
	"learning_path_backend/internal/middleware"
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/repository"
	"learning_path_backend/internal/service"
	"learning_path_backend/internal/testutil"
	"learning_path_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "0123456789abcdef0123456789abcdef"

type apiEnv struct {
	router  *gin.Engine
	fixture *testutil.Fixture
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	util.RegisterValidators()

	db := testutil.NewDB(t)
	pathRepo := repository.NewLearningPathRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	resolver := service.NewOwnershipResolver(pathRepo, groupRepo, repository.NewContentAssignmentRepository(db))
	svc := service.NewProgressService(resolver, pathRepo, groupRepo,
		repository.NewProgressRepository(db), repository.NewUserRepository(db), nil)
	pc := NewProgressController(svc)

	router := gin.New()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: jwtSecret}}
	progress := router.Group("/api/progress", middleware.AuthMiddleware(cfg))
	progress.POST("/update-theme", middleware.StrictRoleMiddleware(model.Student), pc.UpdateTheme)
	progress.GET("/my/:learningPathId", middleware.StrictRoleMiddleware(model.Student), pc.GetMyProgress)
	teacher := progress.Group("", middleware.RoleMiddleware(model.Teacher))
	teacher.GET("/group/:groupId/path/:learningPathId/docente", pc.GetGroupProgress)
	teacher.POST("/teacher/set-module-status", pc.SetModuleStatus)

	return &apiEnv{router: router, fixture: testutil.NewFixture(t, db)}
}

func (e *apiEnv) do(t *testing.T, method, path string, user model.User, body interface{}) (*httptest.ResponseRecorder, util.Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	token, err := util.GenerateJWT(user.ID, user.Role, user.Email, jwtSecret, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var resp util.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func TestProgressAPI_StudentFlow(t *testing.T) {
	e := newAPIEnv(t)
	student := e.fixture.AddStudent(t, "Zoe", model.MembershipApproved)
	_, themes := e.fixture.AddModule(t, 1)
	pathID := e.fixture.Path.ID

	rec, resp := e.do(t, http.MethodPost, "/api/progress/update-theme", student, gin.H{
		"learningPathId": pathID, "themeId": themes[0], "status": "Terminado",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	rec, resp = e.do(t, http.MethodPost, "/api/progress/update-theme", student, gin.H{
		"learningPathId": pathID, "themeId": themes[0], "status": "Completado",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Completado", data["path_status"])

	rec, resp = e.do(t, http.MethodPost, "/api/progress/update-theme", student, gin.H{
		"learningPathId": pathID, "themeId": themes[0], "status": "Visto",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "learning path already completed", resp.Message)

	rec, _ = e.do(t, http.MethodGet, "/api/progress/my/abc", student, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = e.do(t, http.MethodGet, "/api/progress/my/9999", student, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProgressAPI_TeacherEndpoints(t *testing.T) {
	e := newAPIEnv(t)
	student := e.fixture.AddStudent(t, "Yago", model.MembershipApproved)
	moduleID, _ := e.fixture.AddModule(t, 2)
	teacher := e.fixture.Teacher

	rec, _ := e.do(t, http.MethodPost, "/api/progress/update-theme", teacher, gin.H{
		"learningPathId": e.fixture.Path.ID, "themeId": 1, "status": "Visto",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := e.do(t, http.MethodPost, "/api/progress/teacher/set-module-status", teacher, gin.H{
		"moduleId": moduleID, "learningPathId": e.fixture.Path.ID, "groupId": e.fixture.Group.ID, "status": "Completado",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := resp.Data.(map[string]interface{})
	assert.EqualValues(t, 1, result["updated"])

	rec, resp = e.do(t, http.MethodGet, "/api/progress/group/"+itoa(e.fixture.Group.ID)+"/path/"+itoa(e.fixture.Path.ID)+"/docente", teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := resp.Data.([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.EqualValues(t, student.ID, row["estudiante_id"])
	assert.EqualValues(t, 100, row["percentage"])

	rec, _ = e.do(t, http.MethodGet, "/api/progress/group/1/path/1/docente", student, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
