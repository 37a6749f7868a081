package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openlearn/lms-extension-api/internal/middleware"
	"github.com/openlearn/lms-extension-api/internal/models"
	"github.com/openlearn/lms-extension-api/internal/service"
	"github.com/openlearn/lms-extension-api/pkg/export"
)

type gradeReaderMock struct {
	grade      *models.CourseGrade
	sections   []models.SectionScore
	exportRows []models.GradeExportRow
}

func (m *gradeReaderMock) FindCourseGrade(ctx context.Context, userID, courseID string) (*models.CourseGrade, error) {
	if m.grade == nil {
		return nil, sql.ErrNoRows
	}
	cp := *m.grade
	return &cp, nil
}

func (m *gradeReaderMock) ListSectionScores(ctx context.Context, userID, courseID string) ([]models.SectionScore, error) {
	return m.sections, nil
}

func (m *gradeReaderMock) ExportRows(ctx context.Context, courseID string) ([]models.GradeExportRow, error) {
	return m.exportRows, nil
}

type enrolledFinderMock struct {
	user *models.User
}

func (m *enrolledFinderMock) FindEnrolledByUsername(ctx context.Context, courseID, username string) (*models.User, error) {
	if m.user == nil || m.user.Username != username {
		return nil, sql.ErrNoRows
	}
	cp := *m.user
	return &cp, nil
}

const gradeTestCourse = "course-v1:OrgX+Demo+2024"

func newGradeHandlerFixture(finder *enrolledFinderMock, grades *gradeReaderMock) *GradeHandler {
	courses := &courseReaderMock{courses: map[string]*models.Course{
		gradeTestCourse: {ID: gradeTestCourse, Org: "OrgX", Run: "2024", DisplayName: "Demo"},
	}}
	svc := service.NewGradeService(grades, finder, courses, export.NewCSVExporter(), export.NewPDFExporter(), zap.NewNop())
	return NewGradeHandler(svc)
}

func gradeRequest(t *testing.T, target, courseID, username string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	c.Request = req
	params := gin.Params{{Key: "course_id", Value: courseID}}
	if username != "" {
		params = append(params, gin.Param{Key: "username", Value: username})
	}
	c.Params = params
	return w, c
}

func TestGradeHandlerUserGrade(t *testing.T) {
	finder := &enrolledFinderMock{user: &models.User{ID: "u1", Username: "alice", Email: "alice@example.com", FullName: "Alice A"}}
	grades := &gradeReaderMock{grade: &models.CourseGrade{UserID: "u1", CourseID: gradeTestCourse, Percent: 0.87, LetterGrade: "B", Passed: true}}
	handler := newGradeHandlerFixture(finder, grades)

	w, c := gradeRequest(t, "/grades/"+gradeTestCourse+"/alice", gradeTestCourse, "alice")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Username: "alice"})

	handler.UserGrade(c)
	require.Equal(t, http.StatusOK, w.Code)

	var results []models.UserGradeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, 0.87, results[0].GradeSummary.Percent)
}

func TestGradeHandlerNotEnrolledLegacyBody(t *testing.T) {
	handler := newGradeHandlerFixture(&enrolledFinderMock{}, &gradeReaderMock{})

	w, c := gradeRequest(t, "/grades/"+gradeTestCourse+"/alice", gradeTestCourse, "alice")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Username: "alice"})

	handler.UserGrade(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_request", body["error"])
	assert.Equal(t, "User is not enrolled for the course", body["error_description"])
}

func TestGradeHandlerCrossUserHidden(t *testing.T) {
	handler := newGradeHandlerFixture(&enrolledFinderMock{}, &gradeReaderMock{})

	w, c := gradeRequest(t, "/grades/"+gradeTestCourse+"/bob", gradeTestCourse, "bob")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Username: "alice"})

	handler.UserGrade(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGradeHandlerExportRequiresPrivilege(t *testing.T) {
	handler := newGradeHandlerFixture(&enrolledFinderMock{}, &gradeReaderMock{})

	w, c := gradeRequest(t, "/grade_reports/"+gradeTestCourse, gradeTestCourse, "")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Username: "alice"})

	handler.ExportReport(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestGradeHandlerExportCSVDownload(t *testing.T) {
	grades := &gradeReaderMock{exportRows: []models.GradeExportRow{
		{Username: "alice", Email: "alice@example.com", FullName: "Alice A", Mode: models.ModeVerified, Percent: 0.87, LetterGrade: "B", Passed: true},
	}}
	handler := newGradeHandlerFixture(&enrolledFinderMock{}, grades)

	w, c := gradeRequest(t, "/grade_reports/"+gradeTestCourse+"?format=csv", gradeTestCourse, "")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Username: "admin", IsStaff: true})

	handler.ExportReport(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "grades-2024.csv")
	assert.Contains(t, w.Body.String(), "alice")
}
