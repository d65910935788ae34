package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type stubResumes struct {
	byID map[uuid.UUID]models.Resume
}

func (s *stubResumes) Create(resume *models.Resume) error {
	s.byID[resume.ID] = *resume
	return nil
}

func (s *stubResumes) FindByID(id uuid.UUID) (*models.Resume, error) {
	r, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("resume %s: %w", id, models.ErrNotFound)
	}
	return &r, nil
}

func newResumeApp(t *testing.T) (*fiber.App, *models.User, string) {
	t.Helper()

	users := &stubUsers{byID: map[uuid.UUID]*models.User{}}
	user := &models.User{ExternalAuthID: "auth|9", Email: "ana@example.com"}
	require.NoError(t, users.Upsert(user))

	dir := t.TempDir()
	storage := services.NewStorageService(dir)
	require.NoError(t, storage.EnsureUploadDir())

	app := fiber.New()
	Handlers{
		Resume: NewResumeHandler(&stubResumes{byID: map[uuid.UUID]models.Resume{}}, users, storage, services.NewResumeParser(), 1<<20),
	}.Register(app)
	return app, user, dir
}

func uploadRequest(t *testing.T, userID, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("user_id", userID))
	if content != nil {
		part, err := w.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/resumes", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestResumeUpload_Text(t *testing.T) {
	app, user, dir := newResumeApp(t)

	resp, err := app.Test(uploadRequest(t, user.ID.String(), "cv.txt", []byte("Go developer with five years of Postgres and Redis.")), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var uploaded models.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploaded))
	require.Equal(t, user.ID.String(), uploaded.UserID)
	require.Equal(t, "cv.txt", uploaded.OriginalName)
	require.Equal(t, services.ContentTypeText, uploaded.ContentType)
	require.Contains(t, uploaded.Content, "Go developer")

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	resp, body := doJSON(t, app, http.MethodGet, "/api/resumes/"+uploaded.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "cv.txt", body["original_name"])
}

func TestResumeUpload_Rejected(t *testing.T) {
	app, user, dir := newResumeApp(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	cases := map[string]struct {
		req  *http.Request
		code int
	}{
		"unsupported type": {uploadRequest(t, user.ID.String(), "cv.pdf", png), http.StatusBadRequest},
		"missing file":     {uploadRequest(t, user.ID.String(), "", nil), http.StatusBadRequest},
		"bad user id":      {uploadRequest(t, "nope", "cv.txt", []byte("text")), http.StatusBadRequest},
		"unknown user":     {uploadRequest(t, uuid.NewString(), "cv.txt", []byte("text")), http.StatusNotFound},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := app.Test(tc.req, -1)
			require.NoError(t, err)
			require.Equal(t, tc.code, resp.StatusCode)
		})
	}

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, files)
}
