package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/school-ledger-api/internal/models"
	"github.com/noah-isme/school-ledger-api/internal/service"
	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
)

type fakeStudentSrv struct {
	lastFilter models.StudentFilter
	lastCreate service.StudentRequest
	photo      []byte
	student    *models.Student
	err        error
}

func (f *fakeStudentSrv) List(_ context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	f.lastFilter = filter
	return []models.Student{{ID: "s-1"}}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, f.err
}

func (f *fakeStudentSrv) Get(_ context.Context, id string) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.student, nil
}

func (f *fakeStudentSrv) Create(_ context.Context, req service.StudentRequest) (*models.Student, error) {
	f.lastCreate = req
	return f.student, f.err
}

func (f *fakeStudentSrv) Update(_ context.Context, _ string, _ service.StudentRequest) (*models.Student, error) {
	return f.student, f.err
}

func (f *fakeStudentSrv) Delete(context.Context, string) error { return f.err }

func (f *fakeStudentSrv) UploadPhoto(_ context.Context, _ string, data []byte) (*models.Student, error) {
	f.photo = data
	return f.student, f.err
}

type fakeAdmissionRenderer struct {
	rendered *models.Student
}

func (f *fakeAdmissionRenderer) AdmissionFormPDF(st *models.Student) ([]byte, error) {
	f.rendered = st
	return []byte("%PDF-admission"), nil
}

func TestStudentHandlerListParsesFilter(t *testing.T) {
	srv := &fakeStudentSrv{}
	h := NewStudentHandler(srv, &fakeAdmissionRenderer{})
	c, rec := newTestContext(http.MethodGet, "/students?class=Five&section=A&session=2025&search=%20rahim%20&page=2&limit=5", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StudentFilter{Search: "rahim", Class: "Five", Section: "A", Session: "2025", Page: 2, PageSize: 5}, srv.lastFilter)
	assert.Contains(t, rec.Body.String(), `"pagination"`)
}

func TestStudentHandlerCreate(t *testing.T) {
	srv := &fakeStudentSrv{student: &models.Student{ID: "s-9"}}
	h := NewStudentHandler(srv, &fakeAdmissionRenderer{})

	c, rec := newTestContext(http.MethodPost, "/students", strings.NewReader("not json"))
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(http.MethodPost, "/students", strings.NewReader(`{"name_bengali":"রহিম","class":"Five","dob_day":"৫"}`))
	h.Create(c)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "৫", srv.lastCreate.DOBDay)
}

func TestStudentHandlerGetNotFound(t *testing.T) {
	h := NewStudentHandler(&fakeStudentSrv{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")}, &fakeAdmissionRenderer{})
	c, rec := newTestContext(http.MethodGet, "/students/x", nil)

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "student not found", env.Error["message"])
}

func TestStudentHandlerUploadPhoto(t *testing.T) {
	srv := &fakeStudentSrv{student: &models.Student{ID: "s-1", PhotoURL: "/files/photo.png"}}
	h := NewStudentHandler(srv, &fakeAdmissionRenderer{})

	c, rec := multipartContext(t, "/students/s-1/photo", "photo", []byte("\x89PNG\r\n\x1a\n"))
	h.UploadPhoto(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), srv.photo)

	c, rec = multipartContext(t, "/students/s-1/photo", "document", []byte("x"))
	h.UploadPhoto(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudentHandlerAdmissionForm(t *testing.T) {
	renderer := &fakeAdmissionRenderer{}
	h := NewStudentHandler(&fakeStudentSrv{student: &models.Student{ID: "s-1", SLNo: "12", Session: "2025"}}, renderer)
	c, rec := newTestContext(http.MethodGet, "/students/s-1/admission.pdf", nil)

	h.AdmissionForm(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="admission-12-2025.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "s-1", renderer.rendered.ID)
}
