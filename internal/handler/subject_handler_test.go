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

type fakeSubjectSrv struct {
	created service.SubjectRequest
	err     error
}

func (f *fakeSubjectSrv) Catalogue(context.Context) ([]models.Subject, error) {
	return models.DefaultSubjects(), nil
}

func (f *fakeSubjectSrv) Create(_ context.Context, req service.SubjectRequest) (*models.Subject, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Subject{ID: "sub-1", Name: req.Name, TotalMarks: req.TotalMarks}, nil
}

func (f *fakeSubjectSrv) Update(_ context.Context, id string, req service.SubjectRequest) (*models.Subject, error) {
	return &models.Subject{ID: id, Name: req.Name}, f.err
}

func (f *fakeSubjectSrv) Delete(context.Context, string) error { return f.err }

func TestSubjectHandlerList(t *testing.T) {
	h := NewSubjectHandler(&fakeSubjectSrv{})
	c, rec := newTestContext(http.MethodGet, "/subjects", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Drawing")
}

func TestSubjectHandlerCreateConflict(t *testing.T) {
	srv := &fakeSubjectSrv{err: appErrors.Clone(appErrors.ErrConflict, "subject already exists")}
	h := NewSubjectHandler(srv)
	c, rec := newTestContext(http.MethodPost, "/subjects", strings.NewReader(`{"name":"ICT","total_marks":50,"has_mcq":true}`))

	h.Create(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ICT", srv.created.Name)
	assert.True(t, srv.created.HasMCQ)
}

func TestSubjectHandlerDelete(t *testing.T) {
	h := NewSubjectHandler(&fakeSubjectSrv{})
	c, _ := newTestContext(http.MethodDelete, "/subjects/sub-1", nil)
	c.AddParam("id", "sub-1")

	h.Delete(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
}
