package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-ledger-api/internal/models"
	"github.com/noah-isme/school-ledger-api/pkg/cache"
	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
	"github.com/noah-isme/school-ledger-api/pkg/numeral"
	"github.com/noah-isme/school-ledger-api/pkg/storage"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type objectStore interface {
	Upload(ctx context.Context, name string, data []byte) error
	PublicURL(name string) string
}

// StudentRequest is the admission form payload. The date of birth is entered as separate parts.
type StudentRequest struct {
	SLNo              string `json:"sl_no" validate:"max=20"`
	NameBengali       string `json:"name_bengali" validate:"required_without=NameEnglish"`
	NameEnglish       string `json:"name_english"`
	FatherName        string `json:"father_name"`
	FatherOccupation  string `json:"father_occupation"`
	MotherName        string `json:"mother_name"`
	MotherOccupation  string `json:"mother_occupation"`
	PresentAddress    string `json:"present_address"`
	PresentPhone      string `json:"present_phone"`
	PermanentAddress  string `json:"permanent_address"`
	PermanentPhone    string `json:"permanent_phone"`
	DOBDay            string `json:"dob_day" validate:"required"`
	DOBMonth          string `json:"dob_month" validate:"required"`
	DOBYear           string `json:"dob_year" validate:"required"`
	Class             string `json:"class" validate:"required"`
	Section           string `json:"section" validate:"omitempty,oneof=A B C D"`
	Shift             string `json:"shift" validate:"omitempty,oneof=Morning Day"`
	PreviousInstitute string `json:"previous_institute"`
	PreviousAddress   string `json:"previous_address"`
	PreviousClass     string `json:"previous_class"`
	Session           string `json:"session" validate:"required,numeric,len=4"`
}

// StudentService handles admission use-cases.
type StudentService struct {
	repo      studentRepository
	store     objectStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	maxUpload int64
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, store objectStore, cacheSvc *CacheService, maxUpload int64, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUpload <= 0 {
		maxUpload = 2 * 1024 * 1024
	}
	return &StudentService{repo: repo, store: store, cache: cacheSvc, validator: validate, logger: logger, now: time.Now, maxUpload: maxUpload}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return students, pagination, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create admits a new student.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	student, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.invalidateLedger(ctx, student.Class)
	s.logger.Info("student admitted", zap.String("student_id", student.ID), zap.String("class", student.Class))
	return student, nil
}

// Update replaces the editable fields of a student. The photo is kept.
func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) (*models.Student, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	student, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	student.ID = existing.ID
	student.PhotoURL = existing.PhotoURL
	student.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.invalidateLedger(ctx, existing.Class, student.Class)
	return student, nil
}

// Delete permanently removes a student together with their payments and results.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.invalidateLedger(ctx, existing.Class)
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

// UploadPhoto stores a profile photo under a random name and links it to the student.
func (s *StudentService) UploadPhoto(ctx context.Context, id string, data []byte) (*models.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxUpload {
		return nil, appErrors.ErrPayloadTooLarge
	}
	_, ext, ok := storage.DetectImage(data)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "photo must be a JPEG, PNG, WebP or GIF image")
	}
	name := storage.RandomName("photos", "student", "", ext)
	if err := s.store.Upload(ctx, name, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo")
	}
	student.PhotoURL = s.store.PublicURL(name)
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.invalidateLedger(ctx, student.Class)
	return student, nil
}

// invalidateLedger drops cached ledger grids of the given classes so cohort changes show on the next read.
func (s *StudentService) invalidateLedger(ctx context.Context, classes ...string) {
	seen := make(map[string]bool, len(classes))
	for _, class := range classes {
		if class == "" || seen[class] {
			continue
		}
		seen[class] = true
		s.cache.Invalidate(ctx, cache.LedgerClassPattern(class))
	}
}

func (s *StudentService) fromRequest(req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if !contains(models.Classes, req.Class) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown class %q", req.Class))
	}
	dob, err := DateOfBirth(req.DOBDay, req.DOBMonth, req.DOBYear, s.now())
	if err != nil {
		return nil, err
	}
	return &models.Student{
		SLNo:              strings.TrimSpace(req.SLNo),
		NameBengali:       strings.TrimSpace(req.NameBengali),
		NameEnglish:       strings.TrimSpace(req.NameEnglish),
		FatherName:        req.FatherName,
		FatherOccupation:  req.FatherOccupation,
		MotherName:        req.MotherName,
		MotherOccupation:  req.MotherOccupation,
		PresentAddress:    req.PresentAddress,
		PresentPhone:      req.PresentPhone,
		PermanentAddress:  req.PermanentAddress,
		PermanentPhone:    req.PermanentPhone,
		DateOfBirth:       dob,
		Class:             req.Class,
		Section:           req.Section,
		Shift:             req.Shift,
		PreviousInstitute: req.PreviousInstitute,
		PreviousAddress:   req.PreviousAddress,
		PreviousClass:     req.PreviousClass,
		Session:           req.Session,
	}, nil
}

// DateOfBirth validates the entered parts, which may use Bengali digits, and renders YYYY-MM-DD. Day must be 1-31, month 1-12 and
// year between 1900 and the current year.
func DateOfBirth(day, month, year string, now time.Time) (string, error) {
	d, errD := strconv.Atoi(strings.TrimSpace(numeral.ToArabic(day)))
	m, errM := strconv.Atoi(strings.TrimSpace(numeral.ToArabic(month)))
	y, errY := strconv.Atoi(strings.TrimSpace(numeral.ToArabic(year)))
	if errD != nil || errM != nil || errY != nil ||
		d < 1 || d > 31 || m < 1 || m > 12 || y < 1900 || y > now.Year() {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid date of birth (day 1-31, month 1-12, year 1900-current)")
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
