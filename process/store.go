package process

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/wak-lab-e-v/jw-db-manager/models"
)

// RegistrationStore is the persistence surface the batch passes need. The
// gorm-backed implementation below is used in production; tests use an
// in-memory fake.
type RegistrationStore interface {
	// PendingSource returns registrations whose source directory is still empty.
	PendingSource() ([]models.Registration, error)
	// WithSource returns registrations whose source directory has been resolved.
	WithSource() ([]models.Registration, error)
	FindByFingerprint(fp string) (*models.Registration, error)
	Create(r *models.Registration) error
	SetSourceDir(id uint, dir string) error
	SetWorkDir(id uint, dir string) error
	AppendNote(id uint, note string) error
}

// GormStore backs RegistrationStore with the registrations table.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

func (s *GormStore) PendingSource() ([]models.Registration, error) {
	var regs []models.Registration
	err := s.DB.Where("source_dir = '' OR source_dir IS NULL").Find(&regs).Error
	return regs, err
}

func (s *GormStore) WithSource() ([]models.Registration, error) {
	var regs []models.Registration
	err := s.DB.Where("source_dir <> ''").Find(&regs).Error
	return regs, err
}

func (s *GormStore) FindByFingerprint(fp string) (*models.Registration, error) {
	var r models.Registration
	err := s.DB.Where("fingerprint = ?", fp).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *GormStore) Create(r *models.Registration) error {
	return s.DB.Create(r).Error
}

func (s *GormStore) SetSourceDir(id uint, dir string) error {
	return s.update(id, "source_dir", dir)
}

func (s *GormStore) SetWorkDir(id uint, dir string) error {
	return s.update(id, "work_dir", dir)
}

// AppendNote adds a warning to the record's note field, keeping whatever is
// already there. A note that is already present is not added twice.
func (s *GormStore) AppendNote(id uint, note string) error {
	var r models.Registration
	if err := s.DB.First(&r, id).Error; err != nil {
		return err
	}
	if strings.Contains(r.Note, note) {
		return nil
	}
	if r.Note != "" {
		note = r.Note + " " + note
	}
	return s.update(id, "note", note)
}

func (s *GormStore) update(id uint, column, value string) error {
	res := s.DB.Model(&models.Registration{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("registration %d not found", id)
	}
	return nil
}
