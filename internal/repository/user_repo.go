package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ferrosero91/asistencia/internal/model"
)

// UserRepository is the account data-access interface.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	ListProfesores(ctx context.Context) ([]model.User, error)
	ListProfesoresSince(ctx context.Context, since time.Time, limit int) ([]model.User, error)
	CountProfesores(ctx context.Context, activosOnly bool) (int64, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates the GORM-backed UserRepository.
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.User{}).Error
}

func (r *userRepo) ListProfesores(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role = ?", model.RoleProfesor).
		Order("fecha_registro DESC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) ListProfesoresSince(ctx context.Context, since time.Time, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND fecha_registro >= ?", model.RoleProfesor, since).
		Order("fecha_registro DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepo) CountProfesores(ctx context.Context, activosOnly bool) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("role = ?", model.RoleProfesor)
	if activosOnly {
		db = db.Where("activo = ?", true)
	}
	err := db.Count(&count).Error
	return count, err
}
