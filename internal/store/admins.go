package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/models"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "12345"
)

type AdminInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
	Name     string `json:"name" binding:"required" validate:"required"`
	Role     string `json:"role" binding:"required" validate:"required"`
	Active   *bool  `json:"active"`
}

// EnsureDefaultAdmin seeds the built-in account when no admin exists yet.
// It reports whether an account was created.
func (s *Store) EnsureDefaultAdmin(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	admin := models.AdminUser{
		Username: DefaultAdminUsername,
		Password: DefaultAdminPassword,
		Name:     "Admin Utama",
		Role:     "Super Admin",
		Active:   true,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&admin)
	if res.Error != nil {
		return false, fmt.Errorf("seed admin: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]models.AdminUser, error) {
	var admins []models.AdminUser
	if err := s.db.WithContext(ctx).Order("username asc").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	for i := range admins {
		admins[i].Password = ""
	}
	return admins, nil
}

// SaveAdmin creates or updates an admin account. A new account needs a
// password; on update a blank password keeps the old one.
func (s *Store) SaveAdmin(ctx context.Context, in AdminInput) (models.AdminUser, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.TrimSpace(in.Role)
	if err := s.validate.Struct(in); err != nil {
		return models.AdminUser{}, err
	}

	var saved models.AdminUser
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AdminUser
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("username = ?", in.Username).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if in.Password == "" {
				return ErrPasswordRequired
			}
			saved = models.AdminUser{
				Username: in.Username,
				Password: in.Password,
				Name:     in.Name,
				Role:     in.Role,
				Active:   in.Active == nil || *in.Active,
			}
			if err := tx.Create(&saved).Error; err != nil {
				if isDuplicate(err) {
					return ErrDuplicate
				}
				return fmt.Errorf("create admin: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("read admin: %w", err)
		}

		updates := map[string]interface{}{"name": in.Name, "role": in.Role}
		if in.Password != "" {
			updates["password"] = in.Password
		}
		if in.Active != nil {
			if !*in.Active && existing.Active {
				if err := lastActiveGuard(tx, in.Username); err != nil {
					return err
				}
			}
			updates["active"] = *in.Active
		}
		if err := tx.Model(&models.AdminUser{}).Where("username = ?", in.Username).Updates(updates).Error; err != nil {
			return fmt.Errorf("update admin: %w", err)
		}
		return tx.Where("username = ?", in.Username).Take(&saved).Error
	})
	saved.Password = ""
	return saved, err
}

// DeleteAdmin removes an account unless it is the last active one.
func (s *Store) DeleteAdmin(ctx context.Context, username string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AdminUser
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("username = ?", username).Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		if err != nil {
			return fmt.Errorf("read admin: %w", err)
		}
		if existing.Active {
			if err := lastActiveGuard(tx, username); err != nil {
				return err
			}
		}
		if err := tx.Where("username = ?", username).Delete(&models.AdminUser{}).Error; err != nil {
			return fmt.Errorf("delete admin: %w", err)
		}
		return nil
	})
}

// lastActiveGuard fails when no other active admin than username exists.
func lastActiveGuard(tx *gorm.DB, username string) error {
	var others int64
	err := tx.Model(&models.AdminUser{}).Where("active = ? AND username <> ?", true, username).Count(&others).Error
	if err != nil {
		return fmt.Errorf("count active admins: %w", err)
	}
	if others == 0 {
		return ErrLastAdmin
	}
	return nil
}

// AuthenticateAdmin checks credentials and stamps LastLogin on success.
func (s *Store) AuthenticateAdmin(ctx context.Context, username, password string) (models.AdminUser, error) {
	var admin models.AdminUser
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).Take(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return admin, ErrInvalidCredentials
	}
	if err != nil {
		return admin, fmt.Errorf("get admin: %w", err)
	}
	if !samePassword(admin.Password, password) {
		return models.AdminUser{}, ErrInvalidCredentials
	}
	if !admin.Active {
		return models.AdminUser{}, ErrAdminInactive
	}

	now := s.Now()
	if err := s.db.WithContext(ctx).Model(&models.AdminUser{}).Where("username = ?", admin.Username).Update("last_login", now).Error; err != nil {
		return models.AdminUser{}, fmt.Errorf("stamp last login: %w", err)
	}
	admin.LastLogin = &now
	admin.Password = ""
	return admin, nil
}
