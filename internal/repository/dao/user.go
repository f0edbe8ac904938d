package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const usersEmailConstraint = "uni_users_email"

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:255;not null;uniqueIndex:uni_users_email"`
	PasswordHash string `gorm:"size:255;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Events   []Event       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Elements []UserElement `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

// Insert relies on the unique index for email; there is no separate
// existence check, so concurrent registrations cannot both succeed.
func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error, usersEmailConstraint) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		return User{}, notFoundAs(result.Error, ErrUserNotFound)
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		return User{}, notFoundAs(result.Error, ErrUserNotFound)
	}

	return user, nil
}

// UpdateProfile changes name and email. An email held by any other user is
// rejected before the write, and the unique index backs that check up.
func (d *UserDAO) UpdateProfile(ctx context.Context, id uint, name, email string) (User, error) {
	var updated User

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row User
		if err := tx.First(&row, id).Error; err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}

		if email != row.Email {
			var taken int64
			if err := tx.Model(&User{}).Where("email = ? AND id <> ?", email, id).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return ErrUserEmailExists
			}
		}

		row.Name = name
		row.Email = email
		row.UpdatedAt = nextUpdatedAt(row.UpdatedAt)

		err := tx.Model(&User{}).Where("id = ?", id).Updates(map[string]any{
			"name":       row.Name,
			"email":      row.Email,
			"updated_at": row.UpdatedAt,
		}).Error
		if err != nil {
			if isUniqueViolation(err, usersEmailConstraint) {
				return ErrUserEmailExists
			}
			return err
		}

		updated = row
		return nil
	})
	if err != nil {
		return User{}, err
	}

	return updated, nil
}

func (d *UserDAO) UpdatePassword(ctx context.Context, id uint, hash string) error {
	result := d.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete removes the user together with every event, layout and custom
// element they own, in one transaction.
func (d *UserDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownedEvents := tx.Model(&Event{}).Select("id").Where("user_id = ?", id)

		if err := tx.Where("event_id IN (?)", ownedEvents).Delete(&Layout{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&UserElement{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return nil
	})
}
