package repository

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nelliei/albumsearcher-db/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	AddUser(username, password string, age int, country string) (*models.User, error)
	UpdateUser(userID uint, username, password string, age int, country string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(userID uint) (*models.User, error)
	VerifyPassword(hashedPassword, password string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

// AddUser stores a new user with a bcrypt hash of password. A duplicate username
// surfaces as the driver's unique-constraint error.
func (r *userRepo) AddUser(username, password string, age int, country string) (*models.User, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Password: hashed,
		Age:      age,
		Country:  country,
	}
	if err := r.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return user, nil
}

// UpdateUser overwrites every field except the id. Returns ErrUserNotFound when
// no row has userID.
func (r *userRepo) UpdateUser(userID uint, username, password string, age int, country string) (*models.User, error) {
	user, err := r.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user.Username = username
	user.Password = hashed
	user.Age = age
	user.Country = country
	if err := r.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("update user %d: %w", userID, err)
	}
	return user, nil
}

func (r *userRepo) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}
