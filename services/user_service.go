package services

import (
	"crypto/subtle"
	"errors"
	"strings"
	"sync"

	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/store"
	"github.com/yeremiapane/beartracks/utils"
	"golang.org/x/crypto/bcrypt"
)

// UnknownUserName labels references to users that no longer exist.
const UnknownUserName = "Unknown"

type UserService struct {
	store store.Store
	mu    *sync.Mutex
}

type SignupInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	GradeLevel string `json:"gradeLevel"`
}

// Signup creates a student or staff account. The role follows the grade
// level; admins are never created here.
func (us *UserService) Signup(in SignupInput) (models.User, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" {
		return models.User{}, validationError("email, password and name are required")
	}
	if !models.Contains(models.GradeLevels, in.GradeLevel) {
		return models.User{}, validationError("unknown grade level %q", in.GradeLevel)
	}

	us.mu.Lock()
	defer us.mu.Unlock()

	users := us.store.GetUsers()
	for _, u := range users {
		if u.Email == in.Email {
			return models.User{}, ErrDuplicateEmail
		}
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	role := models.RoleStudent
	if in.GradeLevel == models.GradeLevelStaff {
		role = models.RoleStaff
	}

	user := models.User{
		ID:         newID(),
		Email:      in.Email,
		Password:   hashed,
		Name:       strings.TrimSpace(in.Name),
		GradeLevel: in.GradeLevel,
		Role:       role,
		CreatedAt:  now(),
	}
	if err := us.store.SaveUsers(append(users, user)); err != nil {
		return models.User{}, err
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	return user, nil
}

// Login returns the user whose email and password both match. Records saved
// by the browser version hold plaintext passwords; those still match and are
// re-hashed on the way through.
func (us *UserService) Login(email, password string) (models.User, error) {
	us.mu.Lock()
	defer us.mu.Unlock()

	users := us.store.GetUsers()
	for i, u := range users {
		if u.Email != email {
			continue
		}
		if isHashed(u.Password) {
			if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
				continue
			}
			return u, nil
		}
		if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
			continue
		}
		if hashed, err := hashPassword(password); err == nil {
			users[i].Password = hashed
			if err := us.store.SaveUsers(users); err != nil {
				utils.ErrorLogger.Printf("Error upgrading password for %s: %v", u.Email, err)
			}
		}
		return users[i], nil
	}
	return models.User{}, ErrInvalidCredentials
}

// EnsureAdmin creates an admin account unless one with email exists. It
// reports whether an account was created.
func (us *UserService) EnsureAdmin(email, password, name string) (models.User, bool, error) {
	if email == "" || password == "" {
		return models.User{}, false, validationError("admin email and password are required")
	}
	if name == "" {
		name = "Admin User"
	}

	us.mu.Lock()
	defer us.mu.Unlock()

	users := us.store.GetUsers()
	for _, u := range users {
		if u.Email == email {
			return u, false, nil
		}
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return models.User{}, false, err
	}
	admin := models.User{
		ID:         newID(),
		Email:      email,
		Password:   hashed,
		Name:       name,
		GradeLevel: models.GradeLevelStaff,
		Role:       models.RoleAdmin,
		CreatedAt:  now(),
	}
	if err := us.store.SaveUsers(append(users, admin)); err != nil {
		return models.User{}, false, err
	}
	utils.InfoLogger.Printf("Admin account created: %s", admin.Email)
	return admin, true, nil
}

func (us *UserService) Get(id string) (models.User, error) {
	for _, u := range us.store.GetUsers() {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (us *UserService) FindByEmail(email string) (models.User, error) {
	for _, u := range us.store.GetUsers() {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (us *UserService) List() []models.User {
	return us.store.GetUsers()
}

// DisplayName returns the user's name or UnknownUserName.
func (us *UserService) DisplayName(id string) string {
	u, err := us.Get(id)
	if err != nil {
		return UnknownUserName
	}
	return u.Name
}

// Delete removes the user only. Items, claims and notifications that
// reference the user are left dangling.
func (us *UserService) Delete(id string) error {
	us.mu.Lock()
	defer us.mu.Unlock()

	users := us.store.GetUsers()
	kept := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return ErrUserNotFound
	}
	if err := us.store.SaveUsers(kept); err != nil {
		return err
	}
	utils.InfoLogger.Printf("User deleted: %s", id)
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", validationError("password is too long")
		}
		return "", err
	}
	return string(hashed), nil
}

func isHashed(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}
