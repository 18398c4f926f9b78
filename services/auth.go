package services

import (
	"context"
	"strings"
	"time"

	"laptopshop-svc/models"
	"laptopshop-svc/store"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// AuthService owns the users collection. Passwords are stored as bcrypt
// hashes; the register/login contract is otherwise unchanged from the
// plaintext original. Sessions are stateless JWTs instead of store flags.
type AuthService struct {
	store     store.Store
	jwtSecret []byte
	logger    *zap.Logger
}

func NewAuthService(s store.Store, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{store: s, jwtSecret: []byte(jwtSecret), logger: logger}
}

// SeedAdmin creates the default admin account when the users collection is
// empty, so a fresh deployment is immediately manageable.
func (svc *AuthService) SeedAdmin(ctx context.Context, name, email, password string) error {
	return withRetry(ctx, func(ctx context.Context) error {
		users, version, err := loadCollection[models.User](ctx, svc.store, store.Users)
		if err != nil {
			return err
		}
		if len(users) > 0 {
			return nil
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		joined := time.Now().UTC()
		admin := models.User{
			ID:         "admin-1",
			Name:       name,
			Email:      email,
			Password:   string(hashed),
			Role:       models.RoleAdmin,
			DateJoined: &joined,
		}

		write, err := collectionWrite(store.Users, []models.User{admin}, version)
		if err != nil {
			return err
		}
		if err := svc.store.Commit(ctx, write); err != nil {
			return err
		}
		svc.logger.Info("Seeded default admin account", zap.String("email", email))
		return nil
	})
}

// Register creates a customer or admin account. At most one admin may exist
// system-wide; that is a business rule, not a technical limit.
func (svc *AuthService) Register(ctx context.Context, name, email, password string, role models.UserRole) (models.PublicUser, error) {
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleAdmin && role != models.RoleCustomer {
		return models.PublicUser{}, ErrInvalidRole
	}
	email = strings.ToLower(strings.TrimSpace(email))

	var created models.User
	err := withRetry(ctx, func(ctx context.Context) error {
		users, version, err := loadCollection[models.User](ctx, svc.store, store.Users)
		if err != nil {
			return err
		}

		for _, u := range users {
			if strings.EqualFold(u.Email, email) {
				return ErrEmailTaken
			}
		}
		if role == models.RoleAdmin {
			for _, u := range users {
				if u.Role == models.RoleAdmin {
					return ErrAdminExists
				}
			}
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		joined := time.Now().UTC()
		created = models.User{
			ID: timeBasedID("user-", func(id string) bool {
				for _, u := range users {
					if u.ID == id {
						return true
					}
				}
				return false
			}),
			Name:       name,
			Email:      email,
			Password:   string(hashed),
			Role:       role,
			DateJoined: &joined,
		}

		write, err := collectionWrite(store.Users, append(users, created), version)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, write)
	})
	if err != nil {
		return models.PublicUser{}, err
	}

	svc.logger.Info("User registered",
		zap.String("user_id", created.ID),
		zap.String("email", created.Email),
		zap.String("role", string(created.Role)),
	)
	return created.Public(), nil
}

// Login verifies credentials and returns the user (password stripped) plus a
// signed session token carrying the role claim.
func (svc *AuthService) Login(ctx context.Context, email, password string) (models.PublicUser, string, error) {
	users, _, err := loadCollection[models.User](ctx, svc.store, store.Users)
	if err != nil {
		return models.PublicUser{}, "", err
	}

	var user models.User
	found := false
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			user = u
			found = true
			break
		}
	}
	if !found {
		return models.PublicUser{}, "", ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.PublicUser{}, "", ErrInvalidPassword
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	tokenString, err := token.SignedString(svc.jwtSecret)
	if err != nil {
		return models.PublicUser{}, "", err
	}

	svc.logger.Info("User logged in", zap.String("email", user.Email))
	return user.Public(), tokenString, nil
}

func (svc *AuthService) GetByID(ctx context.Context, id string) (models.PublicUser, error) {
	users, _, err := loadCollection[models.User](ctx, svc.store, store.Users)
	if err != nil {
		return models.PublicUser{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u.Public(), nil
		}
	}
	return models.PublicUser{}, ErrUserNotFound
}

// UpdateProfile edits name and/or email. Email changes keep the uniqueness
// rule.
func (svc *AuthService) UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) (models.PublicUser, error) {
	var updated models.User
	err := withRetry(ctx, func(ctx context.Context) error {
		users, version, err := loadCollection[models.User](ctx, svc.store, store.Users)
		if err != nil {
			return err
		}

		index := -1
		for i, u := range users {
			if u.ID == id {
				index = i
				break
			}
		}
		if index == -1 {
			return ErrUserNotFound
		}

		if req.Name != nil {
			users[index].Name = *req.Name
		}
		if req.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*req.Email))
			for i, u := range users {
				if i != index && strings.EqualFold(u.Email, email) {
					return ErrEmailTaken
				}
			}
			users[index].Email = email
		}
		updated = users[index]

		write, err := collectionWrite(store.Users, users, version)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, write)
	})
	if err != nil {
		return models.PublicUser{}, err
	}

	svc.logger.Info("Profile updated", zap.String("user_id", id))
	return updated.Public(), nil
}

// ChangePassword verifies the current password before storing a new hash.
func (svc *AuthService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	err := withRetry(ctx, func(ctx context.Context) error {
		users, version, err := loadCollection[models.User](ctx, svc.store, store.Users)
		if err != nil {
			return err
		}

		index := -1
		for i, u := range users {
			if u.ID == id {
				index = i
				break
			}
		}
		if index == -1 {
			return ErrUserNotFound
		}

		if err := bcrypt.CompareHashAndPassword([]byte(users[index].Password), []byte(currentPassword)); err != nil {
			return ErrInvalidPassword
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		users[index].Password = string(hashed)

		write, err := collectionWrite(store.Users, users, version)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, write)
	})
	if err != nil {
		return err
	}

	svc.logger.Info("Password changed", zap.String("user_id", id))
	return nil
}
