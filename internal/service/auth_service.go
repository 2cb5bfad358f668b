package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront-builder-backend/internal/models"
	"storefront-builder-backend/internal/repository"
	"storefront-builder-backend/pkg/validator"
)

type AuthService struct {
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, storeRepo repository.StoreRepository, jwtSecret string, tokenTTLHours int) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		storeRepo: storeRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  time.Duration(tokenTTLHours) * time.Hour,
	}
}

// Register creates the owner account together with its store; every account
// is scoped to exactly one store.
func (s *AuthService) Register(req models.RegisterRequest) (*models.User, *models.Store, error) {
	taken, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	storeName := validator.SanitizeString(req.StoreName)
	slug := validator.NormalizeSlug(storeName)
	for i := 2; ; i++ {
		exists, err := s.storeRepo.ExistsBySlug(slug)
		if err != nil {
			return nil, nil, fmt.Errorf("check store slug: %w", err)
		}
		if !exists {
			break
		}
		slug = fmt.Sprintf("%s-%d", validator.NormalizeSlug(storeName), i)
	}

	store := &models.Store{
		Name:          storeName,
		Slug:          slug,
		ThemeSettings: models.JSONMap{},
	}
	if err := s.storeRepo.Create(store); err != nil {
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	user := &models.User{
		Email:    req.Email,
		Password: string(hashed),
		Name:     validator.SanitizeString(req.Name),
		StoreID:  store.ID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	return user, store, nil
}

func (s *AuthService) Login(req models.LoginRequest) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"store_id": user.StoreID,
		"email":    user.Email,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
