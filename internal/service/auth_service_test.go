package service

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"storefront-builder-backend/internal/models"
	"storefront-builder-backend/internal/repository"
)

type memoryUserRepository struct {
	users  map[uint]*models.User
	nextID uint
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[uint]*models.User), nextID: 1}
}

func (m *memoryUserRepository) Create(user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *memoryUserRepository) GetByID(id uint) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		out := *user
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryUserRepository) GetByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryUserRepository) ExistsByEmail(email string) (bool, error) {
	_, err := m.GetByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

var _ repository.UserRepository = (*memoryUserRepository)(nil)

type memoryStoreRepository struct {
	stores map[uint]*models.Store
	nextID uint
}

func newMemoryStoreRepository() *memoryStoreRepository {
	return &memoryStoreRepository{stores: make(map[uint]*models.Store), nextID: 1}
}

func (m *memoryStoreRepository) Create(store *models.Store) error {
	store.ID = m.nextID
	m.nextID++
	stored := *store
	m.stores[store.ID] = &stored
	return nil
}

func (m *memoryStoreRepository) Update(store *models.Store) error {
	if _, ok := m.stores[store.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *store
	m.stores[store.ID] = &stored
	return nil
}

func (m *memoryStoreRepository) GetByID(id uint) (*models.Store, error) {
	if store, ok := m.stores[id]; ok {
		out := *store
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryStoreRepository) GetBySlug(slug string) (*models.Store, error) {
	for _, store := range m.stores {
		if store.Slug == slug {
			out := *store
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryStoreRepository) UpdateThemeSettings(id uint, settings models.JSONMap) error {
	store, ok := m.stores[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	store.ThemeSettings = settings
	return nil
}

func (m *memoryStoreRepository) ExistsBySlug(slug string) (bool, error) {
	_, err := m.GetBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

var _ repository.StoreRepository = (*memoryStoreRepository)(nil)

func newTestAuthService() (*AuthService, *memoryUserRepository, *memoryStoreRepository) {
	userRepo := newMemoryUserRepository()
	storeRepo := newMemoryStoreRepository()
	return NewAuthService(userRepo, storeRepo, "test-secret", 24), userRepo, storeRepo
}

func TestAuthServiceRegisterCreatesUserAndStore(t *testing.T) {
	svc, _, _ := newTestAuthService()

	user, store, err := svc.Register(models.RegisterRequest{
		Email:     "owner@example.com",
		Password:  "supersecret",
		Name:      "Owner",
		StoreName: "My Little Shop",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if store.Slug != "my-little-shop" {
		t.Fatalf("unexpected store slug %q", store.Slug)
	}
	if user.StoreID != store.ID {
		t.Fatal("user must be scoped to the created store")
	}
	if user.Password == "supersecret" {
		t.Fatal("password must be stored hashed")
	}
}

func TestAuthServiceRegisterRejectsTakenEmail(t *testing.T) {
	svc, _, storeRepo := newTestAuthService()

	req := models.RegisterRequest{
		Email:     "owner@example.com",
		Password:  "supersecret",
		Name:      "Owner",
		StoreName: "Shop",
	}
	if _, _, err := svc.Register(req); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, _, err := svc.Register(req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(storeRepo.stores) != 1 {
		t.Fatal("rejected registration must not create a store")
	}
}

func TestAuthServiceRegisterUniquifiesStoreSlug(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, first, err := svc.Register(models.RegisterRequest{
		Email: "a@example.com", Password: "supersecret", Name: "A", StoreName: "Shop",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	_, second, err := svc.Register(models.RegisterRequest{
		Email: "b@example.com", Password: "supersecret", Name: "B", StoreName: "Shop",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if first.Slug != "shop" || second.Slug != "shop-2" {
		t.Fatalf("unexpected slugs %q and %q", first.Slug, second.Slug)
	}
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _, _ := newTestAuthService()

	registered, store, err := svc.Register(models.RegisterRequest{
		Email:     "owner@example.com",
		Password:  "supersecret",
		Name:      "Owner",
		StoreName: "Shop",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	token, user, err := svc.Login(models.LoginRequest{Email: "owner@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatal("unexpected user")
	}

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("expected a valid token, got %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	if uint(claims["store_id"].(float64)) != store.ID {
		t.Fatal("token must carry the store id")
	}
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, _, err := svc.Register(models.RegisterRequest{
		Email: "owner@example.com", Password: "supersecret", Name: "Owner", StoreName: "Shop",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, _, err := svc.Login(models.LoginRequest{Email: "owner@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(models.LoginRequest{Email: "ghost@example.com", Password: "supersecret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
