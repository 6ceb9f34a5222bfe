package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"bookstore/internal/models"
	"bookstore/internal/store"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Identity is the explicit claims object handlers pass into services after
// resolving a session token. Nothing in the service layer reads ambient
// session state.
type Identity struct {
	ID       int64
	Role     string
	Username string
}

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUser      = errors.New("username or email already registered")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService struct {
	dbStore    *store.DBStore
	sessions   *store.SessionStore
	logger     *log.Logger
	bcryptCost int
}

func NewAuthService(logger *log.Logger, db *store.DBStore, sessions *store.SessionStore, bcryptCost int) *AuthService {
	return &AuthService{
		dbStore:    db,
		sessions:   sessions,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

type RegistrationInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shipping_address"`
}

func (in *RegistrationInput) validate() error {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.FirstName) == "" ||
		strings.TrimSpace(in.LastName) == "" {
		return fmt.Errorf("%w: username, first_name and last_name are required", ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	if !emailPattern.MatchString(in.Email) {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, in RegistrationInput) (int64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	customerID, err := s.dbStore.CreateCustomer(ctx, &models.Customer{
		Username:        strings.TrimSpace(in.Username),
		PasswordHash:    string(hash),
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Email:           strings.TrimSpace(in.Email),
		Phone:           in.Phone,
		ShippingAddress: in.ShippingAddress,
	})
	if err != nil {
		if errors.Is(err, store.ErrDBDuplicateField) {
			return 0, ErrDuplicateUser
		}
		s.logger.Printf("Register: %v", err)
		return 0, fmt.Errorf("registration failed: %w", err)
	}
	return customerID, nil
}

type LoginResult struct {
	Session  *store.Session
	Identity Identity
	Profile  any
}

func (s *AuthService) Login(ctx context.Context, username, password, userType string) (*LoginResult, error) {
	if userType == RoleAdmin {
		return s.loginAdmin(ctx, username, password)
	}
	return s.loginCustomer(ctx, username, password)
}

func (s *AuthService) loginCustomer(ctx context.Context, username, password string) (*LoginResult, error) {
	customer, err := s.dbStore.GetCustomerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrDBCustomerNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Printf("Login: %v", err)
		return nil, fmt.Errorf("login failed: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := s.sessions.CreateSession(ctx, customer.CustomerID, RoleCustomer, customer.Username)
	if err != nil {
		s.logger.Printf("Login: %v", err)
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return &LoginResult{
		Session:  session,
		Identity: Identity{ID: customer.CustomerID, Role: RoleCustomer, Username: customer.Username},
		Profile:  customer,
	}, nil
}

func (s *AuthService) loginAdmin(ctx context.Context, username, password string) (*LoginResult, error) {
	admin, err := s.dbStore.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrDBAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Printf("Login: %v", err)
		return nil, fmt.Errorf("login failed: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.dbStore.TouchAdminLastLogin(ctx, admin.AdminID); err != nil {
		s.logger.Printf("Warning: failed to update admin last login: %v", err)
	}

	session, err := s.sessions.CreateSession(ctx, admin.AdminID, RoleAdmin, admin.Username)
	if err != nil {
		s.logger.Printf("Login: %v", err)
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return &LoginResult{
		Session:  session,
		Identity: Identity{ID: admin.AdminID, Role: RoleAdmin, Username: admin.Username},
		Profile:  admin,
	}, nil
}

// Logout clears the customer's cart items before deleting the session, so an
// abandoned login does not leave stale selections behind.
func (s *AuthService) Logout(ctx context.Context, identity Identity, token string) error {
	if identity.Role == RoleCustomer {
		cartID, err := s.dbStore.GetActiveCartID(ctx, identity.ID)
		switch {
		case err == nil:
			if err := s.dbStore.ClearCart(ctx, cartID); err != nil {
				s.logger.Printf("Logout: failed to clear cart for customer %d: %v", identity.ID, err)
			}
		case errors.Is(err, store.ErrDBCartNotFound):
			// nothing to clear
		default:
			s.logger.Printf("Logout: %v", err)
		}
	}

	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		s.logger.Printf("Logout: %v", err)
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}

// Resolve maps a bearer token to an Identity, or ErrNotAuthenticated.
func (s *AuthService) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrNotAuthenticated
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		s.logger.Printf("Resolve session: %v", err)
		return Identity{}, fmt.Errorf("session lookup failed: %w", err)
	}
	if session == nil {
		return Identity{}, ErrNotAuthenticated
	}

	return Identity{ID: session.UserID, Role: session.Role, Username: session.Username}, nil
}
