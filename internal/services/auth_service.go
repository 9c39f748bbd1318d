package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/powersave-cy/powersave-backend/internal/config"
	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/repositories"
	"github.com/powersave-cy/powersave-backend/pkg/municipality"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// ErrInvalidCredentials is returned for a bad email/password pair. Kept
// deliberately vague so the API does not reveal which part was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken is returned when registering with an existing email.
var ErrEmailTaken = errors.New("email already registered")

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles registration and login
type AuthServiceImpl struct {
	userRepo     repositories.UserRepository
	accountRepo  repositories.AccountRepository
	municipality *municipality.Client
	jwtCfg       config.JWTConfig
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(
	userRepo repositories.UserRepository,
	accountRepo repositories.AccountRepository,
	municipalityClient *municipality.Client,
	jwtCfg config.JWTConfig,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		accountRepo:  accountRepo,
		municipality: municipalityClient,
		jwtCfg:       jwtCfg,
	}
}

// Register creates a user and their zeroed wallet account. A property
// number, when supplied, is verified against the municipal cadastre and
// its registered annual fee overrides the one in the request.
func (s *AuthServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, err
	}

	annualFee := req.AnnualWasteFee
	if req.PropertyNumber != "" {
		property, err := s.municipality.VerifyProperty(req.PropertyNumber, req.Municipality)
		if err != nil {
			return nil, fmt.Errorf("property verification failed: %w", err)
		}
		if property.AnnualWasteFee > 0 {
			annualFee = property.AnnualWasteFee
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:          req.Email,
		Password:       string(hashed),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PropertyNumber: req.PropertyNumber,
		Municipality:   req.Municipality,
		AnnualWasteFee: annualFee,
		MeterAccountID: req.MeterAccountID,
		Role:           "user",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	account := &models.Account{UserID: user.ID}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create wallet account: %w", err)
	}

	slog.Info("user registered", "userId", user.ID.Hex(), "municipality", user.Municipality)
	return user, nil
}

// Login verifies the credentials and issues a signed bearer token
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(s.jwtCfg.ExpiresIn) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.TokenResponse{
		Token:     signed,
		ExpiresIn: s.jwtCfg.ExpiresIn,
		UserID:    user.ID.Hex(),
	}, nil
}
