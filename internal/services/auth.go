package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xecuteapp/backend/internal/normalization"
	"github.com/xecuteapp/backend/internal/platform/apierr"
	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/repos"
	"github.com/xecuteapp/backend/internal/requestdata"
	"github.com/xecuteapp/backend/internal/rules"
	"github.com/xecuteapp/backend/internal/types"
	"github.com/xecuteapp/backend/internal/utils"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type AuthService interface {
	RegisterUser(ctx context.Context, input RegisterInput) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (*LoginResult, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	jwtSecret     []byte
	accessTTL     time.Duration
	gameRules     rules.Rules
	userRepo      repos.UserRepo
	userAuthRepo  repos.UserAuthRepo
	statsRepo     repos.CharacterStatsRepo
	avatarService AvatarService
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	jwtSecret string,
	accessTTL time.Duration,
	gameRules rules.Rules,
	userRepo repos.UserRepo,
	userAuthRepo repos.UserAuthRepo,
	statsRepo repos.CharacterStatsRepo,
	avatarService AvatarService,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		jwtSecret:     []byte(jwtSecret),
		accessTTL:     accessTTL,
		gameRules:     gameRules,
		userRepo:      userRepo,
		userAuthRepo:  userAuthRepo,
		statsRepo:     statsRepo,
		avatarService: avatarService,
	}
}

// RegisterUser creates the user row, its credentials, and a zeroed stats row
// in one transaction. The email race against a concurrent registration is
// caught by the unique index and reported the same way as the pre-check.
func (as *authService) RegisterUser(ctx context.Context, input RegisterInput) (*types.User, error) {
	name := normalization.TrimText(input.Name)
	email := normalization.ParseInputString(input.Email)
	if err := utils.ValidateRegistration(name, email, input.Password); err != nil {
		return nil, apierr.New(http.StatusBadRequest, "validation_failed", err)
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apierr.Errorf(http.StatusConflict, "email_taken", "An account with this email already exists")
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:                       uuid.New(),
		Email:                    email,
		Name:                     name,
		DefaultFocusBlockMinutes: as.gameRules.Limits.DefaultFocusMinutes,
	}
	if err := as.avatarService.CreateUserAvatar(user); err != nil {
		as.log.Warn("Avatar generation failed (ignored)", "user_id", user.ID, "error", err)
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			if repos.IsDuplicateKey(err) {
				return apierr.Errorf(http.StatusConflict, "email_taken", "An account with this email already exists")
			}
			return fmt.Errorf("create user: %w", err)
		}
		auth := &types.UserAuth{UserID: user.ID, PasswordHash: hash}
		if _, err := as.userAuthRepo.Create(ctx, tx, []*types.UserAuth{auth}); err != nil {
			return fmt.Errorf("create user auth: %w", err)
		}
		stats := &types.CharacterStats{UserID: user.ID}
		if _, err := as.statsRepo.Create(ctx, tx, []*types.CharacterStats{stats}); err != nil {
			return fmt.Errorf("create character stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	as.log.Info("User registered", "user_id", user.ID, "email", email)
	return user, nil
}

// LoginUser verifies credentials and issues a bearer token. Every failure
// mode returns the same generic 401 so the response never reveals whether
// the email is registered.
func (as *authService) LoginUser(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalization.ParseInputString(email)
	invalid := apierr.Errorf(http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	if email == "" || password == "" {
		return nil, invalid
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, invalid
	}
	user := users[0]

	auths, err := as.userAuthRepo.GetByUserIDs(ctx, nil, []uuid.UUID{user.ID})
	if err != nil {
		return nil, fmt.Errorf("load user auth: %w", err)
	}
	if len(auths) == 0 || !utils.CheckPassword(auths[0].PasswordHash, password) {
		return nil, invalid
	}

	token, err := as.generateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	if err := as.userAuthRepo.StampLastLogin(ctx, nil, user.ID, time.Now().UTC()); err != nil {
		as.log.Warn("Failed to stamp last login (ignored)", "user_id", user.ID, "error", err)
	}

	as.log.Info("User logged in", "user_id", user.ID)
	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(as.accessTTL.Seconds()),
	}, nil
}

// SetContextFromToken validates the bearer token and attaches the caller's
// identity to the context for downstream services.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	invalid := apierr.Errorf(http.StatusUnauthorized, "invalid_token", "Could not validate credentials")

	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return as.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return ctx, invalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return ctx, invalid
	}

	rd := &requestdata.RequestData{TokenString: tokenString, UserID: userID}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) generateAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now().UTC()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecret)
}
