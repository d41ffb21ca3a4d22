package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/finpyme/internal/cashflow"
	"github.com/Dan9191/finpyme/internal/config"
	"github.com/Dan9191/finpyme/internal/insights"
	"github.com/Dan9191/finpyme/internal/integrations/rates"
	"github.com/Dan9191/finpyme/internal/models"
	"github.com/Dan9191/finpyme/internal/preferences"
	"github.com/Dan9191/finpyme/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
// password
var ErrInvalidCredentials = errors.New("invalid credentials")

// RateSource exposes the current dollar quotes
type RateSource interface {
	Current() rates.Snapshot
	Refresh(ctx context.Context) rates.Snapshot
}

// InflationSource exposes the latest inflation figure
type InflationSource interface {
	Latest() models.InflationRate
}

// AlertSender delivers high-severity insights out of band
type AlertSender interface {
	SendInsightAlert(to, username string, insights []models.Insight) error
}

// Dependencies wires a Service
type Dependencies struct {
	Repo        *repository.Repository
	Log         *logrus.Logger
	Config      *config.Config
	Rates       RateSource
	Inflation   InflationSource
	Preferences *preferences.Store
	Mailer      AlertSender      // optional
	Now         func() time.Time // optional, defaults to time.Now
}

// Service handles business logic
type Service struct {
	repo      *repository.Repository
	log       *logrus.Logger
	config    *config.Config
	rates     RateSource
	inflation InflationSource
	prefs     *preferences.Store
	mailer    AlertSender
	presets   []models.Scenario
	generator *insights.Generator
	now       func() time.Time
}

// NewService initializes a new service
func NewService(deps Dependencies) (*Service, error) {
	presets, err := cashflow.LoadPresets(deps.Config.ScenarioPresetsPath)
	if err != nil {
		return nil, err
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:      deps.Repo,
		log:       deps.Log,
		config:    deps.Config,
		rates:     deps.Rates,
		inflation: deps.Inflation,
		prefs:     deps.Preferences,
		mailer:    deps.Mailer,
		presets:   presets,
		generator: insights.NewGenerator(deps.Config.DailySpendThreshold),
		now:       now,
	}, nil
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username, email = strings.TrimSpace(username), strings.ToLower(strings.TrimSpace(email))

	var v ValidationError
	if username == "" {
		v.Add("username", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		v.Add("email", "must be a valid address")
	}
	if len(password) < 8 {
		v.Add("password", "must have at least 8 characters")
	}
	if v.HasErrors() {
		return nil, &v
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Invalid("email", "is already registered")
		}
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.repo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	// Generate JWT
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, user, nil
}
