package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pontodigital/pontod/internal/common"
	"github.com/pontodigital/pontod/internal/logging"
	"github.com/pontodigital/pontod/internal/server/auth"
	"github.com/pontodigital/pontod/internal/server/config"
	"github.com/pontodigital/pontod/internal/server/models"
	"github.com/pontodigital/pontod/internal/server/repositories/repomanager"
)

// LoginService verifies employee credentials and mints access tokens.
type LoginService struct {
	db                          *sql.DB
	repos                       repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	logger                      logging.Logger
}

// LoginResult is the successful authentication payload.
type LoginResult struct {
	AccessToken string
	Employee    *models.Employee
}

func NewLoginService(db *sql.DB, repos repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *LoginService {
	return &LoginService{
		db:                          db,
		repos:                       repos,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		logger:                      logger.With("module", "login"),
	}
}

// Login verifies the password against the stored bcrypt hash and returns a
// signed access token. Unknown logins and bad passwords are indistinguishable
// to the caller.
func (s *LoginService) Login(ctx context.Context, companyCode, login, password string) (*LoginResult, error) {
	var missing []string
	if companyCode == "" {
		missing = append(missing, "emp")
	}
	if login == "" {
		missing = append(missing, "login")
	}
	if password == "" {
		missing = append(missing, "senha")
	}
	if len(missing) > 0 {
		return nil, common.NewValidationError(missing...)
	}

	emp, err := s.repos.Employees(s.db).FindByLogin(ctx, companyCode, login)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		s.logger.Error(ctx, "employee lookup", "err", err)
		return nil, common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword(normalizeBcryptHash(emp.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(emp.ID, emp.CompanyCode, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "signing token", "err", err)
		return nil, fmt.Errorf("%w: signing token", common.ErrInternal)
	}

	s.logger.Info(ctx, "employee logged in", "employee", emp.ID, "company", emp.CompanyCode)
	return &LoginResult{AccessToken: token, Employee: emp}, nil
}

// Profile returns the employee joined with location and function names.
func (s *LoginService) Profile(ctx context.Context, employeeID int64) (*models.EmployeeProfile, error) {
	if employeeID == 0 {
		return nil, common.NewValidationError("funcionario_id")
	}
	profile, err := s.repos.Employees(s.db).FindProfile(ctx, employeeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		s.logger.Error(ctx, "profile lookup", "err", err)
		return nil, common.ErrInternal
	}
	return profile, nil
}

// normalizeBcryptHash rewrites the PHP "$2y$" prefix legacy rows carry to the
// "$2b$" variant the Go implementation accepts. The two variants hash
// identically.
func normalizeBcryptHash(hash string) []byte {
	if strings.HasPrefix(hash, "$2y$") {
		return []byte("$2b$" + hash[len("$2y$"):])
	}
	return []byte(hash)
}
