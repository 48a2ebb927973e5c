package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	"storefront/internal/repository"
)

type AuthUsecase struct {
	users  repository.UserRepository
	audit  repository.AuditLogRepository
	hasher PasswordHasher
	issuer AccessTokenIssuer
	idGen  IDGenerator
	clock  Clock
	log    *logger.Logger

	adminEmails map[string]struct{}
}

func NewAuthUsecase(
	users repository.UserRepository,
	audit repository.AuditLogRepository,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	log *logger.Logger,
) *AuthUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUsecase{
		users:  users,
		audit:  audit,
		hasher: hasher,
		issuer: issuer,
		idGen:  idGen,
		clock:  clock,
		log:    log,
	}
}

// 登録時にADMINロールを付けるメールを設定する
func (u *AuthUsecase) WithAdminEmails(emails []string) *AuthUsecase {
	u.adminEmails = make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if n := normalizeEmail(e); n != "" {
			u.adminEmails[n] = struct{}{}
		}
	}
	return u
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type LoginOutput struct {
	User      model.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresIn int        `json:"expiresIn"`
}

type ForceLogoutOutput struct {
	UserID          string `json:"userId"`
	NewTokenVersion int    `json:"newTokenVersion"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid input")
	}
	if len(in.Password) < 8 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		u.log.Error(ctx, "auth: hash password", err)
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	role := model.RoleUser
	if _, ok := u.adminEmails[email]; ok {
		role = model.RoleAdmin
	}

	now := u.clock.Now()
	user := &model.User{
		ID:           u.idGen.NewID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hashed,
		Role:         role,
		TokenVersion: 0,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return model.User{}, NewHTTPError(http.StatusConflict, "email already exists")
		}
		u.log.Error(ctx, "auth: create user", err)
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return *user, nil
}

func (u *AuthUsecase) Login(ctx context.Context, email, password string) (LoginOutput, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		u.log.Error(ctx, "auth: find by email", err)
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//パスワード照合（bcrypt）
	if !u.hasher.Verify(password, user.PasswordHash) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusForbidden, "user is inactive")
	}

	now := u.clock.Now()
	token, exp, err := u.issuer.Issue(user.ID, user.Role, user.TokenVersion, now)
	if err != nil {
		u.log.Error(ctx, "auth: issue token", err)
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	//last_login更新（失敗してもログインは通す）
	user.LastLoginAt = &now
	if err := u.users.Update(ctx, user); err != nil {
		u.log.Warn(ctx, "auth: update last login", err)
	}

	return LoginOutput{
		User:      *user,
		Token:     token,
		ExpiresIn: int(exp.Sub(now).Seconds()),
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID string) (model.User, error) {
	if userID == "" {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		u.log.Error(ctx, "auth: me", err)
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !user.IsActive {
		return model.User{}, NewHTTPError(http.StatusForbidden, "user is inactive")
	}
	return *user, nil
}

// token_versionを上げて、発行済みのtokenを全部無効にする
func (u *AuthUsecase) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.users.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		u.log.Error(ctx, "auth: logout", err)
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AuthUsecase) ForceLogout(ctx context.Context, actorAdminUserID string, targetUserID string) (ForceLogoutOutput, error) {
	if actorAdminUserID == "" {
		return ForceLogoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !isUUID(targetUserID) {
		return ForceLogoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if err := u.users.IncrementTokenVersion(ctx, targetUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ForceLogoutOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		u.log.Error(ctx, "auth: force logout", err)
		return ForceLogoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//更新後を取得してnew_token_versionを返す
	user, err := u.users.FindByID(ctx, targetUserID)
	if err != nil {
		u.log.Error(ctx, "auth: reload user", err)
		return ForceLogoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.audit.Create(ctx, model.AuditLog{
		ActorUserID:  actorAdminUserID,
		Action:       model.AuditActionForceLogout,
		ResourceType: model.AuditResourceUser,
		ResourceID:   targetUserID,
		AfterJSON:    toAuditJSON(map[string]int{"tokenVersion": user.TokenVersion}),
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		u.log.Warn(ctx, "auth: audit force logout", err)
	}

	return ForceLogoutOutput{UserID: user.ID, NewTokenVersion: user.TokenVersion}, nil
}
