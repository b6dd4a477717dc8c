package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/processhub-backend/internal/data/repos"
	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/apierr"
	"github.com/yungbote/processhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/processhub-backend/internal/platform/dbctx"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

const (
	msgCredentialsRequired = "Username and password are required"
	msgUsernameTaken       = "Username already exists"
	msgInvalidCredentials  = "Invalid username or password"
)

// Session is what the handlers need to set the session cookie.
type Session struct {
	User      *types.User
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, username, password, userAgent string) (*Session, error)
	Login(ctx context.Context, username, password, userAgent string) (*Session, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*types.User, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	SessionTTL() time.Duration
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type authService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	sessionRepo repos.UserSessionRepo
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	sessionRepo repos.UserSessionRepo,
	sessionSecret string,
	sessionTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &authService{
		db:          db,
		log:         serviceLog,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		secret:      []byte(sessionSecret),
		ttl:         sessionTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (as *authService) SessionTTL() time.Duration { return as.ttl }

func (as *authService) Register(ctx context.Context, username, password, userAgent string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apierr.InvalidInput(msgCredentialsRequired)
	}

	exists, err := as.userRepo.UsernameExists(dbctx.Context{Ctx: ctx}, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, apierr.InvalidInput(msgUsernameTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var out *Session
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		user := &types.User{ID: uuid.New(), Username: username, Password: string(hash)}
		if _, err := as.userRepo.Create(dbc, []*types.User{user}); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return apierr.InvalidInput(msgUsernameTaken)
			}
			return fmt.Errorf("create user: %w", err)
		}
		sess, err := as.openSession(dbc, user, userAgent)
		if err != nil {
			return err
		}
		out = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("User registered", "user_id", out.User.ID)
	return out, nil
}

func (as *authService) Login(ctx context.Context, username, password, userAgent string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apierr.InvalidInput(msgCredentialsRequired)
	}

	user, err := as.userRepo.GetByUsername(dbctx.Context{Ctx: ctx}, username)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}

	var out *Session
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if n, err := as.sessionRepo.DeleteExpiredByUserID(dbc, user.ID, as.now()); err != nil {
			return fmt.Errorf("prune sessions: %w", err)
		} else if n > 0 {
			as.log.Debug("Pruned expired sessions", "user_id", user.ID, "count", n)
		}
		sess, err := as.openSession(dbc, user, userAgent)
		if err != nil {
			return err
		}
		out = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.SessionID == uuid.Nil {
		return apierr.Unauthenticated()
	}
	if err := as.sessionRepo.Revoke(dbctx.Context{Ctx: ctx}, rd.SessionID, as.now()); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (as *authService) CurrentUser(ctx context.Context) (*types.User, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthenticated()
	}
	users, err := as.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.Unauthenticated()
	}
	return users[0], nil
}

// SetContextFromToken verifies the token and its backing session row and
// returns ctx carrying the caller's identity.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return as.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return ctx, apierr.Unauthenticated()
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthenticated()
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return ctx, apierr.Unauthenticated()
	}

	sess, err := as.sessionRepo.GetByID(dbctx.Context{Ctx: ctx}, sessionID)
	if err != nil {
		return ctx, fmt.Errorf("load session: %w", err)
	}
	if sess == nil || sess.UserID != userID || !sess.Active(as.now()) {
		return ctx, apierr.Unauthenticated()
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:    userID,
		SessionID: sessionID,
	}), nil
}

func (as *authService) openSession(dbc dbctx.Context, user *types.User, userAgent string) (*Session, error) {
	now := as.now()
	row := &types.UserSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: now.Add(as.ttl),
		UserAgent: truncate(userAgent, 512),
		CreatedAt: now,
	}
	if _, err := as.sessionRepo.Create(dbc, []*types.UserSession{row}); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	claims := sessionClaims{
		SessionID: row.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(row.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &Session{User: user, Token: signed, ExpiresAt: row.ExpiresAt}, nil
}

func invalidCredentials() *apierr.Error {
	return apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, errors.New(msgInvalidCredentials))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
