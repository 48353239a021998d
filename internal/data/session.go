package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iWorld-y/memo_dashboard/internal/conf"
	"github.com/iWorld-y/memo_dashboard/internal/domain"
	"github.com/iWorld-y/memo_dashboard/internal/repo"
)

type sessionEntry struct {
	mu      sync.Mutex
	sess    domain.Session
	expires time.Time
}

// sessionRepo 进程内会话存储，令牌为携带会话 ID 的 HS256 JWT
type sessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	key      []byte
	now      func() time.Time
	log      *log.Helper
}

func NewSessionRepo(auth *conf.Auth, logger log.Logger) repo.SessionRepo {
	helper := log.NewHelper(logger)
	key := "default-secret"
	if auth != nil && auth.JwtKey != "" {
		key = auth.JwtKey
	} else {
		helper.Warn("auth.jwt_key is empty, falling back to the default session key")
	}
	return &sessionRepo{
		sessions: make(map[string]*sessionEntry),
		key:      []byte(key),
		now:      time.Now,
		log:      helper,
	}
}

func (r *sessionRepo) Issue(ctx context.Context) (string, domain.Session, error) {
	now := r.now()
	sid := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(domain.SessionTTL)),
	})
	signed, err := token.SignedString(r.key)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("sign session token: %w", err)
	}

	sess := domain.NewSession()
	r.mu.Lock()
	r.pruneLocked(now)
	r.sessions[sid] = &sessionEntry{sess: sess, expires: now.Add(domain.SessionTTL)}
	r.mu.Unlock()

	r.log.WithContext(ctx).Debugf("issued session %s", sid)
	return signed, sess, nil
}

func (r *sessionRepo) Load(ctx context.Context, token string) (domain.Session, bool) {
	entry, ok := r.lookup(token)
	if !ok {
		return domain.Session{}, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.sess, true
}

// Update 持有会话锁执行 fn，同一会话的两次提交不会交错
func (r *sessionRepo) Update(ctx context.Context, token string, fn func(domain.Session) domain.Session) (domain.Session, error) {
	entry, ok := r.lookup(token)
	if !ok {
		return domain.Session{}, fmt.Errorf("session not found")
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.sess = fn(entry.sess)
	return entry.sess, nil
}

func (r *sessionRepo) lookup(token string) (*sessionEntry, bool) {
	sid, err := r.parse(token)
	if err != nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok || r.now().After(entry.expires) {
		return nil, false
	}
	return entry, true
}

func (r *sessionRepo) parse(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("empty token")
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return r.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(r.now))
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", fmt.Errorf("token has no session id")
	}
	return claims.ID, nil
}

func (r *sessionRepo) pruneLocked(now time.Time) {
	for sid, entry := range r.sessions {
		if now.After(entry.expires) {
			delete(r.sessions, sid)
		}
	}
}
