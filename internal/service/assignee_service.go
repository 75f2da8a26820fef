package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/access-request-service/internal/domain"
	"github.com/spec-kit/access-request-service/internal/repository"
	apperrors "github.com/spec-kit/access-request-service/pkg/util/errorutil"
)

const assigneeCacheTTL = time.Minute

// AssigneeService computes the eligible reviewer pool for a scope. The pool
// is derived on read and cached briefly; it is never persisted.
type AssigneeService struct {
	users  repository.UserRepository
	cache  *redis.Client
	logger *zap.Logger
}

// NewAssigneeService constructs the service. The cache client is optional;
// without it every call hits the identity store.
func NewAssigneeService(users repository.UserRepository, cache *redis.Client, logger *zap.Logger) *AssigneeService {
	return &AssigneeService{users: users, cache: cache, logger: logger}
}

// Assignee is the cache/transport shape of an eligible reviewer.
type Assignee struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  domain.UserRole `json:"role"`
}

// ResolveAssignees returns eligible reviewers for the requester in the given
// org scope. Result order is unspecified.
func (s *AssigneeService) ResolveAssignees(ctx context.Context, requester *domain.User, orgID string) ([]Assignee, error) {
	if orgID == "" {
		orgID = domain.DefaultOrgID
	}

	key := fmt.Sprintf("assignees:%s:%s", orgID, requester.ID)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	users, err := s.users.FindAssignees(ctx, requester.ID, orgID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := make([]Assignee, 0, len(users))
	for _, u := range users {
		result = append(result, Assignee{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	s.toCache(ctx, key, result)
	return result, nil
}

func (s *AssigneeService) fromCache(ctx context.Context, key string) ([]Assignee, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var result []Assignee
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	return result, true
}

func (s *AssigneeService) toCache(ctx context.Context, key string, value []Assignee) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, assigneeCacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Debug("assignee cache write failed", zap.Error(err))
	}
}
