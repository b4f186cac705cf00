package users

import (
	"context"
	"fmt"
	"strings"

	"news-dashboard/internal/domain"
)

// Service manages registration and profile interests.
type Service struct {
	repo domain.UserRepo
}

// NewService creates the user service.
func NewService(repo domain.UserRepo) *Service {
	return &Service{repo: repo}
}

// Register creates or refreshes a profile. An empty email registers the
// shared guest profile.
func (s *Service) Register(ctx context.Context, email string) (domain.UserProfile, error) {
	return s.repo.UpsertByEmail(ctx, email)
}

// SetInterests replaces the profile's topic interests. Topics must come from
// the canonical list.
func (s *Service) SetInterests(ctx context.Context, email string, interests []string) error {
	normalized := make([]string, 0, len(interests))
	for _, interest := range interests {
		topic, ok := canonicalTopic(interest)
		if !ok {
			return fmt.Errorf("unknown topic %q", interest)
		}
		normalized = append(normalized, topic)
	}
	return s.repo.SetInterests(ctx, email, normalized)
}

// Get returns the stored profile.
func (s *Service) Get(ctx context.Context, email string) (domain.UserProfile, error) {
	return s.repo.GetByEmail(ctx, email)
}

func canonicalTopic(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, topic := range domain.Topics {
		if strings.EqualFold(topic, trimmed) {
			return topic, true
		}
	}
	return "", false
}
