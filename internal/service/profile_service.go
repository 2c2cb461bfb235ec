package service

import (
	"context"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// ProfileService provisions and reads per-user profiles.
type ProfileService interface {
	// EnsureProfile returns the user's profile, creating a free-tier one on
	// first sight. Idempotent: repeated calls for the same identity always
	// resolve to the same row.
	EnsureProfile(ctx context.Context, userID, email string) (*model.Profile, error)
	// Overview returns the profile together with the user's current post count.
	Overview(ctx context.Context, userID, email string) (*model.Profile, int, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	postRepo    repository.PostRepository
	logger      zerolog.Logger
}

// NewProfileService creates a new ProfileService with a scoped logger.
func NewProfileService(profileRepo repository.ProfileRepository, postRepo repository.PostRepository, logger zerolog.Logger) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		postRepo:    postRepo,
		logger:      logger.With().Str("service", "ProfileService").Logger(),
	}
}

func (s *profileService) EnsureProfile(ctx context.Context, userID, email string) (*model.Profile, error) {
	profile, err := s.profileRepo.GetProfileByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch profile")
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	if err := s.profileRepo.CreateProfile(ctx, userID, email); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create profile")
		return nil, err
	}
	// Read back rather than returning a constructed row: a concurrent first
	// request may have won the insert, and the conflict clause keeps exactly
	// one row either way.
	profile, err = s.profileRepo.GetProfileByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch profile after insert")
		return nil, err
	}
	return profile, nil
}

func (s *profileService) Overview(ctx context.Context, userID, email string) (*model.Profile, int, error) {
	profile, err := s.EnsureProfile(ctx, userID, email)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.postRepo.CountPostsByOwner(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to count posts")
		return nil, 0, err
	}
	return profile, count, nil
}
