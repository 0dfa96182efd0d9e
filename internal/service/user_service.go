package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quietspace/internal/middleware"
	"quietspace/internal/models"
	"quietspace/internal/observability"
	"quietspace/internal/repository"
	"quietspace/internal/storage"
)

type UserService struct {
	userRepo      repository.UserRepository
	blobs         storage.BlobStore
	avatarsBucket string
}

type UpdateProfileInput struct {
	UserID   string
	FullName string
	Bio      string
}

func NewUserService(userRepo repository.UserRepository, blobs storage.BlobStore, avatarsBucket string) *UserService {
	return &UserService{
		userRepo:      userRepo,
		blobs:         blobs,
		avatarsBucket: avatarsBucket,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxNameLen = 120

	if in.FullName != "" {
		if len(in.FullName) > maxNameLen {
			return nil, models.NewValidationError("Name too long (max 120 characters)")
		}
		user.FullName = in.FullName
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UploadAvatar re-encodes the uploaded image as a small JPEG, stores it in the
// avatars bucket, and points the profile at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, content []byte) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	encoded, err := processAvatarImage(content)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatar_%s_%d.jpg", userID, time.Now().UnixMilli())
	url, err := s.blobs.Upload(ctx, s.avatarsBucket, key, "image/jpeg", encoded)
	if err != nil {
		observability.ImageUploads.WithLabelValues("avatar", "error").Inc()
		return nil, models.NewRemoteUnavailableError(err)
	}
	observability.ImageUploads.WithLabelValues("avatar", "ok").Inc()

	oldURL := user.AvatarURL
	user.AvatarURL = url
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Best-effort cleanup of the replaced object.
	if oldKey, ok := storage.KeyFromURL(oldURL, s.avatarsBucket); ok {
		if err := s.blobs.Remove(ctx, s.avatarsBucket, oldKey); err != nil {
			middleware.Logger.Warn("old avatar cleanup failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}
	return user, nil
}
