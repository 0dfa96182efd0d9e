package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"quietspace/internal/cache"
	"quietspace/internal/middleware"
	"quietspace/internal/models"
	"quietspace/internal/observability"
	"quietspace/internal/repository"
	"quietspace/internal/storage"

	"go.opentelemetry.io/otel/attribute"
)

// CommunityService implements the community feed: posts, likes, comments and
// the reconciliation of their denormalized counters.
type CommunityService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	blobs       storage.BlobStore
	postsBucket string
	refresher   *Refresher
}

type CreatePostInput struct {
	UserID    string
	PlaceName string
	Caption   string
	Category  string
	Image     []byte
}

type AddCommentInput struct {
	UserID string
	PostID string
	Text   string
	Rating float32
}

type ListPostsInput struct {
	Limit    int
	Offset   int
	ViewerID string
}

func NewCommunityService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	blobs storage.BlobStore,
	postsBucket string,
	refresher *Refresher,
) *CommunityService {
	return &CommunityService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		blobs:       blobs,
		postsBucket: postsBucket,
		refresher:   refresher,
	}
}

// ListPosts returns the feed newest-first. When a viewer is known, each post's
// Liked flag reflects that viewer; anonymous viewers get Liked=false everywhere.
func (s *CommunityService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	var posts []*models.Post
	var err error

	// The first feed page is shared by every viewer, so it is cached
	// viewer-independent and the Liked flags are layered on afterwards.
	if in.Offset == 0 && in.Limit <= 20 {
		key := cache.PostsListKey(in.Limit, in.Offset)
		err = cache.Aside(ctx, key, &posts, cache.ListTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, in.Limit, in.Offset)
			return fetchErr
		})
	} else {
		posts, err = s.postRepo.List(ctx, in.Limit, in.Offset)
	}
	if err != nil {
		return nil, err
	}

	if in.ViewerID != "" && len(posts) > 0 {
		postIDs := make([]string, len(posts))
		for i, p := range posts {
			postIDs[i] = p.ID
		}

		// Liked enrichment is best-effort: a failed lookup degrades the
		// flags to false rather than failing the whole feed read.
		likedIDs, likedErr := s.postRepo.GetLikedPostIDs(ctx, in.ViewerID, postIDs)
		if likedErr == nil {
			likedMap := make(map[string]bool, len(likedIDs))
			for _, id := range likedIDs {
				likedMap[id] = true
			}
			for _, p := range posts {
				p.Liked = likedMap[p.ID]
			}
		} else {
			middleware.Logger.Warn("liked flag enrichment failed",
				slog.String("user_id", in.ViewerID),
				slog.String("error", likedErr.Error()),
			)
		}
	}

	return posts, nil
}

// GetPost returns a single post with the viewer's Liked flag set.
func (s *CommunityService) GetPost(ctx context.Context, postID, viewerID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if viewerID != "" {
		liked, likedErr := s.postRepo.IsLiked(ctx, viewerID, postID)
		if likedErr == nil {
			post.Liked = liked
		}
	}
	return post, nil
}

// CreatePost processes the uploaded photo, stores it, and creates the post
// with a snapshot of the author's profile.
func (s *CommunityService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.UserID == "" {
		return nil, models.NewUnauthenticatedError("Sign in to share a post")
	}
	if strings.TrimSpace(in.PlaceName) == "" {
		return nil, models.NewValidationError("Place name is required")
	}
	if len(in.PlaceName) > 200 {
		return nil, models.NewValidationError("Place name too long (max 200 characters)")
	}
	if len(in.Caption) > 2000 {
		return nil, models.NewValidationError("Caption too long (max 2000 characters)")
	}
	if !models.ValidCategory(in.Category) {
		return nil, models.NewValidationError("Invalid category")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	processed, err := processPostImage(in.Image)
	if err != nil {
		return nil, err
	}

	millis := time.Now().UnixMilli()
	imageKey := fmt.Sprintf("images/post_%s_%d.jpg", in.UserID, millis)
	imageURL, err := s.blobs.Upload(ctx, s.postsBucket, imageKey, "image/jpeg", processed.JPEG)
	if err != nil {
		observability.ImageUploads.WithLabelValues("post", "error").Inc()
		return nil, models.NewRemoteUnavailableError(err)
	}
	observability.ImageUploads.WithLabelValues("post", "ok").Inc()

	// The thumbnail is an optimization; losing it never fails the post.
	var thumbURL string
	thumbKey := fmt.Sprintf("images/post_%s_%d_thumb.webp", in.UserID, millis)
	if url, thumbErr := s.blobs.Upload(ctx, s.postsBucket, thumbKey, "image/webp", processed.Thumb); thumbErr == nil {
		thumbURL = url
	} else {
		observability.ImageUploads.WithLabelValues("thumb", "error").Inc()
		middleware.Logger.Warn("thumbnail upload failed",
			slog.String("user_id", in.UserID),
			slog.String("error", thumbErr.Error()),
		)
	}

	post := &models.Post{
		UserID:        in.UserID,
		UserName:      displayName(user),
		UserAvatarURL: user.AvatarURL,
		PlaceName:     strings.TrimSpace(in.PlaceName),
		ImageURL:      imageURL,
		ThumbURL:      thumbURL,
		Caption:       in.Caption,
		Category:      in.Category,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.refresher.Schedule(ctx)
	return post, nil
}

// ToggleLike flips the caller's like on a post and returns the post with its
// new state. The stored likes counter is recomputed best-effort afterwards; a
// failed recompute leaves a stale counter for the next reconciliation pass and
// never fails the toggle.
func (s *CommunityService) ToggleLike(ctx context.Context, userID, postID string) (*models.Post, error) {
	if userID == "" {
		return nil, models.NewUnauthenticatedError("Sign in to like posts")
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	isLiked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return nil, err
		}
		observability.LikeToggles.WithLabelValues("unliked").Inc()
	} else {
		if err := s.postRepo.Like(ctx, userID, postID); err != nil {
			return nil, err
		}
		observability.LikeToggles.WithLabelValues("liked").Inc()
	}

	s.refreshLikesCount(ctx, postID)
	s.refresher.Schedule(ctx)

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	post.Liked = !isLiked
	return post, nil
}

// AddComment stores a review on a post with a snapshot of the author's
// profile. The comments counter and the author's reviews count are updated
// best-effort after the write.
func (s *CommunityService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if in.UserID == "" {
		return nil, models.NewUnauthenticatedError("Sign in to comment")
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(in.Text) > 2000 {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}
	if in.Rating < 0 || in.Rating > 5 {
		return nil, models.NewValidationError("Rating must be between 0 and 5")
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:        in.PostID,
		UserID:        in.UserID,
		UserName:      displayName(user),
		UserAvatarURL: user.AvatarURL,
		Comment:       strings.TrimSpace(in.Text),
		Rating:        in.Rating,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.refreshCommentsCount(ctx, in.PostID)
	if err := s.userRepo.IncrementReviewsCount(ctx, in.UserID); err != nil {
		middleware.Logger.Warn("reviews count bump failed",
			slog.String("user_id", in.UserID),
			slog.String("error", err.Error()),
		)
	}
	s.refresher.Schedule(ctx)

	return comment, nil
}

// GetComments returns a post's comments newest-first.
func (s *CommunityService) GetComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	var comments []*models.Comment
	err := cache.Aside(ctx, cache.CommentsKey(postID), &comments, cache.CommentsTTL, func() error {
		var fetchErr error
		comments, fetchErr = s.commentRepo.ListByPost(ctx, postID)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// DeletePost removes a post and everything hanging off it. Only the owner may
// delete. Relations go first so a failure never leaves likes or comments
// pointing at nothing; the stored image is removed last and best-effort.
func (s *CommunityService) DeletePost(ctx context.Context, userID, postID string) error {
	if userID == "" {
		return models.NewUnauthenticatedError("Sign in to delete posts")
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	if err := s.postRepo.DeleteLikesByPost(ctx, postID); err != nil {
		return err
	}
	if err := s.commentRepo.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	s.removePostImages(ctx, post)
	s.refresher.Schedule(ctx)
	return nil
}

// SyncCounts recomputes the stored likes and comments counters of every post
// from the relation tables. Each post is reconciled independently: one bad
// post is logged and skipped, the rest still get fixed. Returns the number of
// posts whose counters were corrected.
func (s *CommunityService) SyncCounts(ctx context.Context) (int, error) {
	span, ctx := observability.NewSpan(ctx, "community.SyncCounts")
	defer span.End()

	ids, err := s.postRepo.ListIDs(ctx)
	if err != nil {
		span.SetError(err)
		return 0, err
	}

	corrected := 0
	for _, id := range ids {
		drifted, syncErr := s.syncPostCounts(ctx, id)
		if syncErr != nil {
			middleware.Logger.Warn("count sync failed for post",
				slog.String("post_id", id),
				slog.String("error", syncErr.Error()),
			)
			continue
		}
		if drifted {
			corrected++
			observability.CounterSyncDrift.Inc()
		}
	}

	span.AddAttributes(
		attribute.Int("sync.posts", len(ids)),
		attribute.Int("sync.corrected", corrected),
	)
	middleware.Logger.Info("count sync completed",
		slog.Int("posts", len(ids)),
		slog.Int("corrected", corrected),
	)
	return corrected, nil
}

// syncPostCounts reconciles one post's counters, reporting whether either was drifted.
func (s *CommunityService) syncPostCounts(ctx context.Context, postID string) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}

	likes, err := s.postRepo.CountLikes(ctx, postID)
	if err != nil {
		return false, err
	}
	comments, err := s.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		return false, err
	}

	drifted := false
	if post.LikesCount != likes {
		if err := s.postRepo.UpdateLikesCount(ctx, postID, likes); err != nil {
			return drifted, err
		}
		drifted = true
	}
	if post.CommentsCount != comments {
		if err := s.postRepo.UpdateCommentsCount(ctx, postID, comments); err != nil {
			return drifted, err
		}
		drifted = true
	}
	return drifted, nil
}

func (s *CommunityService) refreshLikesCount(ctx context.Context, postID string) {
	count, err := s.postRepo.CountLikes(ctx, postID)
	if err == nil {
		err = s.postRepo.UpdateLikesCount(ctx, postID, count)
	}
	if err != nil {
		observability.CounterRecomputeFailures.WithLabelValues("likes").Inc()
		middleware.Logger.Warn("likes count refresh failed",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CommunityService) refreshCommentsCount(ctx context.Context, postID string) {
	count, err := s.commentRepo.CountByPost(ctx, postID)
	if err == nil {
		err = s.postRepo.UpdateCommentsCount(ctx, postID, count)
	}
	if err != nil {
		observability.CounterRecomputeFailures.WithLabelValues("comments").Inc()
		middleware.Logger.Warn("comments count refresh failed",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CommunityService) removePostImages(ctx context.Context, post *models.Post) {
	if s.blobs == nil {
		return
	}
	for _, rawURL := range []string{post.ImageURL, post.ThumbURL} {
		key, ok := storage.KeyFromURL(rawURL, s.postsBucket)
		if !ok {
			continue
		}
		if err := s.blobs.Remove(ctx, s.postsBucket, key); err != nil {
			middleware.Logger.Warn("post image cleanup failed",
				slog.String("post_id", post.ID),
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
}

// displayName picks the user's presentable name, falling back to the mailbox
// part of their email.
func displayName(user *models.User) string {
	if user.FullName != "" {
		return user.FullName
	}
	if at := strings.Index(user.Email, "@"); at > 0 {
		return user.Email[:at]
	}
	return user.Email
}
