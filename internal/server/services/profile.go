package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codequest-dev/codequest/internal/logging"
	"github.com/codequest-dev/codequest/internal/server/agents"
	sc "github.com/codequest-dev/codequest/internal/server/config"
	"github.com/codequest-dev/codequest/internal/server/models"
	"github.com/codequest-dev/codequest/internal/server/repositories/repomanager"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ProfileService serves the user-facing profile surface: the profile view
// with a resolvable avatar URL, saved concept explanations, and avatar
// uploads via presigned object-storage URLs.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	explainer   agents.Explainer
	config      *sc.Config
	logger      logging.Logger
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, e agents.Explainer, cfg *sc.Config, l logging.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		explainer:   e,
		config:      cfg,
		logger:      l.With("module", "profile_service"),
	}
}

// AvatarStorageKey builds a date-sharded object key for a fresh avatar upload.
func AvatarStorageKey(userID string) string {
	d := time.Now()
	return fmt.Sprintf("avatars/%d/%d/%d/%s/%v", d.Year(), d.Month(), d.Day(), userID, uuid.New())
}

func (s *ProfileService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *ProfileService) presignedGetURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// ProfileView is the user record prepared for display: the stored avatar key
// resolved to a fetchable URL when object storage is configured.
type ProfileView struct {
	User      *models.User
	AvatarURL string
}

// GetProfile returns the profile view for the user. A missing avatar or
// disabled object storage yields an empty AvatarURL; a presign failure is
// logged and degrades the same way rather than failing the whole view.
func (s *ProfileService) GetProfile(ctx context.Context, user *models.User) (*ProfileView, error) {
	view := &ProfileView{User: user}

	if user.ProfilePhoto == "" || s.config.S3BaseEndpoint == "" {
		return view, nil
	}

	url, err := s.presignedGetURL(ctx, user.ProfilePhoto)
	if err != nil {
		s.logger.Warn(ctx, "avatar presign failed", "user_id", user.ID, "error", err.Error())
		return view, nil
	}

	view.AvatarURL = url
	return view, nil
}

// AvatarUploadURL issues a presigned PUT URL for a new avatar object and
// records the object key on the user row. The client uploads directly to
// object storage; this server never proxies image bytes.
func (s *ProfileService) AvatarUploadURL(ctx context.Context, userID string) (string, string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", fmt.Errorf("error preparing upload: %w", err)
	}

	bucket := s.config.S3Bucket
	key := AvatarStorageKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", fmt.Errorf("error presigning upload: %w", err)
	}

	if err := s.repomanager.Users(s.db).UpdateProfilePhoto(ctx, userID, key); err != nil {
		return "", "", fmt.Errorf("error saving avatar key: %w", err)
	}

	return key, req.URL, nil
}

// ListConcepts returns the user's saved explanations, newest first.
func (s *ProfileService) ListConcepts(ctx context.Context, userID string) ([]*models.Concept, error) {
	concepts, err := s.repomanager.Concepts(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing concepts: %w", err)
	}
	return concepts, nil
}

// ExplainConcept asks the explainer collaborator for an explanation and
// persists it as a saved concept owned by the user.
func (s *ProfileService) ExplainConcept(ctx context.Context, userID, topic, language, difficulty string) (*models.Concept, error) {
	explanation, err := s.explainer.Explain(ctx, topic, language, difficulty)
	if err != nil {
		return nil, fmt.Errorf("error explaining concept: %w", err)
	}

	concept := &models.Concept{
		ID:              uuid.NewString(),
		UserID:          userID,
		Title:           explanation.Title,
		Content:         explanation.Content,
		MarkdownContent: explanation.MarkdownContent,
		Language:        language,
		Difficulty:      difficulty,
	}

	saved, err := s.repomanager.Concepts(s.db).Create(ctx, concept)
	if err != nil {
		return nil, fmt.Errorf("error saving concept: %w", err)
	}
	return saved, nil
}
