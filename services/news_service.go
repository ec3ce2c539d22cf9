package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/storage"
)

type CreateNewsInput struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
	AuthorID  *int   `json:"-"`
}

type UpdateNewsInput struct {
	Title     *string `json:"title"`
	Body      *string `json:"body"`
	Published *bool   `json:"published"`
}

type NewsService interface {
	Create(ctx context.Context, input CreateNewsInput) (*models.News, error)
	// GetByIdentifier accepts either a numeric ID or a slug.
	GetByIdentifier(ctx context.Context, identifier string) (*models.News, error)
	List(ctx context.Context, filter repositories.ListNewsFilter) ([]models.News, int, error)
	Update(ctx context.Context, id int, input UpdateNewsInput) (*models.News, error)
	Delete(ctx context.Context, id int, actorID *int) error
	UploadCover(ctx context.Context, id int, file io.Reader, contentType string) (*models.News, error)
}

type newsService struct {
	txRunner    repositories.TxRunner
	newsRepo    repositories.NewsRepository
	userRepo    repositories.UserRepository
	archiveRepo repositories.ArchiveRepository
	uploader    storage.FileUploader
	audit       AuditService
}

func NewNewsService(
	txRunner repositories.TxRunner,
	newsRepo repositories.NewsRepository,
	userRepo repositories.UserRepository,
	archiveRepo repositories.ArchiveRepository,
	uploader storage.FileUploader,
	audit AuditService,
) NewsService {
	return &newsService{
		txRunner:    txRunner,
		newsRepo:    newsRepo,
		userRepo:    userRepo,
		archiveRepo: archiveRepo,
		uploader:    uploader,
		audit:       audit,
	}
}

func (s *newsService) Create(ctx context.Context, input CreateNewsInput) (*models.News, error) {
	if input.Title == "" {
		return nil, ErrNewsTitleRequired
	}

	article := &models.News{
		Title:     input.Title,
		Body:      input.Body,
		Published: input.Published,
		AuthorID:  input.AuthorID,
		Slug:      Slugify(input.Title),
	}

	err := s.newsRepo.Create(ctx, article)
	if errors.Is(err, repositories.ErrNewsSlugConflict) {
		// Headlines repeat; suffix with the publish date to stay unique.
		article.Slug = fmt.Sprintf("%s-%s", article.Slug, time.Now().Format("20060102"))
		err = s.newsRepo.Create(ctx, article)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNewsSlugConflict) {
			return nil, ErrNewsSlugConflict
		}
		return nil, err
	}
	return article, nil
}

func (s *newsService) GetByIdentifier(ctx context.Context, identifier string) (*models.News, error) {
	var (
		article *models.News
		err     error
	)

	switch kind, id := ClassifyIdentifier(identifier); kind {
	case IdentifierID:
		article, err = s.newsRepo.GetByID(ctx, id)
	case IdentifierSlug:
		article, err = s.newsRepo.GetBySlug(ctx, identifier)
	default:
		return nil, ErrNewsNotFound
	}

	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}

	if article.AuthorID != nil {
		if author, err := s.userRepo.GetByID(ctx, *article.AuthorID); err == nil {
			author.PasswordHash = ""
			article.Author = author
		}
	}

	populateNewsCoverURL(article, s.uploader)
	return article, nil
}

func (s *newsService) List(ctx context.Context, filter repositories.ListNewsFilter) ([]models.News, int, error) {
	filter.ListParams = repositories.NormalizeListParams(filter.ListParams)
	articles, total, err := s.newsRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range articles {
		populateNewsCoverURL(&articles[i], s.uploader)
	}
	return articles, total, nil
}

func (s *newsService) Update(ctx context.Context, id int, input UpdateNewsInput) (*models.News, error) {
	article, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrNewsTitleRequired
		}
		article.Title = *input.Title
	}
	if input.Body != nil {
		article.Body = *input.Body
	}
	if input.Published != nil {
		article.Published = *input.Published
	}

	// The slug survives edits so shared links keep working.
	if err := s.newsRepo.Update(ctx, article); err != nil {
		if errors.Is(err, repositories.ErrNewsSlugConflict) {
			return nil, ErrNewsSlugConflict
		}
		return nil, err
	}

	populateNewsCoverURL(article, s.uploader)
	return article, nil
}

func (s *newsService) Delete(ctx context.Context, id int, actorID *int) error {
	article, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return ErrNewsNotFound
		}
		return err
	}

	archive, err := snapshotForArchive(models.ArchiveSourceNews, article.ID, article, actorID)
	if err != nil {
		return err
	}

	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.archiveRepo.Create(ctx, exec, archive); err != nil {
			return err
		}
		return s.newsRepo.Delete(ctx, exec, article.ID)
	})
	if err != nil {
		return err
	}

	if article.CoverKey != nil && *article.CoverKey != "" {
		_ = s.uploader.Delete(ctx, *article.CoverKey)
	}

	s.audit.Record(ctx, AuditEntry{
		Title:       "news deleted",
		Description: fmt.Sprintf("article %q archived and removed", article.Title),
		Severity:    models.SeverityWarning,
		Metadata:    map[string]interface{}{"news_id": article.ID, "archive_id": archive.ID},
		UserID:      actorID,
	})

	return nil
}

func (s *newsService) UploadCover(ctx context.Context, id int, file io.Reader, contentType string) (*models.News, error) {
	article, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, ErrValidationFailed
	}

	key := fmt.Sprintf("news/%d/cover%s", article.ID, ext)
	oldKey := article.CoverKey

	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload news cover: %w", err)
	}

	if err := s.newsRepo.UpdateCoverKey(ctx, article.ID, &result.Key); err != nil {
		_ = s.uploader.Delete(ctx, result.Key)
		return nil, err
	}

	if oldKey != nil && *oldKey != "" && *oldKey != result.Key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	article.CoverKey = &result.Key
	populateNewsCoverURL(article, s.uploader)
	return article, nil
}
