package services

import (
	"context"
	"errors"
	"time"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
)

type CreateTrainingInput struct {
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Focus    string    `json:"focus"`
	Notes    string    `json:"notes"`
	CoachID  *int      `json:"-"`
}

type UpdateTrainingInput struct {
	Title    *string    `json:"title"`
	Date     *time.Time `json:"date"`
	Location *string    `json:"location"`
	Focus    *string    `json:"focus"`
	Notes    *string    `json:"notes"`
}

type TrainingService interface {
	Create(ctx context.Context, input CreateTrainingInput) (*models.Training, error)
	GetByID(ctx context.Context, id int) (*models.Training, error)
	List(ctx context.Context, filter repositories.ListTrainingsFilter) ([]models.Training, int, error)
	Update(ctx context.Context, id int, input UpdateTrainingInput) (*models.Training, error)
	Delete(ctx context.Context, id int) error
}

type trainingService struct {
	trainingRepo repositories.TrainingRepository
	userRepo     repositories.UserRepository
}

func NewTrainingService(trainingRepo repositories.TrainingRepository, userRepo repositories.UserRepository) TrainingService {
	return &trainingService{
		trainingRepo: trainingRepo,
		userRepo:     userRepo,
	}
}

func (s *trainingService) Create(ctx context.Context, input CreateTrainingInput) (*models.Training, error) {
	if input.Title == "" || input.Date.IsZero() {
		return nil, ErrTrainingRequired
	}

	training := &models.Training{
		Title:    input.Title,
		Date:     input.Date,
		Location: input.Location,
		Focus:    input.Focus,
		Notes:    input.Notes,
		CoachID:  input.CoachID,
	}

	if err := s.trainingRepo.Create(ctx, training); err != nil {
		return nil, err
	}
	return training, nil
}

func (s *trainingService) GetByID(ctx context.Context, id int) (*models.Training, error) {
	training, err := s.trainingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTrainingNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}

	if training.CoachID != nil {
		if coach, err := s.userRepo.GetByID(ctx, *training.CoachID); err == nil {
			coach.PasswordHash = ""
			training.Coach = coach
		}
	}

	return training, nil
}

func (s *trainingService) List(ctx context.Context, filter repositories.ListTrainingsFilter) ([]models.Training, int, error) {
	filter.ListParams = repositories.NormalizeListParams(filter.ListParams)
	return s.trainingRepo.List(ctx, filter)
}

func (s *trainingService) Update(ctx context.Context, id int, input UpdateTrainingInput) (*models.Training, error) {
	training, err := s.trainingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTrainingNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTrainingRequired
		}
		training.Title = *input.Title
	}
	if input.Date != nil {
		training.Date = *input.Date
	}
	if input.Location != nil {
		training.Location = *input.Location
	}
	if input.Focus != nil {
		training.Focus = *input.Focus
	}
	if input.Notes != nil {
		training.Notes = *input.Notes
	}

	if err := s.trainingRepo.Update(ctx, training); err != nil {
		return nil, err
	}
	return training, nil
}

func (s *trainingService) Delete(ctx context.Context, id int) error {
	if err := s.trainingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTrainingNotFound) {
			return ErrTrainingNotFound
		}
		return err
	}
	return nil
}
