package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed     = errors.New("validation failed")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrTeamNameRequired     = errors.New("team name is required")
	ErrPlayerNameRequired   = errors.New("player first name is required")
	ErrMatchFieldsRequired  = errors.New("match opponent and date are required")
	ErrEventMinuteRequired  = errors.New("event minute is required")
	ErrEventPlayerRequired  = errors.New("event player is required")
	ErrInvalidCardColor     = errors.New("card color must be yellow or red")
	ErrInvalidSeverity      = errors.New("injury severity must be minor, major or severe")
	ErrInvalidInjuryStatus  = errors.New("invalid injury status")
	ErrInvalidMatchStatus   = errors.New("invalid match status")
	ErrInvalidMatchVenue    = errors.New("invalid match venue")
	ErrInvalidDonation      = errors.New("donation donor name and positive amount are required")
	ErrInvalidDonationState = errors.New("invalid donation status")
	ErrInvalidRole          = errors.New("invalid user role")
	ErrNewsTitleRequired    = errors.New("news title is required")
	ErrTrainingRequired     = errors.New("training title and date are required")
	ErrStaffNameRequired    = errors.New("staff full name is required")

	// Ошибки конфликтов
	ErrUserEmailConflict  = errors.New("email address is already in use")
	ErrTeamNameConflict   = errors.New("team name is already in use")
	ErrPlayerSlugConflict = errors.New("player slug is already in use")
	ErrNewsSlugConflict   = errors.New("news slug is already in use")
	ErrDuplicateRedCard   = errors.New("player already has a red card in this match")
	ErrTeamInUse          = errors.New("team has recorded matches and cannot be deleted")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound     = errors.New("user not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrMatchNotFound    = errors.New("match not found")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrCardNotFound     = errors.New("card not found")
	ErrInjuryNotFound   = errors.New("injury not found")
	ErrNewsNotFound     = errors.New("news article not found")
	ErrStaffNotFound    = errors.New("staff member not found")
	ErrDonationNotFound = errors.New("donation not found")
	ErrTrainingNotFound = errors.New("training session not found")
	ErrArchiveNotFound  = errors.New("archive entry not found")
)
