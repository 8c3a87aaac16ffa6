package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Валидация и бизнес-правила
	ErrValidationFailed    = errors.New("validation failed")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrOTPInvalid          = errors.New("invalid or expired otp")
	ErrUserAlreadyInTeam   = errors.New("user is already in a team")
	ErrPlayerNumberTaken   = errors.New("player number is already taken")
	ErrMatchInvalidStatus  = errors.New("invalid match status")
	ErrMatchNotLive        = errors.New("match is not live")
	ErrMatchNotFullTime    = errors.New("match is not at full time")
	ErrMatchInPast         = errors.New("match date/time is in the past")
	ErrTeamNotInMatch      = errors.New("team is not part of this match")
	ErrPlayerNotOnRosters  = errors.New("player is not on either roster")
	ErrUploadTooLarge      = errors.New("file exceeds the maximum allowed size")
	ErrUploadInvalidFormat = errors.New("unsupported file format")

	// Конфликты
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrTeamNameConflict     = errors.New("team name is already in use")
	ErrTeamEmailConflict    = errors.New("team email is already in use")
	ErrOfficialEmailTaken   = errors.New("match official email is already in use")
	ErrAdminIDTaken         = errors.New("admin id is already in use")
	ErrRequestAlreadyExists = errors.New("a pending request already exists")

	// Авторизация
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Не найдено
	ErrUserNotFound     = errors.New("user not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrOfficialNotFound = errors.New("match official not found")
	ErrAdminNotFound    = errors.New("admin not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrRequestNotFound  = errors.New("request not found")
	ErrMatchNotFound    = errors.New("match not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment not found")
)
