package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/storage"
)

// IdentifierKind classifies a path parameter that may be an email, a numeric
// ID, or a slug, so one route can accept multiple identifier forms.
type IdentifierKind int

const (
	IdentifierID IdentifierKind = iota
	IdentifierEmail
	IdentifierSlug
)

// ClassifyIdentifier implements the slug-or-ID dispatch: anything with an @
// is an email, all-digit strings are IDs, the rest are slugs.
func ClassifyIdentifier(param string) (IdentifierKind, int) {
	if strings.Contains(param, "@") {
		return IdentifierEmail, 0
	}
	if id, err := strconv.Atoi(param); err == nil && id > 0 {
		return IdentifierID, id
	}
	return IdentifierSlug, 0
}

// Slugify lowercases and dash-joins a display name for URL use.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// GetExtensionFromContentType maps an image content type to a file extension
// for upload keys.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: %q", contentType)
	}
}

func populatePlayerPhotoURL(player *models.Player, uploader storage.FileUploader) {
	if player != nil && player.PhotoKey != nil && *player.PhotoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*player.PhotoKey)
		if url != "" {
			player.PhotoURL = &url
		}
	}
}

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}

func populateStaffPhotoURL(staff *models.Staff, uploader storage.FileUploader) {
	if staff != nil && staff.PhotoKey != nil && *staff.PhotoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*staff.PhotoKey)
		if url != "" {
			staff.PhotoURL = &url
		}
	}
}

func populateNewsCoverURL(article *models.News, uploader storage.FileUploader) {
	if article != nil && article.CoverKey != nil && *article.CoverKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*article.CoverKey)
		if url != "" {
			article.CoverURL = &url
		}
	}
}
