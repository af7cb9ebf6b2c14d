package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

// SlugPattern определяет допустимый формат slug сообщества:
// строчные латинские буквы, цифры, дефис; 1-64 символа
var SlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

const maxSlugLen = 64

// ValidateSlug проверяет, что slug соответствует требованиям
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug cannot be empty")
	}
	if len(slug) > maxSlugLen {
		return fmt.Errorf("slug must not exceed %d characters", maxSlugLen)
	}
	if !SlugPattern.MatchString(slug) {
		return fmt.Errorf("slug can only contain lowercase letters, numbers and hyphens")
	}
	return nil
}

const (
	// DefaultPage страница по умолчанию
	DefaultPage = 1
	// DefaultLimit размер страницы по умолчанию
	DefaultLimit = 20
	// MaxLimit максимальный размер страницы
	MaxLimit = 100
)

// ParsePagination разбирает параметры page/limit из query string.
// Отсутствующие параметры заменяются значениями по умолчанию,
// некорректные значения — ошибка.
func ParsePagination(query url.Values) (page, limit int, err error) {
	page, limit = DefaultPage, DefaultLimit

	if raw := query.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("invalid page parameter: %q", raw)
		}
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("invalid limit parameter: %q", raw)
		}
		if limit > MaxLimit {
			limit = MaxLimit
		}
	}

	return page, limit, nil
}

// ValidateSCORMStatus проверяет, что статус пакета из допустимого множества
func ValidateSCORMStatus(status string) error {
	switch status {
	case "active", "inactive":
		return nil
	default:
		return fmt.Errorf("status must be either active or inactive, got %q", status)
	}
}

// ValidateAccessType проверяет тип доступа сообщества
func ValidateAccessType(accessType string) error {
	switch accessType {
	case "free", "invitation_only", "paid":
		return nil
	default:
		return fmt.Errorf("unknown access type: %q", accessType)
	}
}
