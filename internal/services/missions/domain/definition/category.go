package definition

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/missionkit/internal/platform/errors"
)

// CategoryWeight is a category name with its selection weight. Order is
// significant for weighted selection.
type CategoryWeight struct {
	Name   string
	Weight int
}

// ErrNoCategories indicates an empty category list.
var ErrNoCategories = apperrors.New(apperrors.CodeMissionDefinitionInvalid, "at least one category is required")

func validateCategories(categories []CategoryWeight) error {
	if len(categories) == 0 {
		return ErrNoCategories
	}
	seen := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		name := strings.ToLower(strings.TrimSpace(category.Name))
		if name == "" {
			return apperrors.WithMetadata(apperrors.CodeMissionDefinitionInvalid,
				"category name is required",
				map[string]string{"Key": "categories", "Reason": "category name is required"})
		}
		if _, ok := seen[name]; ok {
			reason := fmt.Sprintf("category %q is listed more than once", category.Name)
			return apperrors.WithMetadata(apperrors.CodeMissionDefinitionInvalid, reason,
				map[string]string{"Key": "categories", "Reason": reason})
		}
		seen[name] = struct{}{}
	}
	return nil
}
