package repository

import (
	"gorm.io/datatypes"

	"github.com/hostbuddy/api/internal/domain"
)

func dateToDAO(d *domain.Date) *datatypes.Date {
	if d == nil {
		return nil
	}
	out := datatypes.Date(d.Time())

	return &out
}

func dateToDomain(d *datatypes.Date) *domain.Date {
	if d == nil {
		return nil
	}
	out := domain.Date(*d)

	return &out
}

func timeToDAO(t *domain.TimeOfDay) *datatypes.Time {
	if t == nil {
		return nil
	}
	out := datatypes.Time(*t)

	return &out
}

func timeToDomain(t *datatypes.Time) *domain.TimeOfDay {
	if t == nil {
		return nil
	}
	out := domain.TimeOfDay(*t)

	return &out
}

// documentToDAO keeps a nil document nil so the column stores NULL.
func documentToDAO(d domain.Document) datatypes.JSONMap {
	if d == nil {
		return nil
	}

	return datatypes.JSONMap(d)
}

func documentToDomain(m datatypes.JSONMap) domain.Document {
	if m == nil {
		return nil
	}

	return domain.Document(m)
}

func imagesToDAO(images []string) datatypes.JSONSlice[string] {
	if images == nil {
		return datatypes.JSONSlice[string]{}
	}

	return datatypes.JSONSlice[string](images)
}

func imagesToDomain(images datatypes.JSONSlice[string]) []string {
	if images == nil {
		return []string{}
	}

	return []string(images)
}
