package domain

import (
	"errors"
	"time"
)

const (
	ElementTypeKey   = "type"
	ElementCountKey  = "element_count"
	ElementTypeGroup = "group"
)

var ErrMissingGroupElements = errors.New("element_data must contain an 'elements' array for group elements")

type CustomElement struct {
	ID         uint       `json:"element_id"`
	UserID     uint       `json:"user_id"`
	Name       string     `json:"name"`
	Data       Document   `json:"element_data"`
	Thumbnail  *string    `json:"thumbnail"`
	UsageCount int        `json:"usage_count"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type ElementPatch struct {
	Name      Optional[string]
	Data      Optional[Document]
	Thumbnail Optional[*string]
}

func (p ElementPatch) Apply(e *CustomElement) {
	p.Name.Apply(&e.Name)
	p.Data.Apply(&e.Data)
	p.Thumbnail.Apply(&e.Thumbnail)
}

// GroupDocument copies data and tags it as a composite library entry holding
// len(elements) children. data must carry an "elements" sequence.
func GroupDocument(data Document) (Document, error) {
	elements, ok := data.Elements()
	if !ok {
		return nil, ErrMissingGroupElements
	}

	out := data.Clone()
	out[ElementTypeKey] = ElementTypeGroup
	out[ElementCountKey] = len(elements)

	return out, nil
}
