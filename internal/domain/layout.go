package domain

import "time"

type Layout struct {
	ID        uint      `json:"layout_id"`
	EventID   uint      `json:"event_id"`
	Name      string    `json:"name"`
	Document  Document  `json:"layout"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LayoutPatch struct {
	Name     Optional[string]
	Document Optional[Document]
}

func (p LayoutPatch) Apply(l *Layout) {
	p.Name.Apply(&l.Name)
	p.Document.Apply(&l.Document)
}

// LayoutExport is a read-only projection of a layout and its parent event.
type LayoutExport struct {
	LayoutID   uint      `json:"layout_id"`
	Name       string    `json:"name"`
	Document   Document  `json:"layout"`
	EventTitle string    `json:"event_title"`
	EventDate  *Date     `json:"event_date"`
	ExportedAt time.Time `json:"exported_at"`
}

func NewLayoutExport(l Layout, e Event, at time.Time) LayoutExport {
	doc := l.Document
	if doc == nil {
		doc = Document{}
	}

	return LayoutExport{
		LayoutID:   l.ID,
		Name:       l.Name,
		Document:   doc,
		EventTitle: e.Title,
		EventDate:  e.StartDate,
		ExportedAt: at,
	}
}
