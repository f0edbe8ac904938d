package response

import (
	"fmt"

	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/service"
)

type ElementLibrary struct {
	Elements   []domain.CustomElement `json:"elements"`
	TotalCount int                    `json:"total_count"`
}

func NewElementLibrary(elements []domain.CustomElement) ElementLibrary {
	if elements == nil {
		elements = []domain.CustomElement{}
	}

	return ElementLibrary{
		Elements:   elements,
		TotalCount: len(elements),
	}
}

type Upload struct {
	Message string                 `json:"message"`
	Files   []service.UploadedFile `json:"files"`
}

func NewUpload(files []service.UploadedFile) Upload {
	return Upload{
		Message: fmt.Sprintf("Successfully uploaded %d file(s)", len(files)),
		Files:   files,
	}
}

type Health struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Version string `json:"version,omitempty"`
}
