package model

import (
	"time"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/enums"
)

// ContentItem is one sellable piece of creator content. Title, description
// and external link travel through the text classification path, the stored
// object through the image path.
type ContentItem struct {
	ID           string
	CreatorID    int64
	Type         enums.ContentType
	Title        string
	Description  string
	ObjectKey    string
	ExternalLink string
	CreatedAt    time.Time
}
