package dto

import "time"

type ContentItemResponse struct {
	ID           string    `json:"id"`
	CreatorID    int64     `json:"creator_id"`
	ContentType  string    `json:"content_type"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ExternalLink string    `json:"external_link,omitempty"`
	MediaURL     string    `json:"media_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ContentListResponse struct {
	Items []ContentItemResponse `json:"items"`
}
