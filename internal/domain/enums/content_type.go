package enums

type ContentType string

const (
	ContentTypeImage ContentType = "image"
	ContentTypeVideo ContentType = "video"
	ContentTypeText  ContentType = "text"
	ContentTypeURL   ContentType = "url"
)

func (t ContentType) IsMedia() bool {
	return t == ContentTypeImage || t == ContentTypeVideo
}
