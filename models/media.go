package models

// MediaRef is a stored media asset: its delivery URL and the media store's id for it.
type MediaRef struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

func (m MediaRef) IsZero() bool {
	return m.URL == "" && m.PublicID == ""
}

// Complete reports whether both halves of the pair are set.
func (m MediaRef) Complete() bool {
	return m.URL != "" && m.PublicID != ""
}

func (m MediaRef) Equal(other MediaRef) bool {
	return m.URL == other.URL && m.PublicID == other.PublicID
}
