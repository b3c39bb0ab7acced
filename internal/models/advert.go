package models

// AdvertImage is the sidebar advertisement setting
type AdvertImage struct {
	ImageURL string `json:"image_url"`
	Link     string `json:"link"`
	Alt      string `json:"alt"`
}

// DefaultAdvert is shown until an admin stores a different advert
func DefaultAdvert() AdvertImage {
	return AdvertImage{
		ImageURL: "https://images.unsplash.com/photo-1556742049-0cfed4f6a45d?w=400&h=300&fit=crop",
		Link:     "https://example.com",
		Alt:      "Advertisement",
	}
}

// AdvertSettingKey is the settings key under which the advert is stored
const AdvertSettingKey = "advert-image"
