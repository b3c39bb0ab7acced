package models

import "encoding/json"

// Article represents a blog post as served by the remote API
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"titre"`
	Body      string    `json:"contenu"`
	ImageURL  *string   `json:"image_url"`
	Category  Category  `json:"categorie"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
	AdminID   int64     `json:"admin"`
}

// Clone returns a copy that shares no pointers with the receiver
func (a Article) Clone() Article {
	if a.ImageURL != nil {
		url := *a.ImageURL
		a.ImageURL = &url
	}
	return a
}

// Image returns the image URL or an empty string when the article has none
func (a Article) Image() string {
	if a.ImageURL == nil {
		return ""
	}
	return *a.ImageURL
}

// ArticleDraft is the input for creating an article.
// Title, Body and Category are required; ImageURL may be left nil.
type ArticleDraft struct {
	Title    string   `json:"titre"`
	Body     string   `json:"contenu"`
	ImageURL *string  `json:"image_url"`
	Category Category `json:"categorie"`
}

// ImageChange describes a change to an article's image.
// An empty URL clears the image.
type ImageChange struct {
	URL string
}

// ArticlePatch is the input for updating an article.
// Nil fields are left untouched on the server.
type ArticlePatch struct {
	Title    *string
	Body     *string
	Category *Category
	Image    *ImageChange
}

// IsEmpty reports whether the patch changes nothing
func (p ArticlePatch) IsEmpty() bool {
	return p.Title == nil && p.Body == nil && p.Category == nil && p.Image == nil
}

// MarshalJSON emits only the fields the patch sets; a cleared image is sent as null
func (p ArticlePatch) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, 4)
	if p.Title != nil {
		out["titre"] = *p.Title
	}
	if p.Body != nil {
		out["contenu"] = *p.Body
	}
	if p.Category != nil {
		out["categorie"] = string(*p.Category)
	}
	if p.Image != nil {
		if p.Image.URL == "" {
			out["image_url"] = nil
		} else {
			out["image_url"] = p.Image.URL
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the same shape MarshalJSON produces. A present
// "image_url": null becomes a clearing ImageChange.
func (p *ArticlePatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = ArticlePatch{}

	if v, ok := raw["titre"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return err
		}
		p.Title = &s
	}
	if v, ok := raw["contenu"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return err
		}
		p.Body = &s
	}
	if v, ok := raw["categorie"]; ok {
		var c Category
		if err := json.Unmarshal(v, &c); err != nil {
			return err
		}
		p.Category = &c
	}
	if v, ok := raw["image_url"]; ok {
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return err
		}
		change := ImageChange{}
		if s != nil {
			change.URL = *s
		}
		p.Image = &change
	}
	return nil
}

// Apply returns a copy of the article with the patch applied locally
func (p ArticlePatch) Apply(a Article) Article {
	out := a.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Body != nil {
		out.Body = *p.Body
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Image != nil {
		if p.Image.URL == "" {
			out.ImageURL = nil
		} else {
			url := p.Image.URL
			out.ImageURL = &url
		}
	}
	return out
}

// StoreStatus is a read-only view of the article store's flags
type StoreStatus struct {
	Loading       bool   `json:"loading"`
	Error         string `json:"error,omitempty"`
	Count         int    `json:"count"`
	Authenticated bool   `json:"authenticated"`
}
