package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestArticlePatch_MarshalOnlySetFields(t *testing.T) {
	title := "Nouveau titre"
	patch := ArticlePatch{Title: &title, Image: &ImageChange{}}

	data, err := json.Marshal(patch)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"image_url":null,"titre":"Nouveau titre"}` {
		t.Errorf("Unexpected payload %s", data)
	}
}

func TestArticlePatch_UnmarshalImageStates(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantImage *ImageChange
	}{
		{"absent", `{"titre":"x"}`, nil},
		{"null clears", `{"image_url":null}`, &ImageChange{}},
		{"set", `{"image_url":"https://img/a.png"}`, &ImageChange{URL: "https://img/a.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patch ArticlePatch
			if err := json.Unmarshal([]byte(tt.body), &patch); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			switch {
			case tt.wantImage == nil && patch.Image != nil:
				t.Errorf("Expected no image change, got %+v", patch.Image)
			case tt.wantImage != nil && (patch.Image == nil || *patch.Image != *tt.wantImage):
				t.Errorf("Expected %+v, got %+v", tt.wantImage, patch.Image)
			}
		})
	}
}

func TestArticlePatch_Apply(t *testing.T) {
	image := "https://img/a.png"
	original := Article{ID: 1, Title: "Avant", Body: "Corps", ImageURL: &image, Category: CategoryCongo}

	category := CategoryFinance
	updated := ArticlePatch{Category: &category, Image: &ImageChange{}}.Apply(original)

	if updated.Category != CategoryFinance || updated.ImageURL != nil {
		t.Errorf("Patch not applied: %+v", updated)
	}
	if updated.Title != "Avant" || updated.Body != "Corps" {
		t.Errorf("Unset fields changed: %+v", updated)
	}
	if original.ImageURL == nil || *original.ImageURL != image {
		t.Error("Apply must not modify the original article")
	}
	if !(ArticlePatch{}).IsEmpty() || (ArticlePatch{Category: &category}).IsEmpty() {
		t.Error("IsEmpty reports the wrong result")
	}
}

func TestCategory(t *testing.T) {
	if ParseCategory(" congo ") != CategoryCongo {
		t.Error("ParseCategory should normalize case and spaces")
	}
	if ParseCategory("SPORT") != CategoryOther {
		t.Error("Unknown categories should parse to OTHER")
	}
	if !CategoryOther.Matches("SPORT") || CategoryOther.Matches(CategoryFinance) {
		t.Error("OTHER should match only unknown categories")
	}
	if CategoryBelgique.Matches(CategoryCongo) {
		t.Error("Known categories match only themselves")
	}
	if Category("SPORT").Label() != "SPORT" {
		t.Error("Unknown categories display their raw value")
	}

	// Unknown values survive decoding
	var a Article
	json.Unmarshal([]byte(`{"id":1,"categorie":"SPORT"}`), &a)
	if a.Category != "SPORT" {
		t.Errorf("Expected raw category, got %q", a.Category)
	}
}

func TestNewCommentDraft(t *testing.T) {
	draft := NewCommentDraft(3, "  ", "  Bonjour  ")
	if draft.Name != AnonymousName || draft.Message != "Bonjour" || draft.ArticleID != 3 {
		t.Errorf("Unexpected draft %+v", draft)
	}

	if (Comment{Name: ""}).DisplayName() != AnonymousName {
		t.Error("Blank names display as anonymous")
	}
}

func TestTimestamp_UnmarshalLayouts(t *testing.T) {
	tests := []struct {
		name string
		body string
		want time.Time
	}{
		{"rfc3339 with fraction", `"2024-01-01T10:00:00.123456Z"`, time.Date(2024, 1, 1, 10, 0, 0, 123456000, time.UTC)},
		{"rfc3339 with offset", `"2024-01-01T12:00:00+02:00"`, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"no zone", `"2024-01-01T10:00:00"`, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"no zone with fraction", `"2024-01-01T10:00:00.5"`, time.Date(2024, 1, 1, 10, 0, 0, 500000000, time.UTC)},
		{"date only", `"2024-01-01"`, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
		{"empty", `""`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.body), &ts); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, ts.Time)
			}
		})
	}
}

func TestTimestamp_RejectsGarbage(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("Expected error for unparseable timestamp")
	}
	if err := json.Unmarshal([]byte(`42`), &ts); err == nil {
		t.Error("Expected error for non-string timestamp")
	}
}

func TestTimestamp_MarshalRFC3339(t *testing.T) {
	a := Article{ID: 1, CreatedAt: NewTimestamp(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	json.Unmarshal(data, &raw)
	if raw["created_at"] != "2024-01-01T10:00:00Z" {
		t.Errorf("Unexpected created_at %v", raw["created_at"])
	}
}
