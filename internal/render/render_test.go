package render

import (
	"reflect"
	"strings"
	"testing"
)

const sampleBody = "## Contexte\n\n" +
	"**Les chiffres cles**\n\n" +
	"- Croissance de 3%\n- Inflation stable\n\n" +
	"Le marche reste **tres dynamique** cette annee, selon **les analystes**."

func TestBlocks(t *testing.T) {
	blocks := Blocks(sampleBody)

	want := []Block{
		{Kind: KindHeading, Text: "Contexte"},
		{Kind: KindSubheading, Text: "Les chiffres cles"},
		{Kind: KindList, Items: []string{"Croissance de 3%", "Inflation stable"}},
		{Kind: KindParagraph, Spans: []Span{
			{Text: "Le marche reste "},
			{Text: "tres dynamique", Bold: true},
			{Text: " cette annee, selon "},
			{Text: "les analystes", Bold: true},
			{Text: "."},
		}},
	}

	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("Unexpected blocks:\n got  %+v\n want %+v", blocks, want)
	}
}

func TestBlocks_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []Block
	}{
		{"empty body", "", []Block{}},
		{"blank paragraphs dropped", "a\n\n\n\n  \n\nb", []Block{
			{Kind: KindParagraph, Spans: []Span{{Text: "a"}}},
			{Kind: KindParagraph, Spans: []Span{{Text: "b"}}},
		}},
		{"windows line endings", "## Titre\r\n\r\ntexte", []Block{
			{Kind: KindHeading, Text: "Titre"},
			{Kind: KindParagraph, Spans: []Span{{Text: "texte"}}},
		}},
		{"lone stars are text", "**", []Block{
			{Kind: KindParagraph, Spans: []Span{{Text: "**"}}},
		}},
		{"heading needs a space", "##Titre", []Block{
			{Kind: KindParagraph, Spans: []Span{{Text: "##Titre"}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Blocks(tt.body); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestHTML(t *testing.T) {
	out := HTML(sampleBody)

	for _, want := range []string{
		"<h2>Contexte</h2>",
		"<h3>Les chiffres cles</h3>",
		"<ul><li>Croissance de 3%</li><li>Inflation stable</li></ul>",
		"<p>Le marche reste <strong>tres dynamique</strong> cette annee, selon <strong>les analystes</strong>.</p>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestHTML_EscapesMarkup(t *testing.T) {
	out := HTML(`<script>alert("x")</script> **<b>gras</b>**`)

	if strings.Contains(out, "<script>") || strings.Contains(out, "<b>") {
		t.Errorf("Raw markup leaked into output: %s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("Expected escaped script tag, got %s", out)
	}
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		width int
		want  string
	}{
		{"short body kept", "Bonjour", 10, "Bonjour"},
		{"exact width kept", "abcdef", 6, "abcdef"},
		{"truncated", "abcdefghij", 4, "abcd..."},
		{"wide runes", "日本語テキスト", 4, "日本..."},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excerpt(tt.body, tt.width); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExcerpt_CardWidth(t *testing.T) {
	body := strings.Repeat("a", 200)
	got := Excerpt(body, CardExcerptWidth)
	if len(got) != CardExcerptWidth+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("Expected %d chars ending in '...', got %d", CardExcerptWidth+3, len(got))
	}
}
