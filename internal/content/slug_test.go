package content_test

import (
	"testing"

	"github.com/armada-md/site-api/internal/content"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"punctuation collapsed", "AI & Healthcare: The Future!", "ai-healthcare-the-future"},
		{"already clean", "simple-title", "simple-title"},
		{"leading and trailing junk", "  --Hello World--  ", "hello-world"},
		{"digits kept", "Top 5 AI Tools in 2026", "top-5-ai-tools-in-2026"},
		{"only punctuation", "!!!", ""},
		{"empty", "", ""},
		{"mixed case", "The KNGHT Doctrine", "the-knght-doctrine"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := content.Slugify(tc.title); got != tc.want {
				t.Errorf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	title := "Ethical AI: A Physician's View"
	first := content.Slugify(title)
	second := content.Slugify(title)
	if first != second {
		t.Errorf("Slugify not deterministic: %q vs %q", first, second)
	}
}

func TestSuggestInternalLinks(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "product mention",
			body: "Armada Housecall brings virtual care to rural patients.",
			want: []string{"/products/housecall"},
		},
		{
			name: "multiple rules in table order",
			body: "Armada AssistMD reflects our ethical commitments. Book a demo today.",
			want: []string{"/products/assistmd", "/#ethical-ai", "/#contact"},
		},
		{
			name: "no matches",
			body: "Nothing relevant here.",
			want: []string{},
		},
		{
			name: "both terms of a rule yield one link",
			body: "Our ethics board reviews every ethical question.",
			want: []string{"/#ethical-ai"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := content.SuggestInternalLinks(tc.body)
			if len(got) != len(tc.want) {
				t.Fatalf("SuggestInternalLinks() = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("link[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}
