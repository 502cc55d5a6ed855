package content

import "strings"

// linkRule maps terms appearing in generated content to a site path.
type linkRule struct {
	terms []string
	path  string
}

// internalLinkRules is the fixed lookup table for internal link suggestions.
// Product names are matched case-sensitively, topical terms as written.
var internalLinkRules = []linkRule{
	{terms: []string{"Armada Housecall"}, path: "/products/housecall"},
	{terms: []string{"Armada AssistMD"}, path: "/products/assistmd"},
	{terms: []string{"Armada ArkPass"}, path: "/products/arkpass"},
	{terms: []string{"ethics", "ethical"}, path: "/#ethical-ai"},
	{terms: []string{"contact", "demo"}, path: "/#contact"},
}

// SuggestInternalLinks returns site paths whose associated terms appear in
// the content, in table order, without duplicates.
func SuggestInternalLinks(body string) []string {
	links := []string{}
	for _, rule := range internalLinkRules {
		for _, term := range rule.terms {
			if strings.Contains(body, term) {
				links = append(links, rule.path)
				break
			}
		}
	}
	return links
}
