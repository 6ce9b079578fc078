package catalog

import "github.com/GTDGit/grocery_api/internal/models"

// DisplayName resolves the human-readable name of a product:
//  1. the value of the English entry, when present and non-empty
//  2. the value of the first entry
//  3. the empty string
func DisplayName(p *models.Product) string {
	for _, n := range p.Names {
		if n.Language == models.LanguageEnglish {
			if n.Value != "" {
				return n.Value
			}
			break
		}
	}
	if len(p.Names) > 0 {
		return p.Names[0].Value
	}
	return ""
}
