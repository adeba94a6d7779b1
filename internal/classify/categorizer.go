package classify

import (
	"strings"

	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// Rule-based categorization fallback. Confidences are fixed per
// category: keyword matching is decent evidence for banditry and
// kidnapping reports, weaker for the fuzzier categories.

type categoryRule struct {
	category   string
	confidence float64
	keywords   []string
}

// Rules are ordered by specificity; the first match wins.
var categoryRules = []categoryRule{
	{
		category:   models.CategoryKidnapping,
		confidence: 75,
		keywords:   []string{"kidnap", "abduct", "abduction", "hostage", "ransom"},
	},
	{
		category:   models.CategoryBanditry,
		confidence: 70,
		keywords:   []string{"bandit", "bandits", "banditry", "armed robbery", "armed gang", "cattle rustl"},
	},
	{
		category:   models.CategoryGunmen,
		confidence: 65,
		keywords:   []string{"gunmen", "gunman", "unknown gunmen", "shooting", "shot dead"},
	},
	{
		category:   models.CategoryFarmerHerder,
		confidence: 60,
		keywords:   []string{"farmer", "herder", "herdsmen", "pastoralist", "grazing", "farmland"},
	},
}

const unknownConfidence = 20

// RuleCategorize classifies an article by keywords, returning the
// category and its fixed confidence.
func RuleCategorize(title, content string) (string, float64) {
	text := strings.ToLower(title + " " + content)
	for _, rule := range categoryRules {
		for _, word := range rule.keywords {
			if strings.Contains(text, word) {
				return rule.category, rule.confidence
			}
		}
	}
	return models.CategoryUnknown, unknownConfidence
}
