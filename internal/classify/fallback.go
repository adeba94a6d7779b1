package classify

import (
	"strings"
	"time"

	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// Deterministic keyword-based extraction, used when the model is down
// or returns garbage. Coordinates are state-capital approximations.

type coordinates struct {
	Lat float64
	Lng float64
}

// stateCoordinates maps every Nigerian state (plus the FCT aliases) to
// its capital city.
var stateCoordinates = map[string]coordinates{
	"abia":        {5.4527, 7.5248},
	"adamawa":     {9.3265, 12.3984},
	"akwa ibom":   {5.0077, 7.8536},
	"anambra":     {6.2209, 6.9370},
	"bauchi":      {10.3158, 9.8442},
	"bayelsa":     {4.7719, 6.0699},
	"benue":       {7.7347, 8.5378},
	"borno":       {11.8333, 13.1500},
	"cross river": {4.9609, 8.3417},
	"delta":       {5.8904, 5.6804},
	"ebonyi":      {6.2649, 8.0137},
	"edo":         {6.3350, 5.6037},
	"ekiti":       {7.7190, 5.3110},
	"enugu":       {6.5244, 7.5106},
	"gombe":       {10.2897, 11.1689},
	"imo":         {5.4840, 7.0351},
	"jigawa":      {12.2230, 9.5619},
	"kaduna":      {10.5105, 7.4165},
	"kano":        {12.0022, 8.5920},
	"katsina":     {12.9908, 7.6177},
	"kebbi":       {12.4539, 4.1975},
	"kogi":        {7.7333, 6.7333},
	"kwara":       {8.4966, 4.5426},
	"lagos":       {6.5244, 3.3792},
	"nasarawa":    {8.5400, 8.3100},
	"niger":       {9.6139, 6.5569},
	"ogun":        {6.9082, 3.3470},
	"ondo":        {7.2571, 5.2058},
	"osun":        {7.5629, 4.5200},
	"oyo":         {7.8451, 3.9318},
	"plateau":     {9.2182, 9.5179},
	"rivers":      {4.8156, 7.0498},
	"sokoto":      {13.0622, 5.2339},
	"taraba":      {7.9897, 10.7739},
	"yobe":        {12.2941, 11.9661},
	"zamfara":     {12.1704, 6.6594},
	"fct":         {9.0765, 7.3986},
	"abuja":       {9.0765, 7.3986},
}

// conflictKeywords maps event types to their trigger words.
var conflictKeywords = map[string][]string{
	"clash":      {"clash", "clashes", "fighting", "battle", "combat"},
	"protest":    {"protest", "demonstration", "rally", "march"},
	"attack":     {"attack", "attacked", "assault", "raid", "strike"},
	"kidnapping": {"kidnap", "abduct", "hostage"},
	"banditry":   {"bandit", "bandits", "armed gang"},
	"terrorism":  {"boko haram", "iswap", "terrorist", "insurgent"},
	"communal":   {"communal", "ethnic", "tribal"},
	"violence":   {"violence", "violent", "killing", "killed", "death"},
}

// keywordOrder keeps the match precedence stable across runs.
var keywordOrder = []string{
	"clash", "protest", "attack", "kidnapping",
	"banditry", "terrorism", "communal", "violence",
}

var (
	criticalWords = []string{"killed", "death", "massacre", "slaughter", "bomb"}
	highWords     = []string{"injured", "wounded", "attack", "assault", "kidnap"}
	mediumWords   = []string{"protest", "clash", "tension"}
)

// lgaPatterns lists commonly referenced LGAs for major states. When no
// LGA is named in the text the extractor falls back to "<State> Central".
var lgaPatterns = map[string][]string{
	"Lagos":   {"ikeja", "surulere", "lagos island", "eti-osa", "alimosho"},
	"Borno":   {"maiduguri", "bama", "gwoza", "konduga"},
	"Kaduna":  {"kaduna north", "kaduna south", "zaria", "kafanchan"},
	"Kano":    {"kano municipal", "nassarawa", "fagge"},
	"Rivers":  {"port harcourt", "obio-akpor", "eleme"},
	"Plateau": {"jos north", "jos south", "barkin ladi"},
	"Abuja":   {"abuja municipal", "gwagwalada", "bwari"},
}

// SimpleExtract derives a ParsedEvent from an article using keyword
// rules alone. Returns false when the article carries no conflict
// signal or fails the minimum length checks; such articles are skipped.
func SimpleExtract(article models.Article) (models.ParsedEvent, bool) {
	title := strings.TrimSpace(article.Title)
	content := strings.TrimSpace(article.Content)
	if len(title) < 10 || len(content) < 50 {
		return models.ParsedEvent{}, false
	}

	combined := strings.ToLower(title + " " + content)
	if !containsConflictSignal(combined) {
		return models.ParsedEvent{}, false
	}

	state := extractState(combined)
	coords, ok := stateCoordinates[strings.ToLower(state)]
	if !ok {
		coords = stateCoordinates["abuja"]
	}
	lat, lng := coords.Lat, coords.Lng

	sourceTitle := title
	if len(sourceTitle) > 200 {
		sourceTitle = sourceTitle[:200]
	}

	return models.ParsedEvent{
		EventType:   extractEventType(combined),
		State:       state,
		LGA:         extractLGA(combined, state),
		Severity:    extractSeverity(combined),
		SourceTitle: sourceTitle,
		SourceURL:   article.URL,
		Latitude:    &lat,
		Longitude:   &lng,
		ParsedAt:    time.Now().UTC(),
	}, true
}

func containsConflictSignal(text string) bool {
	for _, words := range conflictKeywords {
		for _, word := range words {
			if strings.Contains(text, word) {
				return true
			}
		}
	}
	return false
}

func extractState(text string) string {
	for state := range stateCoordinates {
		if strings.Contains(text, state) {
			return titleCase(state)
		}
	}
	return "Nigeria"
}

func extractEventType(text string) string {
	for _, eventType := range keywordOrder {
		for _, word := range conflictKeywords[eventType] {
			if strings.Contains(text, word) {
				return eventType
			}
		}
	}
	return "conflict"
}

func extractSeverity(text string) string {
	for _, word := range criticalWords {
		if strings.Contains(text, word) {
			return "critical"
		}
	}
	for _, word := range highWords {
		if strings.Contains(text, word) {
			return "high"
		}
	}
	for _, word := range mediumWords {
		if strings.Contains(text, word) {
			return "medium"
		}
	}
	return "low"
}

func extractLGA(text, state string) string {
	for _, lga := range lgaPatterns[state] {
		if strings.Contains(text, lga) {
			return titleCase(lga)
		}
	}
	return state + " Central"
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
