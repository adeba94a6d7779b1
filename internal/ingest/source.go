package ingest

// Source types. RSS sources parse the feed; web sources fetch the index
// page and walk CSS selectors for article links.
const (
	SourceTypeRSS = "rss"
	SourceTypeWeb = "web"
)

// Source describes one news origin. A source with type rss and a feed
// URL is parsed feed-first; otherwise the web URL is scraped with the
// selector list tried in order.
type Source struct {
	Name      string   `json:"name"`
	RSSURL    string   `json:"rss_url,omitempty"`
	WebURL    string   `json:"web_url,omitempty"`
	Selectors []string `json:"selectors,omitempty"`
	Type      string   `json:"type"`
}

// DefaultSources is the national dailies roster the scheduler runs with
// when no custom source list is configured.
func DefaultSources() []Source {
	return []Source{
		{
			Name:   "Premium Times",
			RSSURL: "https://www.premiumtimesng.com/feed",
			WebURL: "https://www.premiumtimesng.com/category/news",
			Selectors: []string{
				"h3.jeg_post_title a",
				".jeg_postblock_content a",
				"article h2 a",
			},
			Type: SourceTypeRSS,
		},
		{
			Name:   "The Punch",
			RSSURL: "https://punchng.com/feed/",
			WebURL: "https://punchng.com/topics/news/",
			Selectors: []string{
				".post-title a",
				"article .entry-title a",
			},
			Type: SourceTypeRSS,
		},
		{
			Name:   "Vanguard",
			RSSURL: "https://www.vanguardngr.com/feed/",
			WebURL: "https://www.vanguardngr.com/category/national-news/",
			Selectors: []string{
				".entry-title a",
				"h2.post-title a",
			},
			Type: SourceTypeRSS,
		},
		{
			Name:   "Daily Trust",
			WebURL: "https://dailytrust.com/topics/news/",
			Selectors: []string{
				".jeg_post_title a",
				"article h3 a",
				"h2 a",
			},
			Type: SourceTypeWeb,
		},
		{
			Name:   "TheCable",
			RSSURL: "https://www.thecable.ng/feed",
			WebURL: "https://www.thecable.ng/category/top-stories",
			Selectors: []string{
				".post-title a",
				"article h2 a",
			},
			Type: SourceTypeRSS,
		},
		{
			Name:   "Channels Television",
			RSSURL: "https://www.channelstv.com/feed/",
			WebURL: "https://www.channelstv.com/category/headlines/",
			Selectors: []string{
				".post-title a",
				"h3.entry-title a",
			},
			Type: SourceTypeRSS,
		},
		{
			Name:   "Sahara Reporters",
			WebURL: "https://saharareporters.com/news",
			Selectors: []string{
				".views-row h2 a",
				".node-title a",
				"h2 a",
			},
			Type: SourceTypeWeb,
		},
		{
			Name:   "Leadership",
			RSSURL: "https://leadership.ng/feed/",
			WebURL: "https://leadership.ng/category/news/",
			Selectors: []string{
				".jeg_post_title a",
				"article h3 a",
			},
			Type: SourceTypeRSS,
		},
	}
}
