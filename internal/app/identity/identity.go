// Package identity holds the demo travel identity card and its share payload.
package identity

import "fmt"

// DefaultShareURL is what the share sheet links to unless configured.
const DefaultShareURL = "https://github-readme-stats.vercel.app"

type Card struct {
	FullName    string
	Nationality string
	TravelID    string
	Expiry      string
	Verified    bool
}

// DemoCard is the card rendered by the Verified ID screen.
var DemoCard = Card{
	FullName:    "ARJUN SHARMA",
	Nationality: "INDIAN",
	TravelID:    "BY-8832-7721-0004",
	Expiry:      "DEC 2029",
	Verified:    true,
}

// Share is the payload handed to the client's share sheet. Clients without
// a share sheet copy URL to the clipboard instead.
type Share struct {
	Title string
	Text  string
	URL   string
}

func ShareSummary(c Card, url string) Share {
	if url == "" {
		url = DefaultShareURL
	}
	return Share{
		Title: "Bharat Yatra Verified ID",
		Text: fmt.Sprintf("Check out my verified travel identity on Bharat Yatra. %s (%s), ID %s, valid until %s.",
			c.FullName, c.Nationality, c.TravelID, c.Expiry),
		URL: url,
	}
}
