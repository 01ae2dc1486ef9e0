package adlibrary

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/vfg2006/adlibrary-tracker/internal/domain"
	"golang.org/x/net/html"
)

// Text markers of the card fields, as rendered with an English UI
const (
	markerCreativeID     = "ID: "
	markerBodyUse        = "use this creative and text"
	markerVersions       = "This ad has multiple versions"
	markerStartedRunning = "Started running on"
)

const (
	brandSelector  = `a[href] > div[role="heading"]`
	headerSelector = `div[role="button"] > div[style]`
	bodySelector   = `div[style*="pre-wrap"]`
)

var creativeIDPattern = regexp.MustCompile(`ID:\s*([0-9A-Za-z_-]+)`)

// Extract reads the brand and every ad card of a rendered library page
func Extract(page string) (*domain.ScrapeResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse page")
	}

	result := &domain.ScrapeResult{
		BrandName: strings.TrimSpace(doc.Find(brandSelector).First().Text()),
	}

	for _, card := range findCards(doc) {
		result.Ads = append(result.Ads, extractCard(card))
	}

	return result, nil
}

// findCards returns the card containers: divs without compound classes that
// are children of the element three levels above each separator
func findCards(doc *goquery.Document) []*goquery.Selection {
	seen := make(map[*html.Node]bool)
	var cards []*goquery.Selection

	doc.Find("hr").Each(func(_ int, hr *goquery.Selection) {
		container := hr.Parent().Parent().Parent()
		container.ChildrenFiltered("div").Each(func(_ int, div *goquery.Selection) {
			class, _ := div.Attr("class")
			if strings.Contains(class, " ") {
				return
			}
			node := div.Get(0)
			if seen[node] {
				return
			}
			seen[node] = true
			cards = append(cards, div)
		})
	})

	return cards
}

func extractCard(card *goquery.Selection) domain.RawAd {
	ad := domain.RawAd{
		AdHeader:           strings.TrimSpace(card.Find(headerSelector).First().Text()),
		AdCreative:         creativeText(card),
		CreativeAndBodyUse: spanText(card, markerBodyUse),
		VersionInfo:        spanText(card, markerVersions),
		LandingURL:         landingURL(card),
	}

	if id := spanText(card, markerCreativeID); id != "" {
		if m := creativeIDPattern.FindStringSubmatch(id); m != nil {
			ad.CreativeID = m[1]
		}
	}

	if started := spanText(card, markerStartedRunning); started != "" {
		// "Started running on May 1, 2024 · Total active time 9 hrs"
		if i := strings.Index(started, "·"); i >= 0 {
			started = started[:i]
		}
		ad.StartedRunning = strings.TrimSpace(started)
	}

	return ad
}

// spanText returns the shortest span text containing marker, which is the
// innermost span carrying it
func spanText(card *goquery.Selection, marker string) string {
	var found string
	card.Find("span").Each(func(_ int, span *goquery.Selection) {
		text := strings.TrimSpace(span.Text())
		if !strings.Contains(text, marker) {
			return
		}
		if found == "" || len(text) < len(found) {
			found = text
		}
	})
	return found
}

// creativeText joins the body text with the file names of the card media
func creativeText(card *goquery.Selection) string {
	var parts []string

	if body := strings.TrimSpace(card.Find(bodySelector).First().Text()); body != "" {
		parts = append(parts, body)
	}

	card.Find("video[src], img[src]").Each(func(_ int, media *goquery.Selection) {
		// the advertiser avatar sits inside the page link
		if media.ParentsFiltered("a[href]").Length() > 0 {
			return
		}
		src, _ := media.Attr("src")
		if name := mediaName(src); name != "" {
			parts = append(parts, name)
		}
	})

	return strings.Join(parts, " ")
}

func mediaName(src string) string {
	u, err := url.Parse(src)
	if err != nil || u.Path == "" {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}

// landingURL returns the first outbound link of the card, unwrapping the
// redirect shim when present
func landingURL(card *goquery.Selection) string {
	var landing string
	card.Find(`a[href][target="_blank"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		u, err := url.Parse(href)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return true
		}
		if target := u.Query().Get("u"); target != "" && strings.HasSuffix(u.Path, "/l.php") {
			landing = target
			return false
		}
		landing = u.String()
		return false
	})
	return landing
}
