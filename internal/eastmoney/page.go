package eastmoney

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noDataMarker is the text the source puts in a single-cell row once the
// requested page is past the end of the history.
const noDataMarker = "暂无数据"

var (
	contentPattern = regexp.MustCompile(`(?s)content:\s*"(.*)"\s*,\s*records\s*:`)
	recordsPattern = regexp.MustCompile(`records\s*:\s*(\d+)`)
	pagesPattern   = regexp.MustCompile(`pages\s*:\s*(\d+)`)
)

// ParsePage extracts the NAV table from a F10DataApi response body.
func ParsePage(body []byte) (RawPage, error) {
	text := string(body)

	match := contentPattern.FindStringSubmatch(text)
	if match == nil {
		return RawPage{}, fmt.Errorf("%w: content field not found", ErrMalformedPage)
	}
	content := match[1]
	if strings.Contains(content, noDataMarker) {
		return RawPage{}, ErrEndOfData
	}

	page := RawPage{
		Records: intField(recordsPattern, text),
		Pages:   intField(pagesPattern, text),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return RawPage{}, fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return RawPage{}, fmt.Errorf("%w: no table in content", ErrMalformedPage)
	}

	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		page.Headers = append(page.Headers, cellText(th))
	})
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := []string{}
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, cellText(td))
		})
		if len(cells) > 0 {
			page.Rows = append(page.Rows, cells)
		}
	})

	if len(page.Rows) == 0 {
		return RawPage{}, ErrEndOfData
	}
	return page, nil
}

func cellText(s *goquery.Selection) string {
	return strings.TrimSpace(strings.ReplaceAll(s.Text(), "\u00a0", " "))
}

func intField(pattern *regexp.Regexp, text string) int {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
