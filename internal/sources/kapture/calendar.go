package kapture

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mwas/shiptrack/internal/sailing"
)

const monthWisePath = "/employee/get-cruise-sailing-details-month-wise-ajax"

var digitsOnly = regexp.MustCompile(`^\d+$`)

// MonthCandidates fetches one calendar page of the sailing schedule and
// returns the parseable candidate ranges. Rows without a numeric sailing
// id or a recognizable date-range label are not sailings and are
// silently skipped.
func (c *Client) MonthCandidates(ctx context.Context, cruiseID string, ref sailing.MonthRef) ([]sailing.Range, error) {
	form := url.Values{}
	form.Set("cruise_id", cruiseID)
	form.Set("cal_month", strconv.Itoa(ref.Month))
	form.Set("cal_year", strconv.Itoa(ref.Year))

	html, err := c.postForm(ctx, monthWisePath, form)
	if err != nil {
		return nil, err
	}
	return parseSailingTable(html, ref)
}

// parseSailingTable extracts candidate ranges from the month-wise HTML:
// one table.sailing_details_table, sailing id in the first cell, the
// date-range label in the third.
func parseSailingTable(html string, ref sailing.MonthRef) ([]sailing.Range, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var out []sailing.Range
	doc.Find("table.sailing_details_table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 3 {
			return
		}

		id := collapseSpace(tds.Eq(0).Text())
		if !digitsOnly.MatchString(id) {
			return
		}

		label := collapseSpace(tds.Eq(2).Text())
		r := sailing.ParseRangeLabel(label, ref.Month, ref.Year)
		if r == nil {
			return
		}
		r.ID = id
		out = append(out, *r)
	})

	return out, nil
}

var spaceRun = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
