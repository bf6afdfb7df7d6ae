package kapture

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mwas/shiptrack/internal/sailing"
)

const itineraryPath = "/employee/show-itinerary-details-ajax"

// ItineraryRow is one day of a sailing's port schedule. Date keeps the
// portal's M/D/YYYY form, with arrive/depart times appended when the
// table carries them.
type ItineraryRow struct {
	Date string
	Port string
}

// Itinerary fetches and parses the day-by-day port schedule for one
// sailing.
func (c *Client) Itinerary(ctx context.Context, sailingID string) ([]ItineraryRow, error) {
	form := url.Values{}
	form.Set("sailing_id", sailingID)

	html, err := c.postForm(ctx, itineraryPath, form)
	if err != nil {
		return nil, err
	}

	rows, err := parseItineraryTable(html)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no itinerary rows for sailing %s", sailingID)
	}
	return rows, nil
}

// parseItineraryTable extracts rows from the bordered itinerary table:
// date, port, and optional arrive/depart columns. The first row is the
// header.
func parseItineraryTable(html string) ([]ItineraryRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.table.table-bordered")
	if table.Length() == 0 {
		return nil, fmt.Errorf("no itinerary table found")
	}

	var rows []ItineraryRow
	table.Find("tr").Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 2 {
			return
		}

		date := collapseSpace(tds.Eq(0).Text())
		port := collapseSpace(tds.Eq(1).Text())
		if date == "" || port == "" {
			return
		}

		var arrive, depart string
		if tds.Length() >= 4 {
			arrive = collapseSpace(tds.Eq(3).Text())
		}
		if tds.Length() >= 5 {
			depart = collapseSpace(tds.Eq(4).Text())
		}
		if times := joinTimes(arrive, depart); times != "" {
			date = date + " " + times
		}

		rows = append(rows, ItineraryRow{Date: date, Port: port})
	})

	return rows, nil
}

func joinTimes(arrive, depart string) string {
	switch {
	case arrive != "" && depart != "":
		return arrive + " - " + depart
	case arrive != "":
		return arrive
	case depart != "":
		return depart
	default:
		return ""
	}
}

var mdyRe = regexp.MustCompile(`^\s*(\d{1,2})/(\d{1,2})/(\d{4})`)

// ParseRowDate reads the leading M/D/YYYY date of an itinerary row into
// a day key. Returns 0 when the row does not start with a date.
func ParseRowDate(date string) sailing.DayKey {
	m := mdyRe.FindStringSubmatch(date)
	if m == nil {
		return 0
	}
	mo, _ := strconv.Atoi(m[1])
	d, _ := strconv.Atoi(m[2])
	y, _ := strconv.Atoi(m[3])
	key := sailing.NewDayKey(y, mo, d)
	if !key.Valid() {
		return 0
	}
	return key
}
