package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobtrackr/internal/models"
	"github.com/jimezsa/jobtrackr/internal/network"
)

const (
	onlineJobsOrigin   = "https://www.onlinejobs.ph"
	onlineJobsLocation = "Remote (OnlineJobs.ph)"
)

// OnlineJobs scrapes the OnlineJobs.ph search results page.
type OnlineJobs struct {
	client network.Doer
	origin string
}

func NewOnlineJobs(client network.Doer) *OnlineJobs {
	return &OnlineJobs{client: client, origin: onlineJobsOrigin}
}

func (o *OnlineJobs) Name() string {
	return SiteOnlineJobs
}

func (o *OnlineJobs) Search(ctx context.Context, params models.SearchParams) ([]models.RawJob, error) {
	doc, err := fetchDocument(ctx, o.client, SiteOnlineJobs, o.buildURL(params.Query), map[string]string{
		"User-Agent": network.DefaultUserAgent,
	})
	if err != nil {
		return nil, err
	}
	return parseOnlineJobs(doc, o.origin, params.Limit), nil
}

func (o *OnlineJobs) buildURL(query string) string {
	return o.origin + "/jobseekers/jobsearch?jobkeyword=" + url.QueryEscape(query)
}

func parseOnlineJobs(doc *goquery.Document, origin string, limit int) []models.RawJob {
	var jobs []models.RawJob
	doc.Find("div.job-item").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if limit > 0 && len(jobs) >= limit {
			return false
		}
		jobs = append(jobs, models.NewHTMLJob(parseOnlineJobsItem(s, origin)))
		return true
	})
	return jobs
}

func parseOnlineJobsItem(s *goquery.Selection, origin string) models.HTMLListing {
	listing := models.HTMLListing{
		Title:       textOr(s, "div.job-title > a", models.NotAvailable),
		Company:     textOr(s, "div.job-employer", models.NotAvailable),
		Location:    onlineJobsLocation,
		Description: textOr(s, "div.job-desc", ""),
		Salary:      textOr(s, "div.job-salary", models.NotAvailable),
		PostedRaw:   strings.TrimSpace(s.AttrOr("data-posted", "")),
	}

	if href, ok := s.Find("div.job-title > a").First().Attr("href"); ok {
		listing.Link = absoluteURL(origin, href)
	}
	return listing
}
