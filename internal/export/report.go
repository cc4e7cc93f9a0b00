package export

import (
	"html/template"
	"io"
	"os"
	"time"

	"github.com/jimezsa/jobtrackr/internal/models"
)

const defaultReportTitle = "Job Scraper Debug"

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"ts": formatTime,
	"rfc3339": func(ts time.Time) string {
		return ts.UTC().Format(time.RFC3339)
	},
}).Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>Scraped Job Listings</h1>
<p>{{len .Jobs}} jobs</p>
<ul>
{{- range .Jobs}}
<li>
<strong>Title:</strong> {{.Title}}<br>
<strong>Company:</strong> {{.Company}}<br>
<strong>Location:</strong> {{.Location}}<br>
<strong>Salary:</strong> {{.Salary}}<br>
<strong>Source:</strong> {{.Source}}<br>
<strong>Query:</strong> {{.Query}}<br>
<strong>Link:</strong> {{if .Link}}<a href="{{.Link}}">{{.Link}}</a>{{else}}-{{end}}<br>
<strong>Posted:</strong> {{with ts .PostedAt}}{{.}}{{else}}-{{end}}<br>
<strong>Scraped:</strong> {{rfc3339 .ScrapedAt}}<br>
<strong>Description:</strong> {{.Description}}
</li><hr>
{{- end}}
</ul>
</body>
</html>
`))

// WriteReport renders the debug listing of a batch.
func WriteReport(w io.Writer, jobs []models.Job, title string) error {
	if title == "" {
		title = defaultReportTitle
	}
	return reportTemplate.Execute(w, struct {
		Title string
		Jobs  []models.Job
	}{Title: title, Jobs: jobs})
}

// WriteReportFile renders the debug listing to path.
func WriteReportFile(path string, jobs []models.Job) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteReport(file, jobs, ""); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
