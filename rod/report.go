package rod

import (
	"html/template"
	"strings"

	"github.com/fwojciec/prospector"
)

// reportTemplate lays out the sales report: company header with favicon,
// profile, strategy, roster, and the appendix of source pages.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Company.Name}} - Sales Strategy</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 2.5em; color: #1a1a1a; }
header { display: flex; align-items: center; gap: 0.6em; border-bottom: 2px solid #1a1a1a; padding-bottom: 0.6em; }
header img { width: 28px; height: 28px; }
h1 { font-size: 1.6em; margin: 0; }
h2 { font-size: 1.2em; margin-top: 1.6em; border-bottom: 1px solid #ccc; padding-bottom: 0.2em; }
.person { margin-bottom: 1em; }
.person .name { font-weight: bold; }
.person .title { color: #555; }
.appendix a { color: #0645ad; text-decoration: none; word-break: break-all; }
.appendix li { margin-bottom: 0.3em; }
</style>
</head>
<body>
<header>
{{if .FaviconURL}}<img src="{{.FaviconURL}}" alt="">{{end}}
<h1>{{.Company.Name}}</h1>
</header>
{{if .Company.Summary}}<h2>About</h2><p>{{.Company.Summary}}</p>{{end}}
{{if .Company.Mission}}<h2>Mission</h2><p>{{.Company.Mission}}</p>{{end}}
<h2>Sales Strategy</h2>
{{.StrategyHTML}}
{{if .People}}<h2>People</h2>
{{range .People}}<div class="person">
<div class="name">{{.Name}}</div>
{{if .Title}}<div class="title">{{.Title}}</div>{{end}}
{{if .Summary}}<p>{{.Summary}}</p>{{end}}
</div>
{{end}}{{end}}
{{if .AppendixURLs}}<h2>Appendix: Sources</h2>
<ol class="appendix">
{{range .AppendixURLs}}<li><a href="{{.}}">{{.}}</a></li>
{{end}}</ol>{{end}}
</body>
</html>
`))

type reportData struct {
	Company      prospector.CompanyProfile
	StrategyHTML template.HTML
	People       []prospector.Person
	AppendixURLs []string
	FaviconURL   string
}

// BuildReportHTML renders the report document. The strategy is trusted HTML
// produced by the extraction agent; all other fields are escaped.
func BuildReportHTML(report *prospector.Report) (string, error) {
	var sb strings.Builder
	err := reportTemplate.Execute(&sb, reportData{
		Company:      report.Company,
		StrategyHTML: template.HTML(report.Strategy),
		People:       report.People,
		AppendixURLs: report.AppendixURLs,
		FaviconURL:   report.FaviconURL,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
