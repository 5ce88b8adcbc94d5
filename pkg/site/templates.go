package site

import "html/template"

const pageStyle = `    body { font-family: ui-monospace, SFMono-Regular, Menlo, Monaco, Consolas, monospace; max-width: 920px; margin: 2rem auto; padding: 0 1rem; line-height: 1.4; }
    h1 { margin-bottom: 0.25rem; }
    .meta { color: #5f6368; font-size: 0.95rem; margin-bottom: 1.5rem; }
    h2 { margin-top: 2rem; margin-bottom: 0.25rem; }
    ul { padding-left: 1.25rem; }
    li { margin: 0.5rem 0; }
    .details { color: #5f6368; font-size: 0.9rem; }`

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
` + pageStyle + `
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
{{- if .BaseURL}}
  <p class="meta">Use with <code>pip install --no-index --find-links {{.BaseURL}} PACKAGE==VERSION</code></p>
{{- end}}
{{- if not .Packages}}
  <p>No wheels published yet.</p>
{{- end}}
{{- range .Packages}}
  <h2 id="{{.Name}}"><a href="{{.Name}}/">{{.Name}}</a></h2>
  <ul>
{{- range .Wheels}}
    <li><a href="{{.Href}}">{{.Filename}}</a> <span class="details">version {{.Version}}, {{.Size}}</span></li>
{{- end}}
  </ul>
{{- end}}
</body>
</html>
`))

var packageTemplate = template.Must(template.New("package").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Package.Name}} · {{.Title}}</title>
  <style>
` + pageStyle + `
  </style>
</head>
<body>
  <h1>{{.Package.Name}}</h1>
  <p class="meta"><a href="../">all packages</a></p>
  <ul>
{{- range .Package.Wheels}}
    <li><a href="{{.Href}}">{{.Filename}}</a> <span class="details">version {{.Version}}, {{.Size}}</span></li>
{{- end}}
  </ul>
</body>
</html>
`))
