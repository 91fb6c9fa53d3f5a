package web

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body>
  <h1>{{.Title}}</h1>
  <p>{{.Description}} RSS feed at <a href="{{.Link}}">{{.Link}}</a>.</p>
{{- if .IndexURL}}
  <p><a href="{{.IndexURL}}">Back to all feeds</a></p>
{{- end}}
{{- range .Episodes}}
  <article>
    <h2><a href="{{.URL}}">{{.Title}}</a></h2>
    <ul>
      <li>Directory: {{.Directory}}</li>
      <li>File: {{.Filename}}</li>
      <li>Date: {{.Date}}</li>
      <li>Size: {{.Size}}</li>
      <li>Mimetype: {{.MimeType}}</li>
      <li>Duration: {{.DurationFormatted}}</li>
    </ul>
    <audio controls preload="none">
      <source src="{{.URL}}">
    </audio>
  </article>
{{- end}}
</body>
</html>
`

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body>
  <h1>{{.Title}}</h1>
{{- range .Folders}}
  <article>
{{- if .ImageURL}}
    <img src="{{.ImageURL}}" alt="{{.Name}} cover" width="120">
{{- end}}
    <h2><a href="{{.WebPath}}">{{.Name}}</a></h2>
    <ul>
      <li>Episodes: {{.EpisodeCount}}</li>
      <li>RSS: <a href="{{.FeedPath}}">{{.FeedURL}}</a></li>
    </ul>
  </article>
{{- end}}
</body>
</html>
`
