package server

import (
	"html/template"
)

const indexTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <link rel="stylesheet" href="https://unpkg.com/bulma">
  <title>{{.Title}}</title>
</head>
<body>
<div class="section">
  <div class="level">
    <div class="level-left">
      <div class="level-item"><h1 class="title">{{.Title}}</h1></div>
    </div>
    <div class="level-right">
      <div class="level-item">
        <div class="field is-grouped is-grouped-multiline">
          <div class="control">
            <div class="tags has-addons">
              <span class="tag">Directories</span><span class="tag is-primary" id="directory-count">{{.DirectoryCount}}</span>
            </div>
          </div>
          <div class="control">
            <div class="tags has-addons">
              <span class="tag">Files</span><span class="tag is-primary" id="file-count">{{.FileCount}}</span>
            </div>
          </div>
        </div>
      </div>
    </div>
  </div>

  {{if .Error}}
  <div class="notification is-danger">{{.Error}}</div>
  {{else}}
  <div class="columns has-background-light">
    <div class="column is-one-third" style="min-height: 60vh;">
      <div class="menu">
        <p class="menu-label" style="text-transform: inherit;"><a href="{{.RootHref}}">Directory:</a>
          {{range $i, $crumb := .Breadcrumbs}}{{if $i}}/{{end}}{{if $crumb.Href}}<a href="{{$crumb.Href}}">{{$crumb.Name}}</a>{{else}}{{$crumb.Name}}{{end}}{{end}}
        </p>
        <ul class="menu-list">
          {{range .Directories}}<li><a href="{{.Href}}">{{.Name}}</a></li>
          {{end}}
        </ul>
      </div>
    </div>
    <div class="column">
      {{if .Files}}
      <ul class="panel has-background-white">
        {{range .Files}}<li class="panel-block"><a href="{{.Href}}">{{.Name}}</a></li>
        {{end}}
      </ul>
      {{else}}
      <p><i>No files found!</i></p>
      {{end}}
    </div>
  </div>

  {{if .DirStat}}
  <div id="dir-stat" style="display: none">
    <h1 class="subtitle has-text-centered">Directory Stat</h1>
    <div class="level"><div class="level-item"><pre id="stats-output"></pre></div></div>
  </div>
  <div id="dir-stat-error" style="display: none" class="has-text-centered">
    <p>There seems to be a problem with the <code>{{.StatsCommand}}</code> tool. Have you installed it?</p>
  </div>
  {{end}}
  {{end}}
</div>

<div class="footer has-background-white">
  <div class="level">
    <div class="level-item has-text-centered">
      <div>
        <p>Powered by index-listing</p>
        {{if not .DirStat}}<p><a href="{{.DirStatHref}}">view dir stats</a></p>{{end}}
      </div>
    </div>
  </div>
</div>

{{if and .DirStat (not .Error)}}
<script>
  var url = {{.StatsURL}};
  document.addEventListener('DOMContentLoaded', function () {
    fetch(url).then(function (resp) { return resp.json(); }).then(function (data) {
      if (!data.error_message) {
        document.getElementById('stats-output').innerText = data.output;
        document.getElementById('dir-stat').style.display = 'inherit';
      } else {
        console.warn('Fetch failed: ' + data.error_message);
        document.getElementById('dir-stat-error').style.display = 'inherit';
      }
    });
  });
</script>
{{end}}
</body>
</html>`

type indexPageData struct {
	Title          string
	RootHref       string
	Error          string
	Breadcrumbs    []linkView
	Directories    []linkView
	Files          []linkView
	DirectoryCount int
	FileCount      int
	DirStat        bool
	DirStatHref    string
	StatsURL       string
	StatsCommand   string
}

// linkView is a named link; an empty Href renders the name as plain text.
type linkView struct {
	Name string
	Href string
}

func newIndexTemplate() (*template.Template, error) {
	return template.New("index").Parse(indexTemplate)
}
