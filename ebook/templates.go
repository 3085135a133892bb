package ebook

import "html/template"

const xhtmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

var pageTemplates = template.Must(template.New("pages").Parse(`
{{define "xhtml-head"}}<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="{{.Lang}}" lang="{{.Lang}}">
<head>
  <meta charset="UTF-8"/>
  <title>{{.PageTitle}}</title>
  <link rel="stylesheet" type="text/css" href="styles.css"/>
</head>
{{end}}

{{define "title.xhtml"}}{{template "xhtml-head" .}}<body>
  <div class="title-page">
    <h1 class="book-title">{{.Book.Title}}</h1>
    <p class="book-author">{{.Book.Author}}</p>
    {{- if .Book.Genre}}
    <p class="book-genre">{{.Book.Genre}}</p>
    {{- end}}
  </div>
</body>
</html>
{{end}}

{{define "toc.xhtml"}}{{template "xhtml-head" .}}<body>
  <div class="toc">
    <h1>Table of Contents</h1>
    <ol>
    {{- range .Chapters}}
      <li><a href="{{.File}}">{{.Title}}</a></li>
    {{- end}}
    </ol>
  </div>
</body>
</html>
{{end}}

{{define "chapter.xhtml"}}{{template "xhtml-head" .}}<body>
  <div class="chapter">
    <h1>{{.Chapter.Title}}</h1>
    {{.Chapter.Body}}
  </div>
</body>
</html>
{{end}}

{{define "document.html"}}<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
  <meta charset="UTF-8">
  <title>{{.Book.Title}}</title>
  <style>{{.CSS}}</style>
</head>
<body>
  <div class="title-page">
    <h1 class="book-title">{{.Book.Title}}</h1>
    <p class="book-author">by {{.Book.Author}}</p>
    {{- if .Book.Genre}}
    <p class="book-genre">{{.Book.Genre}}</p>
    {{- end}}
  </div>
  {{- range .Chapters}}
  <div class="chapter">
    <h2>{{.Title}}</h2>
    {{.Body}}
  </div>
  {{- end}}
</body>
</html>
{{end}}
`))
