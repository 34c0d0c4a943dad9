package presenter

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

var resultPage = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Check-in Result</title>
</head>
<body style="font-family: sans-serif; text-align: center; padding-top: 50px;">
<h1 style="color: {{if .Success}}#388E3C{{else}}#D32F2F{{end}};">{{.Message}}</h1>
<p>You can close this window.</p>
</body>
</html>
`))

// Page is the data rendered on the check-in result page.
type Page struct {
	Success bool
	Message string
}

// HTML renders the check-in result page.
func HTML(w http.ResponseWriter, r *http.Request, page Page, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := resultPage.Execute(w, page); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to render result page")
	}
}
