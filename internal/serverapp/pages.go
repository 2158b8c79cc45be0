package serverapp

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"idlepost/internal/leaderboard"
)

func homePage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>idlepost</title>
</head>
<body>
  <h1>idlepost</h1>
  <p>Click for karma. Buy upgrades. Go viral.</p>
  <p><a href="/board">Leaderboard</a></p>
</body>
</html>`)
		return err
	})
}

func boardPage(rows []leaderboard.Entry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>idlepost leaderboard</title>
</head>
<body>
  <h1>Leaderboard</h1>
  <table>
    <thead><tr><th>#</th><th>Player</th><th>Score</th><th>Prestige</th></tr></thead>
    <tbody>
`); err != nil {
			return err
		}
		for _, e := range rows {
			row := fmt.Sprintf("      <tr><td>%d</td><td>%s</td><td>%.0f</td><td>%d</td></tr>\n",
				e.Rank, html.EscapeString(e.Name), e.Score, e.Prestige)
			if _, err := io.WriteString(w, row); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `    </tbody>
  </table>
  <p><a href="/">Back</a></p>
</body>
</html>`)
		return err
	})
}
