// Package views renders HTML pages as templ-compatible components.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/ellarises/webapp/pkg/session"
)

// Page carries the data every rendered page receives.
type Page struct {
	Title    string
	User     *session.Identity
	Messages []session.Message
}

// Layout wraps body in the shared page chrome: navigation, flash
// messages, and footer. Every page rendering goes through here.
func Layout(p Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
				`<meta name="viewport" content="width=device-width, initial-scale=1">`+
				`<title>%s — Ella Rises</title>`+
				`<link rel="stylesheet" href="/static/styles.css"></head><body>`,
			templ.EscapeString(p.Title)); err != nil {
			return err
		}
		if err := nav(p.User).Render(ctx, w); err != nil {
			return err
		}
		if err := flashes(p.Messages).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main class="container">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w,
			`</main><footer><p>Ella Rises — lifting families, one milestone at a time.</p></footer></body></html>`)
		return err
	})
}

func nav(user *session.Identity) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w,
			`<nav><a href="/">Home</a> <a href="/about">About</a> <a href="/contact">Contact</a> <a href="/donate">Donate</a>`); err != nil {
			return err
		}
		if user != nil {
			if _, err := fmt.Fprintf(w,
				` <a href="/dashboard">Dashboard</a> <span class="nav-user">%s</span> <a href="/logout">Log out</a>`,
				templ.EscapeString(user.Username)); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, ` <a href="/login">Log in</a>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</nav>`)
		return err
	})
}

// flashes renders the pending one-shot messages, if any.
func flashes(msgs []session.Message) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(msgs) == 0 {
			return nil
		}
		if _, err := io.WriteString(w, `<div class="flashes">`); err != nil {
			return err
		}
		for _, m := range msgs {
			if _, err := fmt.Fprintf(w, `<div class="flash flash-%s">%s</div>`,
				templ.EscapeString(string(m.Kind)),
				templ.EscapeString(m.Text)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// raw writes a trusted HTML fragment.
func raw(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}
