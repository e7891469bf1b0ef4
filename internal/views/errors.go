package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Forbidden is the themed 403 page shown by the page-style deny gate.
func Forbidden(p Page) templ.Component {
	return Layout(p, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Access denied</h1>`); err != nil {
			return err
		}
		if p.User != nil {
			if _, err := fmt.Fprintf(w,
				`<p>Sorry %s, your account does not have permission to view this page.</p>`,
				templ.EscapeString(p.User.Username)); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w,
				`<p>You do not have permission to view this page.</p>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<p><a href="/dashboard">Back to dashboard</a></p>`)
		return err
	}))
}

// NotFound is the themed 404 page.
func NotFound(p Page) templ.Component {
	return Layout(p, raw(
		`<h1>Page not found</h1>`+
			`<p>The page you were looking for doesn't exist.</p>`+
			`<p><a href="/">Back home</a></p>`))
}

// MethodNotAllowed is the themed 405 page.
func MethodNotAllowed(p Page) templ.Component {
	return Layout(p, raw(
		`<h1>Method not allowed</h1>`+
			`<p>That page exists, but it doesn't accept this kind of request.</p>`+
			`<p><a href="/">Back home</a></p>`))
}

// ServerError is the themed 500 page. Internal detail never reaches it.
func ServerError(p Page) templ.Component {
	return Layout(p, raw(
		`<h1>Something went wrong</h1>`+
			`<p>We hit an unexpected problem. Please try again in a moment.</p>`+
			`<p><a href="/">Back home</a></p>`))
}
