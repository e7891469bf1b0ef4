package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Landing is the public home page.
func Landing(p Page) templ.Component {
	return Layout(p, raw(
		`<h1>Ella Rises</h1>`+
			`<p>We walk alongside families as they build stability, skills, and community.</p>`+
			`<p><a class="button" href="/donate">Support our work</a></p>`))
}

// About describes the organization.
func About(p Page) templ.Component {
	return Layout(p, raw(
		`<h1>About Us</h1>`+
			`<p>Ella Rises runs mentoring, financial literacy, and family support programs. `+
			`Participants set their own milestones and we celebrate every one of them.</p>`))
}

// Contact renders the public contact form.
func Contact(p Page) templ.Component {
	return Layout(p, raw(
		`<h1>Contact Us</h1>`+
			`<form method="post" action="/contact">`+
			`<label>Name <input type="text" name="name" required></label>`+
			`<label>Email <input type="email" name="email" required></label>`+
			`<label>Message <textarea name="message" required></textarea></label>`+
			`<button type="submit">Send</button>`+
			`</form>`))
}

// Donate renders the public donation form.
func Donate(p Page) templ.Component {
	return Layout(p, raw(
		`<h1>Donate</h1>`+
			`<p>Every gift goes directly to program services.</p>`+
			`<form method="post" action="/donate">`+
			`<label>Name <input type="text" name="donor_name" required></label>`+
			`<label>Email <input type="email" name="donor_email" required></label>`+
			`<label>Phone <input type="tel" name="donor_phone"></label>`+
			`<label>Amount <input type="number" name="amount" min="1" step="0.01" required></label>`+
			`<label>Payment method <select name="payment_method">`+
			`<option value="card">Card</option><option value="check">Check</option>`+
			`<option value="cash">Cash</option></select></label>`+
			`<label>Notes <textarea name="notes"></textarea></label>`+
			`<button type="submit">Give</button>`+
			`</form>`))
}

// Teapot is the diagnostic page behind the 418 endpoint.
func Teapot(p Page) templ.Component {
	return Layout(p, raw(
		`<h1>I'm a teapot</h1>`+
			`<p>Short and stout. This endpoint exists only to prove the plumbing works.</p>`))
}

// Dashboard greets a signed-in user and links to the resource screens.
func Dashboard(p Page) templ.Component {
	return Layout(p, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		name := ""
		if p.User != nil {
			name = p.User.Username
		}
		if _, err := fmt.Fprintf(w, `<h1>Welcome back, %s</h1><ul class="dashboard-links">`,
			templ.EscapeString(name)); err != nil {
			return err
		}
		links := [][2]string{
			{"/participants", "Participants"},
			{"/events", "Events"},
			{"/surveys", "Surveys"},
			{"/milestones", "Milestones"},
			{"/donations", "Donations"},
		}
		if p.User != nil && p.User.Role.IsManager() {
			links = append(links, [2]string{"/users", "Users"})
		}
		for _, l := range links {
			if _, err := fmt.Fprintf(w, `<li><a href="%s">%s</a></li>`, l[0], l[1]); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	}))
}

// Login renders the sign-in form.
func Login(p Page) templ.Component {
	return Layout(p, raw(
		`<h1>Log in</h1>`+
			`<form method="post" action="/login">`+
			`<label>Username <input type="text" name="username" required></label>`+
			`<label>Password <input type="password" name="password" required></label>`+
			`<button type="submit">Log in</button>`+
			`</form>`))
}
