package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// row is one table row on a list page, with optional manager actions.
type row struct {
	EditPath   string
	DeletePath string
	Cells      []string
}

// listPage renders a resource table. Managers additionally see the
// new-record link and per-row edit/delete actions; everyone else gets
// the read-only table.
func listPage(p Page, heading, newPath string, headers []string, rows []row) templ.Component {
	canManage := p.User != nil && p.User.Role.IsManager()

	return Layout(p, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>%s</h1>`, templ.EscapeString(heading)); err != nil {
			return err
		}
		if canManage && newPath != "" {
			if _, err := fmt.Fprintf(w, `<p><a class="button" href="%s">Add new</a></p>`, newPath); err != nil {
				return err
			}
		}
		if len(rows) == 0 {
			_, err := io.WriteString(w, `<p class="empty">Nothing here yet.</p>`)
			return err
		}
		if _, err := io.WriteString(w, `<table><thead><tr>`); err != nil {
			return err
		}
		for _, h := range headers {
			if _, err := fmt.Fprintf(w, `<th>%s</th>`, templ.EscapeString(h)); err != nil {
				return err
			}
		}
		if canManage {
			if _, err := io.WriteString(w, `<th>Actions</th>`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tr></thead><tbody>`); err != nil {
			return err
		}
		for _, r := range rows {
			if _, err := io.WriteString(w, `<tr>`); err != nil {
				return err
			}
			for _, cell := range r.Cells {
				if _, err := fmt.Fprintf(w, `<td>%s</td>`, templ.EscapeString(cell)); err != nil {
					return err
				}
			}
			if canManage {
				if _, err := fmt.Fprintf(w,
					`<td><a href="%s">Edit</a> <form class="inline" method="post" action="%s">`+
						`<button type="submit">Delete</button></form></td>`,
					r.EditPath, r.DeletePath); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</tr>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	}))
}

// option is one choice in a select field.
type option struct {
	Value string
	Label string
}

// formField is one input on a resource form.
type formField struct {
	Label   string
	Name    string
	Type    string // text, email, tel, number, date, textarea, select
	Value   string
	Options []option // for select fields
}

// formPage renders a create/edit form posting to action.
func formPage(p Page, heading, action string, fields []formField) templ.Component {
	return Layout(p, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>%s</h1><form method="post" action="%s">`,
			templ.EscapeString(heading), action); err != nil {
			return err
		}
		for _, f := range fields {
			if err := renderField(w, f); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<button type="submit">Save</button></form>`)
		return err
	}))
}

func renderField(w io.Writer, f formField) error {
	label := templ.EscapeString(f.Label)
	name := templ.EscapeString(f.Name)
	value := templ.EscapeString(f.Value)

	switch f.Type {
	case "textarea":
		_, err := fmt.Fprintf(w, `<label>%s <textarea name="%s">%s</textarea></label>`,
			label, name, value)
		return err
	case "select":
		if _, err := fmt.Fprintf(w, `<label>%s <select name="%s">`, label, name); err != nil {
			return err
		}
		for _, opt := range f.Options {
			selected := ""
			if opt.Value == f.Value {
				selected = ` selected`
			}
			if _, err := fmt.Fprintf(w, `<option value="%s"%s>%s</option>`,
				templ.EscapeString(opt.Value), selected, templ.EscapeString(opt.Label)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</select></label>`)
		return err
	default:
		_, err := fmt.Fprintf(w, `<label>%s <input type="%s" name="%s" value="%s"></label>`,
			label, templ.EscapeString(f.Type), name, value)
		return err
	}
}
