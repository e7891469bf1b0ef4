package tasks

import "embed"

// TemplatesFS holds the email templates used by the tasks in this package.
//
//go:embed templates
var TemplatesFS embed.FS
