package templates

import _ "embed"

//go:embed report.html
var Report string
