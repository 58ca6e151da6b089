// Package api carries the published OpenAPI document.
package api

import _ "embed"

//go:embed openapi.yml
var OpenAPI []byte
