// Package api carries the hand-written OpenAPI spec served by the admin
// router at /swagger/openapi.json.
package api

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
