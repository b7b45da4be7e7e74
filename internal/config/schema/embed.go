// Package schema embeds the JSON schema for the sbomlx configuration file.
package schema

import _ "embed"

//go:embed config.schema.json
var ConfigSchema []byte
