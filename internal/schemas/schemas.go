package schemas

import "embed"

// SchemasFS содержит JSON-схемы событий, публикуемых сервисом.
//
//go:embed events
var SchemasFS embed.FS
