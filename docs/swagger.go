package docs

import "github.com/swaggo/swag"

// @title           Classroom Kanban API
// @version         1.0
// @description     API for managing classroom tasks, boards, groups and live task notifications

// @contact.name   API Support
// @contact.email  support@kanban.local

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @tag.name Users
// @tag.description User management operations

// @tag.name Groups
// @tag.description Student group management operations

// @tag.name Boards
// @tag.description Board management operations

// @tag.name Tasks
// @tag.description Task lifecycle and assignment operations

// @tag.name Notifications
// @tag.description Websocket task event subscription

// SwaggerInfo returns the registered swagger description, or nil before
// `swag init` has generated and registered one.
func SwaggerInfo() swag.Swagger {
	return swag.GetSwagger(swag.Name)
}
