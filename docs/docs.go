// Package docs registers the OpenAPI document served under /swagger.
//
// Regenerate from the handler annotations with:
//
//	swag init -v3.1 -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "servers": [
        {
            "url": "//{{.Host}}{{.BasePath}}"
        }
    ],
    "security": [
        {
            "BearerAuth": []
        }
    ],
    "paths": {
        "/auth/session": {
            "get": {
                "tags": ["auth"],
                "summary": "Current session",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/operators/verify": {
            "post": {
                "tags": ["operators"],
                "summary": "Verify an operator PIN",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "429": {"description": "Too Many Requests"}}
            }
        },
        "/registers/{id}/shifts": {
            "post": {
                "tags": ["registers"],
                "summary": "Open a shift on a register",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/shifts/{id}/movements": {
            "get": {
                "tags": ["shifts"],
                "summary": "List shift movements",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["shifts"],
                "summary": "Record a cash movement",
                "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/shifts/{id}/close": {
            "post": {
                "tags": ["shifts"],
                "summary": "Close a shift with a counted amount",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/advances": {
            "post": {
                "tags": ["advances"],
                "summary": "Grant a salary advance",
                "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}
            }
        }
    },
    "components": {
        "securitySchemes": {
            "BearerAuth": {
                "type": "http",
                "scheme": "bearer",
                "bearerFormat": "JWT",
                "description": "Bearer token authentication. Format: \"Bearer {token}\""
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Cash Ledger API",
	Description:      "Branch cash-shift ledger: registers, shifts, movements, reconciliation and salary advances",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
