// Package docs holds the OpenAPI description of the HTTP API, registered with
// swag so it can be served at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/transform": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Uploads an image and returns it transformed into the chosen artistic style. Each success consumes one transformation; the updated usage is returned in the X-Usage-Stats header.",
                "consumes": ["multipart/form-data"],
                "produces": ["image/png", "image/jpeg", "application/json"],
                "tags": ["transform"],
                "summary": "Stylize a portrait",
                "parameters": [
                    {"type": "file", "description": "JPEG or PNG image, at most 10 MiB", "name": "image", "in": "formData", "required": true},
                    {"type": "string", "description": "Style name, defaults to Anime Style", "name": "style", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "stylized image", "schema": {"type": "file"}, "headers": {"X-Usage-Stats": {"type": "string", "description": "JSON encoded usage stats"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.QuotaResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/styles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["transform"],
                "summary": "List available styles",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/transform.StylesResponse"}}}
            }
        },
        "/user/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get the caller's usage statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.StatsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/health.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/health.Response"}}
                }
            }
        },
        "/ping": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/test": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Verify a token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.TestResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/whoami": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Describe the caller",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.WhoAmIResponse"}}}
            }
        },
        "/admin/usage": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List usage for every user (admin)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.UsageListResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/admin/usage/{uid}/reset": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Reset a user's quota (admin)",
                "parameters": [{"type": "string", "description": "User ID", "name": "uid", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.ResetResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "errors.QuotaResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "code": {"type": "string"},
                "message": {"type": "string"},
                "usage": {"$ref": "#/definitions/usage.UsageStats"}
            }
        },
        "usage.HistoryEntry": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "timestamp": {"type": "string"},
                "count": {"type": "integer"}
            }
        },
        "usage.UsageStats": {
            "type": "object",
            "properties": {
                "transformationsUsed": {"type": "integer"},
                "transformationsRemaining": {"type": "integer"},
                "maxTransformations": {"type": "integer"},
                "lastReset": {"type": "string"},
                "recentHistory": {"type": "array", "items": {"$ref": "#/definitions/usage.HistoryEntry"}}
            }
        },
        "identity": {
            "type": "object",
            "properties": {
                "uid": {"type": "string"},
                "email": {"type": "string"},
                "emailVerified": {"type": "boolean"},
                "name": {"type": "string"}
            }
        },
        "auth.TestResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/identity"}
            }
        },
        "auth.WhoAmIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "authenticated": {"type": "boolean"},
                "user": {"$ref": "#/definitions/identity"}
            }
        },
        "users.StatsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "user": {"$ref": "#/definitions/identity"},
                "usage": {"$ref": "#/definitions/usage.UsageStats"}
            }
        },
        "health.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "status": {"type": "string"},
                "service": {"type": "string"},
                "message": {"type": "string"},
                "timestamp": {"type": "string"},
                "storage": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "transform.StylesResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "default": {"type": "string"},
                "styles": {"type": "array", "items": {"type": "object", "properties": {"name": {"type": "string"}}}}
            }
        },
        "admin.UsageListResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "count": {"type": "integer"},
                "users": {"type": "object", "additionalProperties": {"$ref": "#/definitions/usage.UsageStats"}}
            }
        },
        "admin.ResetResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "userId": {"type": "string"},
                "usage": {"$ref": "#/definitions/usage.UsageStats"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Firebase ID token. Format: Bearer {token}",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Stylize API",
	Description:      "Portrait stylization with per-user transformation quotas",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
