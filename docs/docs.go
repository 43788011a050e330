// Package docs registers the OpenAPI description served under /swagger/.
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.AuthResult"}},
                    "400": {"description": "validation failed or email already registered", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.AuthResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        },
        "/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["events"],
                "summary": "List events",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Calendar day (YYYY-MM-DD)", "name": "date", "in": "query"},
                    {"enum": ["TECHNOLOGY", "MUSIC", "SPORTS", "ART", "BUSINESS", "EDUCATION", "HEALTH", "OTHER"], "type": "string", "name": "category", "in": "query"},
                    {"type": "string", "description": "Case-insensitive title substring", "name": "search", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "name": "limit", "in": "query"},
                    {"enum": ["date", "title"], "type": "string", "default": "date", "name": "sortBy", "in": "query"},
                    {"enum": ["ASC", "DESC"], "type": "string", "default": "ASC", "name": "order", "in": "query"},
                    {"type": "boolean", "description": "Only the caller's events", "name": "onlyMy", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.EventPage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["events"],
                "summary": "Create an event",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "event", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Event"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        },
        "/events/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["events"],
                "summary": "Get an event",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Event"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["events"],
                "summary": "Update an event",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "event", "required": true, "schema": {"$ref": "#/definitions/controllers.UpdateEventRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Event"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["events"],
                "summary": "Delete an event",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Event"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        },
        "/events/{id}/similar": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["events"],
                "summary": "Similar events",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"enum": ["category", "location", "date"], "type": "string", "default": "category", "name": "by", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.EventPage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "404": {"description": "event missing or, for location, without coordinates", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.RegisterRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "ada@example.com"},
                "password": {"type": "string", "example": "Str0ng!pass"}
            }
        },
        "controllers.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "ada@example.com"},
                "password": {"type": "string", "example": "Str0ng!pass"}
            }
        },
        "controllers.CreateEventRequest": {
            "type": "object",
            "required": ["title", "date", "location", "category"],
            "properties": {
                "title": {"type": "string", "example": "Go Meetup"},
                "date": {"type": "string", "example": "2025-08-26T19:00:00Z"},
                "location": {"type": "string", "example": "Lviv, Narodna 14"},
                "category": {"type": "string", "example": "TECHNOLOGY"},
                "description": {"type": "string", "example": "Monthly talks"},
                "latitude": {"type": "number", "example": 49.8397},
                "longitude": {"type": "number", "example": 24.0297}
            }
        },
        "controllers.UpdateEventRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "date": {"type": "string"},
                "location": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "controllers.EventPage": {
            "type": "object",
            "properties": {
                "meta": {"$ref": "#/definitions/domain.PageMeta"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Event"}}
            }
        },
        "domain.PageMeta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalItems": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["USER", "ADMIN"]},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "domain.UserSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "role": {"type": "string", "enum": ["USER", "ADMIN"]}
            }
        },
        "domain.AuthResult": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.UserSummary"}
            }
        },
        "domain.Event": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "date": {"type": "string"},
                "location": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "helpers.ErrorResponse": {
            "type": "object",
            "properties": {
                "statusCode": {"type": "integer"},
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT.",
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Eventfinder API",
	Description:      "Create, browse and discover similar events.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
