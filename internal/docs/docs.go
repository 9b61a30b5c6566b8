// Package docs registra la definición Swagger servido en /swagger/*.
// Se mantiene a mano a partir de las anotaciones godoc de los handlers.
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
        "/login": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Sign in with email and password",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.sessionResponse"}},
                    "401": {"description": "invalid credentials", "schema": {"type": "string"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["session"],
                "summary": "Sign out the current admin session",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/plants/{plantID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "Public plant detail",
                "parameters": [{"type": "string", "description": "Plant ID", "name": "plantID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/plants.Response"}},
                    "303": {"description": "redirect to /not-found"}
                }
            }
        },
        "/plants/{plantID}/qr.png": {
            "get": {
                "produces": ["image/png"],
                "tags": ["plants"],
                "summary": "Download the plant share code as PNG",
                "parameters": [
                    {"type": "string", "description": "Plant ID", "name": "plantID", "in": "path", "required": true},
                    {"type": "integer", "description": "Side in pixels (64-2048)", "name": "size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/plants/{plantID}/qr.svg": {
            "get": {
                "produces": ["image/svg+xml"],
                "tags": ["plants"],
                "summary": "Download the plant share code as SVG",
                "parameters": [{"type": "string", "description": "Plant ID", "name": "plantID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/admin": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin view state (form, banners, share modal, plant list)",
                "responses": {
                    "200": {"description": "OK"},
                    "303": {"description": "redirect to /login without session"}
                }
            }
        },
        "/admin/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Reload the plant list from the backend",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/plants": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Filter the loaded plant list by name, botanical name or family",
                "parameters": [{"type": "string", "description": "Case-insensitive substring", "name": "q", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/plants.Response"}}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Add a plant (multipart form with optional \"images\" files, or JSON)",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/plants.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/admin.errorResponse"}},
                    "409": {"description": "submission already in progress", "schema": {"$ref": "#/definitions/admin.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/admin.errorResponse"}}
                }
            }
        },
        "/admin/plants/retry-images": {
            "post": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Retry uploading and attaching images for the record left without them",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/plants.Response"}}}
            }
        }
    },
    "definitions": {
        "admin.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "plants.Response": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "botanical_name": {"type": "string"},
                "family": {"type": "string"},
                "synonyms": {"type": "array", "items": {"type": "string"}},
                "english_name": {"type": "string"},
                "useful_parts": {"type": "array", "items": {"type": "string"}},
                "indications": {"type": "array", "items": {"type": "string"}},
                "shloka": {"type": "string"},
                "source_document": {"type": "string"},
                "images": {"type": "array", "items": {"type": "string"}},
                "share_url": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "session.sessionResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_at": {"type": "string"},
                "user": {
                    "type": "object",
                    "properties": {
                        "id": {"type": "string"},
                        "email": {"type": "string"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Ayurveda Repository API",
	Description:      "Catalog of Ayurvedic medicinal plants: public detail pages, share codes and the admin workflow.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
