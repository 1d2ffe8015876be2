// Package docs holds the OpenAPI document served under /swagger when built
// with -tags=swagger. Regenerate with `swag init -g cmd/visiond/docs.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "visiond maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["text/html"],
                "summary": "Explorer page",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "summary": "Upload an image from the page form",
                "parameters": [
                    {"type": "file", "description": "Image file", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}}
                }
            }
        },
        "/api/status": {
            "get": {
                "produces": ["application/json"],
                "summary": "Model and server status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}
            }
        },
        "/api/session": {
            "get": {
                "produces": ["application/json"],
                "summary": "Current session view",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SessionResponse"}}}
            }
        },
        "/api/classify": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "summary": "Classify an image without a session",
                "parameters": [
                    {"type": "file", "description": "Image file", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ClassifyResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.Prediction": {
            "type": "object",
            "properties": {
                "label": {"type": "string", "example": "Egyptian cat"},
                "probability": {"type": "number", "example": 0.82}
            }
        },
        "types.ClassifyResponse": {
            "type": "object",
            "properties": {
                "predictions": {"type": "array", "items": {"$ref": "#/definitions/types.Prediction"}},
                "model": {"type": "string", "example": "mobilenet_v2_1.0_224"},
                "duration_ms": {"type": "integer"}
            }
        },
        "types.SessionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "has_image": {"type": "boolean"},
                "loading": {"type": "boolean"},
                "predictions": {"type": "array", "items": {"$ref": "#/definitions/types.Prediction"}},
                "token": {"type": "integer"},
                "last_error": {"type": "string"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "example": "loading"},
                "progress": {"type": "integer", "example": 45},
                "ready": {"type": "boolean"},
                "loading": {"type": "boolean"},
                "model": {"type": "string"},
                "labels": {"type": "integer"},
                "error": {"type": "string"},
                "sessions": {"type": "integer"},
                "classifications_total": {"type": "integer"},
                "failures_total": {"type": "integer"},
                "superseded_total": {"type": "integer"},
                "uptime_seconds": {"type": "integer"},
                "server_time_unix": {"type": "integer"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "visiond API",
	Description:      "Image upload and top-5 classification with a MobileNet v2 model.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
