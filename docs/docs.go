// Package docs registers the OpenAPI document served at /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "Apache 2.0",
            "url": "https://opensource.org/licenses/Apache-2.0"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/runs": {
            "get": {
                "description": "Returns stored runs, newest first",
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "List benchmark runs",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RunPage"}}
                }
            }
        },
        "/runs/latest": {
            "get": {
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Get the most recent run",
                "parameters": [
                    {"type": "string", "description": "Restrict to runs with this name", "name": "name", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RunDetails"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/runs/compare": {
            "get": {
                "description": "Per-task ops/sec and mean time change of head relative to base",
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Compare two runs",
                "parameters": [
                    {"type": "string", "description": "Base run ID", "name": "base", "in": "query", "required": true},
                    {"type": "string", "description": "Head run ID", "name": "head", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Comparison"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/runs/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Get a benchmark run",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RunDetails"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "summary": "Storage health",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "RunSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "startedAt": {"type": "string", "format": "date-time"},
                "duration": {"type": "integer", "description": "nanoseconds"},
                "tasks": {"type": "array", "items": {"type": "string"}}
            }
        },
        "RunPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/RunSummary"}},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "size": {"type": "integer"},
                "has_more": {"type": "boolean"}
            }
        },
        "TaskStats": {
            "type": "object",
            "properties": {
                "samples": {"type": "integer"},
                "batches": {"type": "integer"},
                "time": {
                    "type": "object",
                    "properties": {
                        "total": {"type": "number"},
                        "min": {"type": "number"},
                        "max": {"type": "number"},
                        "average": {"type": "number"},
                        "p50": {"type": "number"},
                        "p90": {"type": "number"},
                        "p95": {"type": "number"}
                    }
                },
                "ops_per_second": {
                    "type": "object",
                    "properties": {
                        "min": {"type": "number"},
                        "max": {"type": "number"},
                        "average": {"type": "number"},
                        "margin": {"type": "number"}
                    }
                }
            }
        },
        "TaskResult": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "stats": {"$ref": "#/definitions/TaskStats"}
            }
        },
        "RunDetails": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "startedAt": {"type": "string", "format": "date-time"},
                "duration": {"type": "integer"},
                "environment": {"type": "object"},
                "options": {"type": "object"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/TaskResult"}},
                "ranking": {
                    "type": "object",
                    "properties": {
                        "entries": {"type": "array", "items": {"$ref": "#/definitions/TaskResult"}}
                    }
                }
            }
        },
        "Comparison": {
            "type": "object",
            "properties": {
                "baseId": {"type": "string"},
                "headId": {"type": "string"},
                "changes": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "name": {"type": "string"},
                            "base": {"$ref": "#/definitions/TaskResult"},
                            "head": {"$ref": "#/definitions/TaskResult"},
                            "opsChange": {"type": "number"},
                            "meanChange": {"type": "number"}
                        }
                    }
                },
                "added": {"type": "array", "items": {"type": "string"}},
                "removed": {"type": "array", "items": {"type": "string"}}
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
	Title:            "microbench API",
	Description:      "Browse and compare stored benchmark runs",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
