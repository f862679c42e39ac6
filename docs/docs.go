// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// Package docs holds the OpenAPI description served under /swagger.
//
// It is the output of swaggo/swag over the handler annotations in
// internal/api. Regenerate it after changing a handler's annotations:
//
//	swag init -g cmd/server/docs.go -o docs --outputTypes go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/khaboki/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/cache": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Cache"],
                "summary": "Result cache status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Cache"],
                "summary": "Clear the result cache",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/compare": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Compare"],
                "summary": "Current compare selection",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            },
            "post": {
                "description": "At most three restaurants can be compared. Identity is name plus platform.\nA duplicate or a fourth restaurant is not added and the response says why.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Compare"],
                "summary": "Add a restaurant to the compare selection",
                "parameters": [
                    {"description": "Restaurant to add", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.CompareAddRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Missing name or platform", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Compare"],
                "summary": "Remove a restaurant from the compare selection",
                "parameters": [
                    {"type": "string", "description": "Restaurant name", "name": "name", "in": "query", "required": true},
                    {"type": "string", "description": "Platform", "name": "platform", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Missing name or platform", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not selected", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/compare/all": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["Compare"],
                "summary": "Empty the compare selection",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/dataset/export": {
            "get": {
                "produces": ["application/json", "text/csv"],
                "tags": ["Dataset"],
                "summary": "Download the scraped dataset",
                "parameters": [
                    {"enum": ["json", "csv"], "type": "string", "default": "json", "description": "Export format", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Dataset file"},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "502": {"description": "Scrape backend failed", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/dataset/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Dataset"],
                "summary": "Scrape backend dataset statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "502": {"description": "Scrape backend failed", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Health status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Scrape backend unreachable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/rating": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Bayesian-adjust a rating string",
                "parameters": [
                    {"type": "string", "description": "Rating such as 4.5(100+)", "name": "rating", "in": "query", "required": true},
                    {"type": "string", "default": "all", "description": "Platform prior", "name": "platform", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/results": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Filtered view of the current results",
                "parameters": [
                    {"type": "string", "description": "Text filter on name or cuisine", "name": "q", "in": "query"},
                    {"type": "string", "description": "Platform tab, empty for all", "name": "tab", "in": "query"},
                    {"type": "string", "description": "Cuisine substring", "name": "cuisine", "in": "query"},
                    {"type": "string", "description": "Comma separated platforms", "name": "platforms", "in": "query"},
                    {"type": "number", "description": "Minimum raw rating", "name": "min_rating", "in": "query"},
                    {"type": "integer", "description": "Maximum delivery minutes", "name": "max_delivery_time", "in": "query"},
                    {"type": "integer", "description": "Maximum delivery fee", "name": "max_delivery_fee", "in": "query"},
                    {"enum": ["rating", "delivery_time", "delivery_fee", "name", "offers"], "type": "string", "description": "Sort key", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "No search yet", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/search": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Search restaurants near a location",
                "parameters": [
                    {"description": "Search parameters", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/api.SearchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "502": {"description": "Scrape backend reported a failure", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Scrape backend unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/surprise": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Surprise"],
                "summary": "Pick one restaurant from the current results",
                "parameters": [
                    {"description": "Preferences", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/api.SurpriseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "No results to pick from", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/surprise/history": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["Surprise"],
                "summary": "Forget previous suggestions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/ws": {
            "get": {
                "tags": ["Events"],
                "summary": "Event stream",
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "503": {"description": "Events disabled", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.CompareAddRequest": {
            "type": "object",
            "properties": {
                "restaurant": {"$ref": "#/definitions/models.Restaurant"}
            }
        },
        "api.FilterRequest": {
            "type": "object",
            "properties": {
                "cuisine_type": {"type": "string"},
                "max_delivery_fee": {"type": "integer"},
                "max_delivery_time": {"type": "integer"},
                "min_rating": {"type": "number"},
                "platforms": {"type": "array", "items": {"type": "string"}},
                "sort_by": {"type": "string"}
            }
        },
        "api.SearchRequest": {
            "type": "object",
            "properties": {
                "filters": {"$ref": "#/definitions/api.FilterRequest"},
                "force_refresh": {"type": "boolean"},
                "lat": {"type": "number"},
                "lng": {"type": "number"},
                "text": {"type": "string"}
            }
        },
        "api.SurprisePreferencesRequest": {
            "type": "object",
            "properties": {
                "cuisine_type": {"type": "string"},
                "max_delivery_fee": {"type": "integer"},
                "max_delivery_time": {"type": "integer"},
                "min_rating": {"type": "number"}
            }
        },
        "api.SurpriseRequest": {
            "type": "object",
            "properties": {
                "exclude_previous": {"type": "boolean"},
                "preferences": {"$ref": "#/definitions/api.SurprisePreferencesRequest"}
            }
        },
        "models.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true},
                "message": {"type": "string"}
            }
        },
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/models.APIError"},
                "metadata": {"$ref": "#/definitions/models.Metadata"},
                "status": {"type": "string"}
            }
        },
        "models.Metadata": {
            "type": "object",
            "properties": {
                "cached": {"type": "boolean"},
                "query_time_ms": {"type": "integer"},
                "timestamp": {"type": "string"}
            }
        },
        "models.Restaurant": {
            "type": "object",
            "properties": {
                "cuisine_type": {"type": "string"},
                "delivery_fee": {"type": "string"},
                "delivery_time": {"type": "string"},
                "image_url": {"type": "string"},
                "menu_items": {"type": "array", "items": {}},
                "name": {"type": "string"},
                "offers": {"type": "array", "items": {"type": "string"}},
                "platform": {"type": "string"},
                "rating": {"type": "string"},
                "url": {"type": "string"}
            }
        }
    },
    "tags": [
        {"description": "Health checks", "name": "Core"},
        {"description": "Restaurant search, filtered result views and rating normalization", "name": "Search"},
        {"description": "Side-by-side comparison of up to three restaurants", "name": "Compare"},
        {"description": "AI or random restaurant suggestions", "name": "Surprise"},
        {"description": "Result cache management", "name": "Cache"},
        {"description": "Scrape backend dataset statistics and export", "name": "Dataset"},
        {"description": "WebSocket notifications", "name": "Events"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5050",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Khaboki API",
	Description:      "Search food delivery platforms around a location, compare restaurants and get a surprise pick.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
