// Package docs registers the OpenAPI description served under /swagger.
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
        "/weak-topics": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["insights"],
                "summary": "Lowest success-rate topics, at most three",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/types.UserPayload"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"weakTopics": {"type": "array", "items": {"$ref": "#/definitions/insights.TopicScore"}}}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.AppError"}}
                }
            }
        },
        "/performance": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "Success probability and drop risk",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/types.UserPayload"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/analysis.PerformanceResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.AppError"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.AppError"}}
                }
            }
        },
        "/time-accuracy": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "How much time spent explains success",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/types.UserPayload"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/analysis.TimeAccuracyResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.AppError"}},
                    "422": {"description": "Model fit failed", "schema": {"$ref": "#/definitions/errors.AppError"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.AppError"}}
                }
            }
        },
        "/recommendations": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["insights"],
                "summary": "Practice problems for the most failed topics",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/types.UserPayload"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"recommendedProblems": {"type": "array", "items": {"$ref": "#/definitions/insights.Recommendation"}}}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.AppError"}}
                }
            }
        },
        "/adaptive": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["insights"],
                "summary": "Two-hour reminder window with the best success rate",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/types.UserPayload"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"window": {"type": "string", "example": "19-21"}}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.AppError"}}
                }
            }
        },
        "/retrain": {
            "post": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "Accepted for compatibility; models are fit per request",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"status": {"type": "string", "example": "ok"}}}}
                }
            }
        },
        "/insights": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["insights"],
                "summary": "Build, store and return the full report",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/types.UserPayload"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/insights.Report"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.AppError"}},
                    "422": {"description": "Model fit failed", "schema": {"$ref": "#/definitions/errors.AppError"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.AppError"}}
                }
            }
        },
        "/insights/{user_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["insights"],
                "summary": "Latest stored report for a user",
                "parameters": [{"in": "path", "name": "user_id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/insights.Report"}},
                    "404": {"description": "No stored report"},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/errors.AppError"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Database, redis and stream status",
                "responses": {
                    "200": {"description": "Healthy"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/metrics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Request, model, stream and rate limit counters",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/cache/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Response and report cache statistics",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "types.ActivityEvent": {
            "type": "object",
            "required": ["platform", "success", "time_spent", "date"],
            "properties": {
                "platform": {"type": "string", "example": "leetcode"},
                "topic": {"type": "string", "example": "dp"},
                "success": {"type": "integer", "enum": [0, 1]},
                "time_spent": {"type": "number", "minimum": 0},
                "date": {"type": "string", "example": "2024-03-01T18:00:00Z"}
            }
        },
        "types.UserPayload": {
            "type": "object",
            "required": ["user_id"],
            "properties": {
                "user_id": {"type": "string"},
                "activities": {"type": "array", "items": {"$ref": "#/definitions/types.ActivityEvent"}}
            }
        },
        "analysis.PerformanceResult": {
            "type": "object",
            "properties": {
                "potdSuccessProb": {"type": "number"},
                "riskOfDrop": {"type": "number"},
                "accuracy": {"type": "number"}
            }
        },
        "analysis.TimeAccuracyResult": {
            "type": "object",
            "properties": {
                "slope": {"type": "number"},
                "insight": {"type": "string"},
                "accuracy": {"type": "number"}
            }
        },
        "insights.TopicScore": {
            "type": "object",
            "properties": {
                "topic": {"type": "string"},
                "score": {"type": "number"}
            }
        },
        "insights.Recommendation": {
            "type": "object",
            "properties": {
                "platform": {"type": "string"},
                "id": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "insights.Report": {
            "type": "object",
            "properties": {
                "weakTopics": {"type": "array", "items": {"$ref": "#/definitions/insights.TopicScore"}},
                "predictions": {"type": "object", "properties": {"potdSuccess": {"type": "number"}, "riskOfDrop": {"type": "number"}}},
                "timeInsights": {"type": "object", "properties": {"peakHours": {"type": "string"}, "reminderWindow": {"type": "string"}}},
                "recommendedProblems": {"type": "array", "items": {"$ref": "#/definitions/insights.Recommendation"}},
                "modelAccuracy": {"type": "object", "properties": {"performanceAccuracy": {"type": "number"}, "timeAccuracyScore": {"type": "number"}}},
                "lastUpdated": {"type": "string", "example": "2024-06-01 14:05:09"}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "category": {"type": "string"},
                "http_status": {"type": "integer"},
                "timestamp": {"type": "string"},
                "request_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "codestreak ML insights API",
	Description:      "Learning analytics over coding-practice activity logs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
