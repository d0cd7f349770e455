// Package docs swagger 文档，内容与 handler 上的 swag 注释保持一致
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
        "/content-moderation": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ContentModeration"],
                "summary": "分页查询审核记录",
                "parameters": [
                    {"type": "integer", "description": "页码", "name": "page", "in": "query"},
                    {"type": "integer", "description": "每页条数，最大 100", "name": "limit", "in": "query"},
                    {"enum": ["pending", "approved", "rejected", "flagged"], "type": "string", "description": "状态", "name": "status", "in": "query"},
                    {"type": "string", "description": "内容类型", "name": "contentType", "in": "query"},
                    {"type": "string", "description": "作者 ID", "name": "authorId", "in": "query"},
                    {"type": "string", "description": "审核员 ID", "name": "moderatorId", "in": "query"},
                    {"type": "string", "description": "内容关键字", "name": "search", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ContentModeration"],
                "summary": "手工创建审核记录",
                "parameters": [
                    {"description": "审核记录", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/content-moderation/moderate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ContentModeration"],
                "summary": "自动审核内容（供评论、私信等模块调用）",
                "parameters": [
                    {"description": "待审内容", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ModerateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/content-moderation/pending": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ContentModeration"],
                "summary": "获取待人工审核的记录（最早的在前）",
                "parameters": [
                    {"type": "integer", "description": "最大条数", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/content-moderation/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ContentModeration"],
                "summary": "审核统计",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/content-moderation/bulk-update": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ContentModeration"],
                "summary": "批量通过/拒绝",
                "parameters": [
                    {"description": "批量审核", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.BulkUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/content-moderation/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ContentModeration"],
                "summary": "查询单条审核记录",
                "parameters": [
                    {"type": "string", "description": "记录 ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["ContentModeration"],
                "summary": "删除审核记录",
                "parameters": [
                    {"type": "string", "description": "记录 ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ContentModeration"],
                "summary": "人工审核",
                "parameters": [
                    {"type": "string", "description": "记录 ID", "name": "id", "in": "path", "required": true},
                    {"description": "审核结果", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "参数错误或记录已处理", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Common"],
                "summary": "健康检查",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "handler.BulkUpdateRequest": {
            "type": "object",
            "required": ["ids", "status"],
            "properties": {
                "ids": {"type": "array", "items": {"type": "string"}},
                "reason": {"type": "string"},
                "status": {"type": "string", "enum": ["approved", "rejected", "flagged"]}
            }
        },
        "handler.CreateRequest": {
            "type": "object",
            "required": ["action", "authorId", "content", "contentId", "contentType"],
            "properties": {
                "action": {"type": "string", "enum": ["auto_approved", "auto_rejected", "manual_review", "user_reported"]},
                "authorId": {"type": "string"},
                "content": {"type": "string"},
                "contentId": {"type": "string"},
                "contentType": {"type": "string", "enum": ["review", "message", "space_description", "user_profile", "partner_profile"]},
                "flaggedKeywords": {"type": "array", "items": {"type": "string"}},
                "metadata": {"type": "object", "additionalProperties": true},
                "moderationReason": {"type": "string"},
                "toxicityScore": {"type": "number", "maximum": 1, "minimum": 0}
            }
        },
        "handler.ModerateRequest": {
            "type": "object",
            "required": ["authorId", "content", "contentId", "contentType"],
            "properties": {
                "authorId": {"type": "string"},
                "content": {"type": "string"},
                "contentId": {"type": "string"},
                "contentType": {"type": "string", "enum": ["review", "message", "space_description", "user_profile", "partner_profile"]}
            }
        },
        "handler.UpdateRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "moderationReason": {"type": "string"},
                "moderatorId": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected", "flagged"]}
            }
        },
        "response.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
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
	Title:            "Content Moderation API",
	Description:      "Automated and manual moderation of user generated content.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
