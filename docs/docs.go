// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/user/register/": {
            "post": {
                "tags": ["user"],
                "summary": "Register",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/user/token/": {
            "post": {
                "tags": ["user"],
                "summary": "Obtain token pair",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/user/token/refresh/": {
            "post": {
                "tags": ["user"],
                "summary": "Refresh access token",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/user/profile/{user_id}/": {
            "get": {
                "tags": ["user"],
                "summary": "Get profile",
                "parameters": [{"type": "integer", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["user"],
                "summary": "Update profile",
                "parameters": [{"type": "integer", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/post/category/list/": {
            "get": {"tags": ["post"], "summary": "List categories", "responses": {"200": {"description": "OK"}}}
        },
        "/post/category/posts/{category_slug}/": {
            "get": {
                "tags": ["post"],
                "summary": "List posts in a category",
                "parameters": [{"type": "string", "name": "category_slug", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/post/list/": {
            "get": {"tags": ["post"], "summary": "List posts", "responses": {"200": {"description": "OK"}}}
        },
        "/post/details/{slug}/": {
            "get": {
                "tags": ["post"],
                "summary": "Post detail",
                "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/post/like-post/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["post"],
                "summary": "Like or unlike a post",
                "responses": {"200": {"description": "Post Disliked"}, "201": {"description": "Post Liked"}}
            }
        },
        "/post/comment-post/": {
            "post": {"tags": ["post"], "summary": "Comment on a post", "responses": {"201": {"description": "Comment Sent"}}}
        },
        "/post/bookmark-post/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["post"],
                "summary": "Bookmark or un-bookmark a post",
                "responses": {"200": {"description": "Bookmark Removed"}, "201": {"description": "Bookmark Added"}}
            }
        },
        "/author/dashboard/stats/{user_id}/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Author statistics",
                "parameters": [{"type": "integer", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/author/dashboard/flags/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Feature flags for the caller",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/author/dashboard/post-list/{user_id}/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Author post list",
                "parameters": [{"type": "integer", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/author/dashboard/comment-list/{user_id}/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Author comment list",
                "parameters": [{"type": "integer", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/author/dashboard/noti-list/{user_id}/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Unseen notifications",
                "parameters": [{"type": "integer", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/author/dashboard/noti-mark-seen/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Mark notification seen",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/author/dashboard/reply-comment/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Reply to a comment",
                "responses": {"201": {"description": "Comment response sent"}, "403": {"description": "Forbidden"}}
            }
        },
        "/author/dashboard/post-create/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Create post",
                "consumes": ["application/json", "multipart/form-data"],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/author/dashboard/post-detail/{user_id}/{post_id}/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Author post detail",
                "parameters": [
                    {"type": "integer", "name": "user_id", "in": "path", "required": true},
                    {"type": "integer", "name": "post_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Update post",
                "consumes": ["application/json", "multipart/form-data"],
                "parameters": [
                    {"type": "integer", "name": "user_id", "in": "path", "required": true},
                    {"type": "integer", "name": "post_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Delete post",
                "parameters": [
                    {"type": "integer", "name": "user_id", "in": "path", "required": true},
                    {"type": "integer", "name": "post_id", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "string"},
                "error": {"type": "string"},
                "fields": {
                    "type": "object",
                    "additionalProperties": {"type": "array", "items": {"type": "string"}}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Blog API",
	Description:      "Blogging platform API with profiles, posts, likes, comments, bookmarks and author dashboards",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
