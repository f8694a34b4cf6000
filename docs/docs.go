// Package docs holds the OpenAPI document served by the Swagger UI in development.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
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
        "/api/auth/login": {
            "post": {
                "description": "Exchange email and password for a bearer token valid for 24 hours.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/httputil.Envelope"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/auth.AuthResult"}}}
                            ]
                        }
                    },
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "401": {"description": "Invalid email or password", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httputil.Envelope"}}
                }
            }
        },
        "/api/auth/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Get profile",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/httputil.Envelope"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/user.User"}}}
                            ]
                        }
                    },
                    "401": {"description": "Access token required", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/httputil.Envelope"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Update profile",
                "parameters": [
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.UpdateProfileRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/httputil.Envelope"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/user.User"}}}
                            ]
                        }
                    },
                    "400": {"description": "Validation error or no fields", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "409": {"description": "Email already exists", "schema": {"$ref": "#/definitions/httputil.Envelope"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Delete account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/httputil.Envelope"}}
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "description": "Create a new account. The response never contains the password hash.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "Registration details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/httputil.Envelope"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/user.User"}}}
                            ]
                        }
                    },
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "409": {"description": "Email already exists", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.Envelope"}}
                }
            }
        },
        "/api/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Newest first. When search is given, status, priority, limit and offset are ignored.",
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List tasks",
                "parameters": [
                    {"enum": ["todo", "in_progress", "done", "cancelled"], "type": "string", "description": "Filter by status", "name": "status", "in": "query"},
                    {"enum": ["low", "medium", "high", "urgent"], "type": "string", "description": "Filter by priority", "name": "priority", "in": "query"},
                    {"type": "integer", "description": "Maximum number of tasks", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Number of tasks to skip", "name": "offset", "in": "query"},
                    {"type": "string", "description": "Case-insensitive substring of title or description", "name": "search", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/httputil.Envelope"},
                                {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/task.Task"}}}}
                            ]
                        }
                    },
                    "400": {"description": "Invalid query parameter", "schema": {"$ref": "#/definitions/httputil.Envelope"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Create a task",
                "parameters": [
                    {
                        "description": "Task",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/task.CreateTaskRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/httputil.Envelope"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/task.Task"}}}
                            ]
                        }
                    },
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "401": {"description": "Access token required", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/httputil.Envelope"}}
                }
            }
        },
        "/api/tasks/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Task statistics",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/httputil.Envelope"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/task.Stats"}}}
                            ]
                        }
                    }
                }
            }
        },
        "/api/tasks/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Get a task",
                "parameters": [
                    {"type": "integer", "description": "Task ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/httputil.Envelope"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/task.Task"}}}
                            ]
                        }
                    },
                    "400": {"description": "Invalid task ID", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "404": {"description": "Task not found", "schema": {"$ref": "#/definitions/httputil.Envelope"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Update a task",
                "parameters": [
                    {"type": "integer", "description": "Task ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/task.UpdateTaskRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/httputil.Envelope"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/task.Task"}}}
                            ]
                        }
                    },
                    "400": {"description": "Validation error or no fields", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "404": {"description": "Task not found or access denied", "schema": {"$ref": "#/definitions/httputil.Envelope"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Delete a task",
                "parameters": [
                    {"type": "integer", "description": "Task ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "400": {"description": "Invalid task ID", "schema": {"$ref": "#/definitions/httputil.Envelope"}},
                    "404": {"description": "Task not found or access denied", "schema": {"$ref": "#/definitions/httputil.Envelope"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Check if the API is running",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httputil.Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "auth.AuthResult": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/user.User"}
            }
        },
        "auth.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "auth.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string", "maxLength": 50, "minLength": 2},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "auth.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string", "maxLength": 50, "minLength": 2},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "httputil.Envelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "data": {},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "task.CreateTaskRequest": {
            "type": "object",
            "required": ["priority", "title"],
            "properties": {
                "description": {"type": "string", "maxLength": 1000},
                "dueDate": {"type": "string"},
                "priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
                "title": {"type": "string", "maxLength": 200, "minLength": 1}
            }
        },
        "task.Stats": {
            "type": "object",
            "properties": {
                "cancelled": {"type": "integer"},
                "done": {"type": "integer"},
                "inProgress": {"type": "integer"},
                "todo": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "task.Task": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "description": {"type": "string"},
                "dueDate": {"type": "string"},
                "id": {"type": "integer"},
                "priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
                "status": {"type": "string", "enum": ["todo", "in_progress", "done", "cancelled"]},
                "title": {"type": "string"},
                "updatedAt": {"type": "string"},
                "userId": {"type": "integer"}
            }
        },
        "task.UpdateTaskRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string", "maxLength": 1000},
                "dueDate": {"type": "string"},
                "priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
                "status": {"type": "string", "enum": ["todo", "in_progress", "done", "cancelled"]},
                "title": {"type": "string", "maxLength": 200, "minLength": 1}
            }
        },
        "user.User": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Task Manager API",
	Description:      "Personal task manager with account management and bearer-token authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
