package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LMS Extension API",
        "description": "Course catalog, proctored exam metadata, enrollment management and grade retrieval",
        "version": "1.0.0"
    },
    "basePath": "/api/extended",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Credential login"},
        {"name": "Catalog", "description": "Course and library listings"},
        {"name": "Enrollment", "description": "Enrollment listing and bulk mode changes"},
        {"name": "Grades", "description": "Grade lookup and report export"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/MessageBody"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List courses",
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "string", "description": "Comma-separated course ids"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid course id", "schema": {"$ref": "#/definitions/MessageBody"}}
                }
            }
        },
        "/courses/proctored": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List courses with proctored exams",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/libraries": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List content libraries",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/enrollment": {
            "get": {
                "tags": ["Enrollment"],
                "summary": "List active enrollments in creation order",
                "parameters": [
                    {"name": "user", "in": "query", "type": "string"},
                    {"name": "course_run", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not permitted to view the requested user"}
                }
            }
        },
        "/user_proctored_exams/{username}": {
            "get": {
                "tags": ["Enrollment"],
                "summary": "Per-user proctored exam view",
                "parameters": [
                    {"name": "username", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not permitted to view the requested user"}
                }
            }
        },
        "/paid_mass_enrollment": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Bulk enrollment mode change",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkEnrollmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Success", "schema": {"$ref": "#/definitions/MessageBody"}},
                    "400": {"description": "Validation or policy failure", "schema": {"$ref": "#/definitions/MessageBody"}},
                    "403": {"description": "Caller lacks staff or API key privilege", "schema": {"$ref": "#/definitions/MessageBody"}}
                }
            }
        },
        "/grades/{course_id}/{username}": {
            "get": {
                "tags": ["Grades"],
                "summary": "Per-user course grade",
                "parameters": [
                    {"name": "course_id", "in": "path", "required": true, "type": "string"},
                    {"name": "username", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Course missing or caller not permitted"}
                }
            }
        },
        "/grade_reports/{course_id}": {
            "get": {
                "tags": ["Grades"],
                "summary": "Course grade report download",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "course_id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Report file"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/MessageBody"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "issued_at": {"type": "string"},
                "username": {"type": "string"},
                "is_staff": {"type": "boolean"}
            }
        },
        "BulkEnrollmentRequest": {
            "type": "object",
            "properties": {
                "course_details": {
                    "type": "object",
                    "properties": {
                        "course_id": {"type": "string"}
                    }
                },
                "users": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "mode": {"type": "string"},
                "is_active": {"type": "boolean"},
                "email_opt_in": {"type": "boolean"},
                "enrollment_attributes": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/EnrollmentAttribute"}
                }
            },
            "required": ["course_details", "users"]
        },
        "EnrollmentAttribute": {
            "type": "object",
            "properties": {
                "namespace": {"type": "string"},
                "name": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "MessageBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
