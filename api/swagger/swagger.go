package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Programme Match API",
        "description": "Matches students' secondary school grades against university programme requirements.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Sign in, registration and profile"},
        {"name": "Programmes", "description": "Programme browsing and eligibility filters"},
        {"name": "Admin", "description": "Programme maintenance"}
    ],
    "paths": {
        "/auth/signin": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in and open a catalog session",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SignInRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a student account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/signout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign out and drop the catalog session",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current student profile and subjects",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Auth"],
                "summary": "Update name and email",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Student"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programmes": {
            "get": {
                "tags": ["Programmes"],
                "summary": "Fetch a page of programmes",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "filter", "type": "string", "enum": ["default", "grades", "custom"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ProgrammeList"}},
                    "409": {"description": "Superseded by a newer request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programmes/current": {
            "get": {
                "tags": ["Programmes"],
                "summary": "Displayed programmes without contacting the catalog",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ProgrammeList"}}}
            }
        },
        "/programmes/reload": {
            "post": {
                "tags": ["Programmes"],
                "summary": "Re-fetch the current page and mode",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ProgrammeList"}}}
            }
        },
        "/programmes/filter": {
            "put": {
                "tags": ["Programmes"],
                "summary": "Switch the filter mode",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/FilterModeRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ProgrammeList"}},
                    "400": {"description": "Subjects unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programmes/page": {
            "put": {
                "tags": ["Programmes"],
                "summary": "Move to another page; out of range pages are ignored",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/PageRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ProgrammeList"}}}
            }
        },
        "/programmes/custom": {
            "post": {
                "tags": ["Programmes"],
                "summary": "Match an ad-hoc subject list",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CustomFilterRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ProgrammeList"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programmes/summary": {
            "get": {
                "tags": ["Programmes"],
                "summary": "Eligibility summary for the current view",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Summary"}}}
            }
        },
        "/programmes/last-viewed": {
            "get": {
                "tags": ["Programmes"],
                "summary": "Programme most recently opened",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Programme"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programmes/export": {
            "get": {
                "tags": ["Programmes"],
                "summary": "Download the current view",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/programmes/{courseAbbr}": {
            "get": {
                "tags": ["Programmes"],
                "summary": "Programme detail from the current view",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "courseAbbr", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Programme"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/programmes": {
            "post": {
                "tags": ["Admin"],
                "summary": "Add a programme",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ProgrammeCreateRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/programmes/{courseAbbr}": {
            "put": {
                "tags": ["Admin"],
                "summary": "Update a programme",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "courseAbbr", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ProgrammeData"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete a programme",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "courseAbbr", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/universities/{universityAbbr}/colleges": {
            "get": {
                "tags": ["Admin"],
                "summary": "Colleges of a university",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "universityAbbr", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/College"}}}}
            }
        }
    },
    "definitions": {
        "Subject": {
            "type": "object",
            "properties": {
                "subject": {"type": "string"},
                "grade": {"type": "string", "enum": ["A", "B", "C", "D", "E"]}
            }
        },
        "Student": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "SignInRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["username", "email", "full_name", "password", "subjects"],
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "password": {"type": "string"},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/Subject"}}
            }
        },
        "UpdateProfileRequest": {
            "type": "object",
            "required": ["full_name", "email"],
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "SessionResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "student": {"$ref": "#/definitions/Student"},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/Subject"}}
            }
        },
        "Requirement": {
            "type": "object",
            "properties": {
                "subject": {"type": "string"},
                "grade": {"type": "string"}
            }
        },
        "Programme": {
            "type": "object",
            "properties": {
                "courseAbbr": {"type": "string"},
                "universityAbbr": {"type": "string"},
                "university": {"type": "string"},
                "college": {"type": "string"},
                "collegeAbbr": {"type": "string"},
                "course": {"type": "string"},
                "minimum_points": {"type": "number"},
                "specific_requirements": {"type": "array", "items": {"$ref": "#/definitions/Requirement"}},
                "eligible": {"type": "boolean"},
                "match_score": {"type": "integer"}
            }
        },
        "ProgrammeData": {
            "type": "object",
            "required": ["course", "collegeAbbr"],
            "properties": {
                "course": {"type": "string"},
                "collegeAbbr": {"type": "string"},
                "universityAbbr": {"type": "string"},
                "minimum_points": {"type": "number"},
                "specific_requirements": {"type": "array", "items": {"$ref": "#/definitions/Requirement"}}
            }
        },
        "ProgrammeCreateRequest": {
            "type": "object",
            "required": ["courseAbbr", "courseData"],
            "properties": {
                "courseAbbr": {"type": "string"},
                "courseData": {"$ref": "#/definitions/ProgrammeData"}
            }
        },
        "College": {
            "type": "object",
            "properties": {
                "collegeAbbr": {"type": "string"},
                "collegeName": {"type": "string"}
            }
        },
        "Summary": {
            "type": "object",
            "properties": {
                "eligible": {"type": "integer"},
                "available_university": {"type": "integer"},
                "available_courses": {"type": "integer"}
            }
        },
        "FilterModeRequest": {
            "type": "object",
            "required": ["mode"],
            "properties": {"mode": {"type": "string", "enum": ["default", "grades", "custom"]}}
        },
        "PageRequest": {
            "type": "object",
            "properties": {"page": {"type": "integer"}}
        },
        "CustomFilterRequest": {
            "type": "object",
            "properties": {
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/Subject"}},
                "page": {"type": "integer"},
                "per_page": {"type": "integer"}
            }
        },
        "ProgrammeList": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Programme"}},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "per_page": {"type": "integer"},
                "current_page": {"type": "integer"},
                "last_page": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
