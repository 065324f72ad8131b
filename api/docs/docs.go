// Package docs holds the OpenAPI document served at /swagger.
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
        "/api": {
            "get": {
                "produces": ["application/vnd.codemaze.apiroot+json"],
                "tags": ["Root"],
                "summary": "API root",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/links.Link"}}},
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/authentication": {
            "post": {
                "consumes": ["application/json", "application/xml"],
                "tags": ["Authentication"],
                "summary": "Register a user",
                "parameters": [
                    {"description": "User", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UserForRegistrationDto"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}}
                }
            }
        },
        "/api/authentication/login": {
            "post": {
                "consumes": ["application/json", "application/xml"],
                "produces": ["application/json", "application/xml"],
                "tags": ["Authentication"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Credentials", "name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UserForAuthenticationDto"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TokenDto"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}},
                    "429": {"description": "Too Many Requests", "schema": {"type": "string"}}
                }
            }
        },
        "/api/token/refresh": {
            "post": {
                "consumes": ["application/json", "application/xml"],
                "produces": ["application/json", "application/xml"],
                "tags": ["Token"],
                "summary": "Refresh a token pair",
                "parameters": [
                    {"description": "Expired access token and its refresh token", "name": "token", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.TokenDto"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TokenDto"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}}
                }
            }
        },
        "/api/companies": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json", "application/xml", "text/csv"],
                "tags": ["Companies"],
                "summary": "List companies",
                "parameters": [
                    {"type": "integer", "description": "Page number", "name": "pageNumber", "in": "query"},
                    {"type": "integer", "description": "Page size (max 50)", "name": "pageSize", "in": "query"},
                    {"type": "string", "description": "Name search", "name": "searchTerm", "in": "query"},
                    {"type": "string", "description": "Ordering, e.g. name desc", "name": "orderBy", "in": "query"},
                    {"type": "string", "description": "Comma separated fields", "name": "fields", "in": "query"},
                    {"type": "string", "description": "1.0 or 2.0", "name": "api-version", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.CompanyDto"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}},
                    "429": {"description": "Too Many Requests", "schema": {"type": "string"}}
                }
            },
            "post": {
                "consumes": ["application/json", "application/xml"],
                "produces": ["application/json", "application/xml"],
                "tags": ["Companies"],
                "summary": "Create a company",
                "parameters": [
                    {"description": "Company", "name": "company", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CompanyForCreationDto"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.CompanyDto"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}}
                }
            }
        },
        "/api/companies/{companyId}": {
            "get": {
                "produces": ["application/json", "application/xml", "text/csv"],
                "tags": ["Companies"],
                "summary": "Get a company",
                "parameters": [
                    {"type": "string", "description": "Company id", "name": "companyId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CompanyDto"}},
                    "304": {"description": "Not Modified"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}}
                }
            }
        },
        "/api/companies/{companyId}/employees": {
            "get": {
                "produces": ["application/json", "application/xml", "text/csv"],
                "tags": ["Employees"],
                "summary": "List employees of a company",
                "parameters": [
                    {"type": "string", "description": "Company id", "name": "companyId", "in": "path", "required": true},
                    {"type": "integer", "description": "Minimum age", "name": "minAge", "in": "query"},
                    {"type": "integer", "description": "Maximum age", "name": "maxAge", "in": "query"},
                    {"type": "string", "description": "Name search", "name": "searchTerm", "in": "query"},
                    {"type": "string", "description": "Ordering, e.g. age desc", "name": "orderBy", "in": "query"},
                    {"type": "string", "description": "Comma separated fields", "name": "fields", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.EmployeeDto"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}}
                }
            },
            "post": {
                "consumes": ["application/json", "application/xml"],
                "produces": ["application/json", "application/xml"],
                "tags": ["Employees"],
                "summary": "Create an employee",
                "parameters": [
                    {"type": "string", "description": "Company id", "name": "companyId", "in": "path", "required": true},
                    {"description": "Employee", "name": "employee", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.EmployeeForCreationDto"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.EmployeeDto"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}}
                }
            }
        },
        "/api/companies/{companyId}/employees/{id}": {
            "patch": {
                "consumes": ["application/json"],
                "tags": ["Employees"],
                "summary": "Patch an employee",
                "parameters": [
                    {"type": "string", "description": "Company id", "name": "companyId", "in": "path", "required": true},
                    {"type": "string", "description": "Employee id", "name": "id", "in": "path", "required": true},
                    {"description": "JSON patch document", "name": "patch", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/patch.Operation"}}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handlers.ErrorDetails"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorDetails": {
            "type": "object",
            "properties": {
                "errors": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
                "message": {"type": "string"},
                "statusCode": {"type": "integer"}
            }
        },
        "links.Link": {
            "type": "object",
            "properties": {
                "href": {"type": "string"},
                "method": {"type": "string"},
                "rel": {"type": "string"}
            }
        },
        "models.CompanyDto": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "country": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "models.CompanyForCreationDto": {
            "type": "object",
            "required": ["address", "country", "name"],
            "properties": {
                "address": {"type": "string", "maxLength": 60},
                "country": {"type": "string", "maxLength": 3},
                "employees": {"type": "array", "items": {"$ref": "#/definitions/models.EmployeeForCreationDto"}},
                "name": {"type": "string", "maxLength": 100}
            }
        },
        "models.EmployeeDto": {
            "type": "object",
            "properties": {
                "age": {"type": "integer"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "position": {"type": "string"}
            }
        },
        "models.EmployeeForCreationDto": {
            "type": "object",
            "required": ["age", "name", "position"],
            "properties": {
                "age": {"type": "integer", "minimum": 18},
                "name": {"type": "string", "maxLength": 30},
                "position": {"type": "string", "maxLength": 20}
            }
        },
        "models.TokenDto": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"}
            }
        },
        "models.UserForAuthenticationDto": {
            "type": "object",
            "required": ["password", "userName"],
            "properties": {
                "password": {"type": "string"},
                "userName": {"type": "string"}
            }
        },
        "models.UserForRegistrationDto": {
            "type": "object",
            "required": ["email", "password", "userName"],
            "properties": {
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "password": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "userName": {"type": "string"}
            }
        },
        "patch.Operation": {
            "type": "object",
            "properties": {
                "from": {"type": "string"},
                "op": {"type": "string"},
                "path": {"type": "string"},
                "value": {}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT.",
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
	Title:            "CompanyEmployees API",
	Description:      "Companies and their employees, with paging, shaping, HATEOAS links and JWT authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
