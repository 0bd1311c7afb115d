package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Cavy Ledger",
        "description": "Breeding, sales and expense records for a guinea-pig farm, with dashboard analytics",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Dashboard", "description": "Aggregated per-pen metrics"},
        {"name": "Records", "description": "Stock, births, weanings, deaths, sales and expenses"},
        {"name": "Reports", "description": "Listings, monthly aggregates, projections and balance"},
        {"name": "Maintenance", "description": "Export, wipe and health"},
        {"name": "Notifications", "description": "Weaning, cull and mortality alerts"}
    ],
    "paths": {
        "/": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard metrics grouped by enclosure",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/stock/new": {
            "post": {
                "tags": ["Records"],
                "summary": "Register breeding stock",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StockForm"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "303": {"description": "Saved, redirect to dashboard"},
                    "200": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/births": {
            "post": {
                "tags": ["Records"],
                "summary": "Record a litter",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BirthForm"}}],
                "responses": {"201": {"description": "Created"}, "303": {"description": "Saved"}}
            }
        },
        "/births/search": {
            "get": {
                "tags": ["Records"],
                "summary": "Search births by location",
                "parameters": [
                    {"name": "enclosure", "in": "query", "type": "string"},
                    {"name": "pen", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/weaning": {
            "post": {
                "tags": ["Records"],
                "summary": "Record a weaning",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WeaningForm"}}],
                "responses": {"201": {"description": "Created"}, "303": {"description": "Saved"}}
            }
        },
        "/deaths": {
            "post": {
                "tags": ["Records"],
                "summary": "Record weaned deaths",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeathForm"}}],
                "responses": {"201": {"description": "Created"}, "303": {"description": "Saved"}}
            }
        },
        "/sales": {
            "post": {
                "tags": ["Records"],
                "summary": "Record a weaned or cull sale",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaleForm"}}],
                "responses": {"201": {"description": "Created"}, "303": {"description": "Saved"}}
            }
        },
        "/expenses": {
            "post": {
                "tags": ["Records"],
                "summary": "Record an expense",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExpenseForm"}}],
                "responses": {"201": {"description": "Created"}, "303": {"description": "Saved"}}
            }
        },
        "/report": {
            "get": {
                "tags": ["Reports"],
                "summary": "Full listing with monthly aggregates",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/report.csv": {
            "get": {
                "tags": ["Reports"],
                "summary": "Monthly aggregates as CSV",
                "produces": ["text/csv"],
                "responses": {"200": {"description": "CSV file"}}
            }
        },
        "/projections": {
            "get": {
                "tags": ["Reports"],
                "summary": "Linear trend projections",
                "parameters": [{"name": "months", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/balance": {
            "get": {
                "tags": ["Reports"],
                "summary": "Income, expenses and net balance",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/balance.pdf": {
            "get": {
                "tags": ["Reports"],
                "summary": "Balance sheet as PDF",
                "produces": ["application/pdf"],
                "responses": {"200": {"description": "PDF file"}}
            }
        },
        "/export.xlsx": {
            "get": {
                "tags": ["Maintenance"],
                "summary": "Workbook with one sheet per record table",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "responses": {"200": {"description": "Workbook"}}
            }
        },
        "/delete-all": {
            "post": {
                "tags": ["Maintenance"],
                "summary": "Delete every record",
                "parameters": [{"name": "passphrase", "in": "formData", "type": "string", "required": true}],
                "responses": {"303": {"description": "Deleted"}, "403": {"description": "Wrong passphrase"}}
            }
        },
        "/health": {
            "get": {
                "tags": ["Maintenance"],
                "summary": "Application and database health",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "OK"}, "500": {"description": "Database unreachable"}}
            }
        },
        "/api/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List notifications",
                "parameters": [{"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/notifications/{id}/read": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Mark a notification read",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"204": {"description": "Marked"}, "404": {"description": "Not found"}}
            }
        },
        "/api/notifications/read-all": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Mark every notification read",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/notifications/generate": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Run alert rules now",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "StockForm": {
            "type": "object",
            "required": ["enclosure", "pen", "females", "males", "stockAgeMonths"],
            "properties": {
                "enclosure": {"type": "string"},
                "pen": {"type": "string"},
                "females": {"type": "integer"},
                "males": {"type": "integer"},
                "stockAgeMonths": {"type": "integer"},
                "intakeDate": {"type": "string", "format": "date"}
            }
        },
        "BirthForm": {
            "type": "object",
            "required": ["enclosure", "pen", "litterNumber", "bornCount", "bornDeadCount", "parentDeathCount"],
            "properties": {
                "enclosure": {"type": "string"},
                "pen": {"type": "string"},
                "litterNumber": {"type": "integer"},
                "bornCount": {"type": "integer"},
                "bornDeadCount": {"type": "integer"},
                "parentDeathCount": {"type": "integer"},
                "birthDate": {"type": "string", "format": "date"}
            }
        },
        "WeaningForm": {
            "type": "object",
            "required": ["enclosure", "pen", "weanedFemales", "weanedMales"],
            "properties": {
                "enclosure": {"type": "string"},
                "pen": {"type": "string"},
                "weanedFemales": {"type": "integer"},
                "weanedMales": {"type": "integer"},
                "weanDate": {"type": "string", "format": "date"}
            }
        },
        "DeathForm": {
            "type": "object",
            "required": ["enclosure", "pen", "deadFemales", "deadMales"],
            "properties": {
                "enclosure": {"type": "string"},
                "pen": {"type": "string"},
                "deadFemales": {"type": "integer"},
                "deadMales": {"type": "integer"},
                "deathDate": {"type": "string", "format": "date"}
            }
        },
        "SaleForm": {
            "type": "object",
            "required": ["saleType", "amount"],
            "properties": {
                "saleType": {"type": "string", "enum": ["weaned", "cull"]},
                "enclosure": {"type": "string"},
                "pen": {"type": "string"},
                "femalesSold": {"type": "integer"},
                "malesSold": {"type": "integer"},
                "animalsSold": {"type": "integer"},
                "amount": {"type": "string"},
                "saleDate": {"type": "string", "format": "date"},
                "relocateToFattening": {"type": "boolean"},
                "fatteningEnclosure": {"type": "string"},
                "fatteningPen": {"type": "string"},
                "relocationDate": {"type": "string", "format": "date"}
            }
        },
        "ExpenseForm": {
            "type": "object",
            "required": ["description", "amount", "category"],
            "properties": {
                "description": {"type": "string"},
                "amount": {"type": "string"},
                "category": {"type": "string"},
                "expenseDate": {"type": "string", "format": "date"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "fields": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
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
