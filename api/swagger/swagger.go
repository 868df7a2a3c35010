package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Gateway API",
        "description": "Backend-for-frontend gateway for the timetable dashboard: asynchronous generation orchestration and derived schedule views",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Generation", "description": "Asynchronous timetable generation jobs"},
        {"name": "Views", "description": "Derived analytical views over the raw timetable"}
    ],
    "paths": {
        "/timetable/generate": {
            "post": {
                "tags": ["Generation"],
                "summary": "Submit an asynchronous timetable generation job",
                "responses": {
                    "202": {"description": "Task accepted"},
                    "400": {"description": "Invalid payload"},
                    "502": {"description": "Submission rejected by the scheduling service"}
                }
            }
        },
        "/timetable/generate/tasks/{id}": {
            "get": {
                "tags": ["Generation"],
                "summary": "Report the current state of a generation task",
                "responses": {
                    "200": {"description": "Task snapshot"},
                    "404": {"description": "Unknown task handle"}
                }
            },
            "delete": {
                "tags": ["Generation"],
                "summary": "Abandon a generation task handle",
                "responses": {
                    "204": {"description": "Polling stopped"},
                    "404": {"description": "Unknown task handle"}
                }
            }
        },
        "/timetable/{date}": {
            "get": {
                "tags": ["Views"],
                "summary": "Fetch the timetable anchored at a date, with week-date labels and active slots",
                "responses": {
                    "200": {"description": "Timetable payload"}
                }
            }
        },
        "/views/teacher-workload": {
            "get": {
                "tags": ["Views"],
                "summary": "Per-teacher load joined with the availability roster",
                "responses": {
                    "200": {"description": "Workload view"}
                }
            }
        },
        "/views/room-utilization": {
            "get": {
                "tags": ["Views"],
                "summary": "Per-room occupancy for every known classroom",
                "responses": {
                    "200": {"description": "Utilization view"}
                }
            }
        },
        "/views/room-conflicts": {
            "get": {
                "tags": ["Views"],
                "summary": "Rooms assigned to multiple sections at the same slot",
                "responses": {
                    "200": {"description": "Conflict view"}
                }
            }
        }
    },
    "definitions": {
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
