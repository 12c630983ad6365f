package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>visualmate-admin - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document covering the console's endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "visualmate-admin", "version": "v1.0.0" },
  "paths": {
    "/auth/login": {
      "post": {
        "summary": "Sign in with email and password",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}},"required":["email","password"]}}}},
        "responses": { "200": { "description": "tokens and profile returned" }, "401": { "description": "invalid credentials" }, "403": { "description": "profile missing, wrong role, or deactivated" }, "429": { "description": "too many attempts" } }
      }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/auth/password": {
      "post": { "summary": "Change password (reauthenticated)", "responses": { "200": { "description": "password updated" }, "400": { "description": "wrong current password or weak password" } } }
    },
    "/auth/reset": {
      "post": { "summary": "Request a password reset token", "responses": { "200": { "description": "accepted" } } }
    },
    "/auth/reset/confirm": {
      "post": { "summary": "Confirm a password reset", "responses": { "200": { "description": "password updated" }, "400": { "description": "invalid token or weak password" } } }
    },
    "/api/v1/me": {
      "get": { "summary": "Resolved auth state of the caller", "responses": { "200": { "description": "uid, role and profile" } } }
    },
    "/api/v1/users": {
      "get": { "summary": "Paged user table with search and role filter", "responses": { "200": { "description": "one page of users" } } },
      "post": { "summary": "Provision an admin account (superadmin only)", "responses": { "201": { "description": "created" }, "403": { "description": "superadmin role required" } } }
    },
    "/api/v1/users/{uid}": {
      "get": { "summary": "Fetch one profile", "responses": { "200": { "description": "profile" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Field-level edit of the caller's own profile", "responses": { "200": { "description": "updated" }, "403": { "description": "not the caller's profile" } } }
    },
    "/api/v1/users/{uid}/active": {
      "patch": { "summary": "Activate or deactivate an account", "responses": { "200": { "description": "new state" }, "403": { "description": "not permitted" }, "409": { "description": "confirmation required" } } }
    },
    "/api/v1/users/{uid}/logs": {
      "get": { "summary": "Paged conversation logs for a managed user", "responses": { "200": { "description": "one page of logs" }, "403": { "description": "caller may not manage the user" }, "404": { "description": "not found" } } }
    },
    "/api/v1/dashboard/analytics": {
      "get": { "summary": "User-base counters for the dashboard", "responses": { "200": { "description": "analytics" } } }
    },
    "/api/v1/feedback": {
      "get": { "summary": "Paged end-user feedback", "responses": { "200": { "description": "one page of feedback" } } }
    },
    "/api/v1/faqs": {
      "get": { "summary": "Paged FAQ entries", "responses": { "200": { "description": "one page of FAQs" } } },
      "post": { "summary": "Create an FAQ entry", "responses": { "201": { "description": "created" } } }
    },
    "/api/v1/accounts/{uid}": {
      "delete": { "summary": "Delete credential and profile", "responses": { "200": { "description": "deleted" }, "403": { "description": "not permitted" } } }
    },
    "/api/v1/watch/{collection}": {
      "get": { "summary": "WebSocket stream of collection snapshots", "responses": { "101": { "description": "switching protocols" } } }
    }
  }
}`
