// billing-api/internal/routes/router.go
package routes

import "github.com/gin-gonic/gin"

// SetupRoutes wires all routes of the application.
func SetupRoutes(r *gin.Engine) {
	// Static front end.
	r.StaticFile("/", "./public/index.html")
	r.StaticFile("/index.js", "./public/index.js")

	RegisterAPIRoutes(r)
}
