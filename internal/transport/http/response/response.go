package response

import "github.com/gin-gonic/gin"

// Message replies with the flat {"message": ...} body the chat frontend
// expects.
func Message(c *gin.Context, msg string) {
	c.JSON(200, gin.H{"message": msg})
}

// Error replies with a single error body carrying the failure detail.
func Error(c *gin.Context, httpStatus int, detail string) {
	c.JSON(httpStatus, gin.H{"detail": detail})
}
