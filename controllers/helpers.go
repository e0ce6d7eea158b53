package controllers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pagination reads the page/perPage query params, defaulting to 1/10.
func pagination(c *gin.Context) (page, perPage, skip int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err = strconv.Atoi(c.DefaultQuery("perPage", "10"))
	if err != nil || perPage <= 0 {
		perPage = 10
	}
	return page, perPage, (page - 1) * perPage
}

func paginationMeta(page, perPage int, total int64) gin.H {
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return gin.H{
		"page":       page,
		"perPage":    perPage,
		"total":      total,
		"totalPages": totalPages,
	}
}

// objectIDParam parses the :id path param, replying 400 on a bad hex string.
func objectIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}
