package adminController

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/media"
)

// UploadImage stores a product image and returns its URL for use in a
// product's image field.
func UploadImage(uploader media.Uploader, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		file, fileHeader, err := c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
			return
		}
		defer file.Close()

		imageURL, err := uploader.Upload(c.Request.Context(), fileHeader.Filename, file)
		if err != nil {
			log.Printf("❌ upload %s: %v", fileHeader.Filename, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to save file"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Image uploaded", "url": imageURL})
	}
}
