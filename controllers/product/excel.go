package productcontroller

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/tealeg/xlsx"
)

// ImportProductsFromExcel upserts products from the first sheet of an
// uploaded workbook laid out like the export. Rows with a known ID update
// that product, other rows create one, and invalid rows are skipped.
func ImportProductsFromExcel(products store.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		ctx := c.Request.Context()
		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			id, input, ok := parseProductRow(sheet.Rows[i])
			if !ok {
				skippedCount++
				continue
			}

			if id != "" {
				_, err := products.UpdateProduct(ctx, id, input)
				if err == nil {
					updatedCount++
					continue
				}
				if !errors.Is(err, store.ErrNotFound) {
					log.Printf("❌ import row %d: %v", i+1, err)
					skippedCount++
					continue
				}
			}

			// Insert new product
			var product models.Product
			input.Apply(&product)
			if err := products.CreateProduct(ctx, &product); err == nil {
				createdCount++
			} else {
				log.Printf("❌ import row %d: %v", i+1, err)
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}

func parseProductRow(row *xlsx.Row) (string, models.ProductInput, bool) {
	if row == nil || len(row.Cells) < 6 {
		return "", models.ProductInput{}, false
	}
	get := func(index int) string {
		if index < len(row.Cells) {
			return strings.TrimSpace(row.Cells[index].String())
		}
		return ""
	}

	price, err := strconv.ParseFloat(get(2), 64)
	if err != nil {
		return "", models.ProductInput{}, false
	}
	input := models.ProductInput{
		Title:       get(1),
		Price:       price,
		Description: get(3),
		Category:    get(4),
		Image:       get(5),
	}
	if input.Validate() != nil {
		return "", models.ProductInput{}, false
	}
	return get(0), input, true
}
