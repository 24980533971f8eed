package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/01moynul/mayaj-store/internal/models"
)

const maxImageBytes = 5 << 20

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// AdminUploadProductImage handles POST /admin/products/:id/images
// It saves the file under UploadDir and attaches it to the product.
func (h *Handlers) AdminUploadProductImage(c *gin.Context) {
	// 1. Resolve the product
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	ctx := c.Request.Context()
	if _, err := h.Catalog.ProductByID(ctx, id); err != nil {
		h.adminError(c, "Failed to load product", err)
		return
	}

	// 2. Get the file from the request
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type"})
		return
	}
	if file.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image is larger than 5 MB"})
		return
	}

	// 3. Create the products directory if it doesn't exist
	dir := filepath.Join(h.UploadDir, "products")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		h.serverError(c, "Failed to prepare upload directory", err)
		return
	}

	// 4. Save under a safe unique filename (uuid + extension)
	name := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		h.serverError(c, "Failed to save file", err)
		return
	}

	// 5. Attach to the product
	sortOrder, _ := strconv.Atoi(c.PostForm("sort_order"))
	img := &models.ProductImage{
		ProductID: id,
		Image:     "/uploads/products/" + name,
		AltText:   strings.TrimSpace(c.PostForm("alt_text")),
		IsPrimary: checked(c.PostForm("is_primary")),
		SortOrder: sortOrder,
	}
	if err := h.Catalog.AddProductImage(ctx, img); err != nil {
		_ = os.Remove(filepath.Join(dir, name))
		h.adminError(c, "Failed to attach image", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"image": img})
}
