package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/grocery_api/internal/catalog"
	"github.com/GTDGit/grocery_api/internal/models"
	"github.com/GTDGit/grocery_api/internal/service"
	"github.com/GTDGit/grocery_api/internal/utils"
)

// MaxSimilarCount bounds the count query parameter of the similar endpoint.
const MaxSimilarCount = 50

// ProductHandler handles product-related HTTP endpoints.
type ProductHandler struct {
	productService    *service.ProductService
	similarityService *service.SimilarityService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService, similarityService *service.SimilarityService) *ProductHandler {
	return &ProductHandler{productService: productService, similarityService: similarityService}
}

// productResponse adds display fields computed at response time.
type productResponse struct {
	models.Product
	DisplayName string `json:"displayName"`
	PriceString string `json:"priceString"`
}

func toResponse(p models.Product) productResponse {
	return productResponse{
		Product:     p,
		DisplayName: catalog.DisplayName(&p),
		PriceString: p.PriceString(),
	}
}

func toResponses(products []models.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toResponse(p))
	}
	return out
}

// GetProducts handles GET /v1/products?page=N. Without page (or page=all) the
// whole catalog is returned.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	page := catalog.AllPages
	if v := c.Query("page"); v != "" && v != "all" {
		n, err := strconv.Atoi(v)
		if err != nil || n < catalog.AllPages {
			utils.Error(c, http.StatusBadRequest, "INVALID_PAGE", "page must be a non-negative integer or \"all\"")
			return
		}
		page = n
	}

	res := h.productService.GetProducts(page)
	data := gin.H{"products": toResponses(res.Data)}
	if page == catalog.AllPages {
		utils.Success(c, http.StatusOK, "Products retrieved successfully", data)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", data, res.Page, res.PageSize, res.Total)
}

// SearchProducts handles GET /v1/products/search?q=.
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	products := h.productService.SearchProducts(c.Query("q"))
	utils.Success(c, http.StatusOK, "Products retrieved successfully", gin.H{
		"products": toResponses(products),
	})
}

// GetProduct handles GET /v1/products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, ok := h.productService.GetProductByID(c.Param("id"))
	if !ok {
		utils.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}
	utils.Success(c, http.StatusOK, "Product retrieved successfully", toResponse(p))
}

// GetSimilar handles GET /v1/products/:id/similar?count=N. Unknown ids yield
// an empty list, not a 404.
func (h *ProductHandler) GetSimilar(c *gin.Context) {
	count := service.DefaultSimilarCount
	if v := c.Query("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > MaxSimilarCount {
			utils.Error(c, http.StatusBadRequest, "INVALID_COUNT", "count must be an integer between 0 and 50")
			return
		}
		count = n
	}

	products := h.similarityService.FindSimilarProducts(c.Request.Context(), c.Param("id"), count)
	utils.Success(c, http.StatusOK, "Similar products retrieved successfully", gin.H{
		"products": toResponses(products),
	})
}
