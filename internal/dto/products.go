package dto

import (
	"time"

	"pasar/internal/models"
	"pasar/internal/services"
)

type ProductImageResponse struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

type ProductResponse struct {
	ID           uint                   `json:"id"`
	Name         string                 `json:"name"`
	Description  *string                `json:"description"`
	Price        float64                `json:"price"`
	Images       []ProductImageResponse `json:"images"`
	CreatedAtUTC time.Time              `json:"created_at_utc"`
	OwnerID      uint                   `json:"owner_id"`
}

type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

func NewProductResponse(p *models.Product) ProductResponse {
	images := make([]ProductImageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ProductImageResponse{URL: img.URL, IsPrimary: img.IsPrimary})
	}
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.InexactFloat64(),
		Images:       images,
		CreatedAtUTC: p.CreatedAt.UTC(),
		OwnerID:      p.OwnerID,
	}
}

func NewProductListResponse(page *services.Page[models.Product]) ProductListResponse {
	products := make([]ProductResponse, 0, len(page.Items))
	for i := range page.Items {
		products = append(products, NewProductResponse(&page.Items[i]))
	}
	return ProductListResponse{
		Products:   products,
		Total:      page.Total,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	}
}
