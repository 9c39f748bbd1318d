package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/powersave-cy/powersave-backend/internal/services"
)

// GardenHandler handles green-garden HTTP requests
type GardenHandler struct {
	gardenService services.GardenService
}

// NewGardenHandler creates a new GardenHandler
func NewGardenHandler(gardenService services.GardenService) *GardenHandler {
	return &GardenHandler{gardenService: gardenService}
}

// GetGarden handles GET /garden/:userId
func (h *GardenHandler) GetGarden(c *gin.Context) {
	userID, ok := targetUserID(c, c.Param("userId"))
	if !ok {
		return
	}

	garden, err := h.gardenService.GetGarden(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, garden)
}

// plantRequest is the payload for POST /garden/:userId/plant
type plantRequest struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	PlantID string `json:"plant_id" binding:"required"`
}

// Plant handles POST /garden/:userId/plant
func (h *GardenHandler) Plant(c *gin.Context) {
	userID, ok := targetUserID(c, c.Param("userId"))
	if !ok {
		return
	}

	var req plantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	garden, err := h.gardenService.Plant(c.Request.Context(), userID, req.Row, req.Col, req.PlantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, garden)
}

// waterRequest is the payload for POST /garden/:userId/water
type waterRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Water handles POST /garden/:userId/water
func (h *GardenHandler) Water(c *gin.Context) {
	userID, ok := targetUserID(c, c.Param("userId"))
	if !ok {
		return
	}

	var req waterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.gardenService.Water(c.Request.Context(), userID, req.Row, req.Col)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Catalog handles GET /garden/plants
func (h *GardenHandler) Catalog(c *gin.Context) {
	catalog, err := h.gardenService.Catalog(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plants": catalog})
}
