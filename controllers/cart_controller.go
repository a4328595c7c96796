package controllers

import (
	"strconv"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/utils"
	"github.com/gin-gonic/gin"
)

// AddToCart adds a product (or variant) line to the user's cart. The unit
// price is snapshotted here so later catalog edits never reprice the line.
func AddToCart(c *gin.Context) {
	utils.LogInfo("AddToCart called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		ProductID uint  `json:"product_id" binding:"required"`
		VariantID *uint `json:"variant_id"`
		Quantity  int   `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Quantity < 1 {
		utils.BadRequest(c, "Quantity must be at least 1", nil)
		return
	}

	var product models.Product
	if err := config.DB.First(&product, req.ProductID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}
	if !product.IsActive {
		utils.BadRequest(c, "Product is not available", nil)
		return
	}

	price := product.Price
	if req.VariantID != nil {
		var variant models.ProductVariant
		if err := config.DB.Where("id = ? AND product_id = ?", *req.VariantID, product.ID).First(&variant).Error; err != nil {
			utils.NotFound(c, "Variant not found")
			return
		}
		if !variant.IsActive {
			utils.BadRequest(c, "Variant is not available", nil)
			return
		}
		price = variant.Price
	}

	// Merge with an existing line for the same product+variant.
	var item models.CartItem
	query := config.DB.Where("user_id = ? AND product_id = ?", user.ID, req.ProductID)
	if req.VariantID != nil {
		query = query.Where("variant_id = ?", *req.VariantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}
	if err := query.First(&item).Error; err == nil {
		item.Quantity += req.Quantity
		if err := config.DB.Save(&item).Error; err != nil {
			utils.LogError("Failed to update cart line for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
		utils.Success(c, "Cart updated", gin.H{"item": item})
		return
	}

	item = models.CartItem{
		UserID:    user.ID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Price:     price,
		Quantity:  req.Quantity,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		utils.LogError("Failed to add cart line for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to add to cart", nil)
		return
	}
	utils.LogInfo("Added product %d to cart for user ID: %d", req.ProductID, user.ID)
	utils.Created(c, "Added to cart", gin.H{"item": item})
}

// UpdateCartItem changes the quantity of a cart line
func UpdateCartItem(c *gin.Context) {
	utils.LogInfo("UpdateCartItem called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid cart item ID", nil)
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
		utils.BadRequest(c, "Quantity must be at least 1", nil)
		return
	}

	var item models.CartItem
	if err := config.DB.Where("id = ? AND user_id = ?", itemID, user.ID).First(&item).Error; err != nil {
		utils.NotFound(c, "Cart item not found")
		return
	}

	item.Quantity = req.Quantity
	if err := config.DB.Save(&item).Error; err != nil {
		utils.LogError("Failed to update cart item %d: %v", itemID, err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}
	utils.Success(c, "Cart updated", gin.H{"item": item})
}

// RemoveCartItem deletes a single cart line
func RemoveCartItem(c *gin.Context) {
	utils.LogInfo("RemoveCartItem called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid cart item ID", nil)
		return
	}

	result := config.DB.Where("id = ? AND user_id = ?", itemID, user.ID).Delete(&models.CartItem{})
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to remove cart item", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Cart item not found")
		return
	}
	utils.Success(c, "Item removed from cart", nil)
}

// GetCart returns the user's cart lines with the running subtotal
func GetCart(c *gin.Context) {
	utils.LogInfo("GetCart called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	items, subtotal, err := loadCart(user.ID)
	if err != nil {
		utils.LogError("Failed to fetch cart for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch cart", nil)
		return
	}

	utils.Success(c, "Cart retrieved successfully", gin.H{
		"items":    items,
		"subtotal": utils.RoundMoney(subtotal),
	})
}

// loadCart fetches the user's cart lines and their subtotal at the
// snapshotted prices.
func loadCart(userID uint) ([]models.CartItem, float64, error) {
	var items []models.CartItem
	if err := config.DB.Preload("Product").Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	var subtotal float64
	for i := range items {
		subtotal += items[i].Subtotal()
	}
	return items, subtotal, nil
}
