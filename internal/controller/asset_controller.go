package controller

import (
	"net/http"

	"github.com/benbeisheim/branchchess-backend/internal/assets"
	"github.com/gofiber/fiber/v2"
)

type AssetController struct {
	store *assets.Store
}

func NewAssetController(store *assets.Store) *AssetController {
	return &AssetController{store: store}
}

// GetImage serves a piece image, or 404 when the store has none.
func (ac *AssetController) GetImage(c *fiber.Ctx) error {
	img := ac.store.Image(c.Params("name"))
	if img == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "image not found",
		})
	}
	c.Set(fiber.HeaderContentType, http.DetectContentType(img))
	return c.Send(img)
}
