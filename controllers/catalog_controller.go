package controller

import (
	"github.com/gofiber/fiber/v2"

	"matchmate/catalog"
	"matchmate/utils"
)

type CatalogController struct {
	Catalog *catalog.Catalog
}

func NewCatalogController(cat *catalog.Catalog) *CatalogController {
	return &CatalogController{Catalog: cat}
}

func (cc *CatalogController) GetCities(c *fiber.Ctx) error {
	return c.JSON(utils.SuccessResponse(cc.Catalog.Cities))
}

func (cc *CatalogController) GetPositions(c *fiber.Ctx) error {
	return c.JSON(utils.SuccessResponse(cc.Catalog.Positions))
}
