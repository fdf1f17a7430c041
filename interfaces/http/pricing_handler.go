package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-hub/domain/dto"
	"creator-hub/infrastructure/logger"
	"creator-hub/usecase"
)

type IPricingHandler interface {
	Quote(c *gin.Context)
}

type PricingHandler struct{}

func NewPricingHandler() IPricingHandler {
	return &PricingHandler{}
}

// Quote prices a plan/platform/add-on selection.
func (h *PricingHandler) Quote(c *gin.Context) {
	var sel dto.PricingSelection
	if err := c.ShouldBindJSON(&sel); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	quote, err := usecase.Quote(sel)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: quote})
}
