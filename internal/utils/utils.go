package utils

import (
	"errors"
	"strings"

	"secretpad/internal/config"

	"github.com/gin-gonic/gin"
)

func GetContext(c *gin.Context) (config.UserContext, error) {
	value, exists := c.Get("context")

	if !exists {
		return config.UserContext{}, errors.New("no user context in request")
	}

	context, ok := value.(*config.UserContext)

	if !ok {
		return config.UserContext{}, errors.New("invalid user context in request")
	}

	return *context, nil
}

func Capitalize(str string) string {
	if len(str) == 0 {
		return ""
	}
	return strings.ToUpper(str[:1]) + str[1:]
}
