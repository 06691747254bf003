package utils_test

import (
	"net/http/httptest"
	"testing"

	"secretpad/internal/config"
	"secretpad/internal/utils"

	"github.com/gin-gonic/gin"
	"gotest.tools/v3/assert"
)

func TestGetContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := utils.GetContext(c)
	assert.Error(t, err, "no user context in request")

	c.Set("context", "not a context")
	_, err = utils.GetContext(c)
	assert.Error(t, err, "invalid user context in request")

	c.Set("context", &config.UserContext{
		UserID:     "id-1",
		Username:   "alice@example.com",
		Provider:   "local",
		IsLoggedIn: true,
	})

	context, err := utils.GetContext(c)
	assert.NilError(t, err)
	assert.Equal(t, "alice@example.com", context.Username)
	assert.Assert(t, context.IsLoggedIn)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Alice", utils.Capitalize("alice"))
	assert.Equal(t, "A", utils.Capitalize("a"))
	assert.Equal(t, "", utils.Capitalize(""))
}
