package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"textmorph/core"
)

func (b *Bridge) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}

	r.GET("/", b.page)
	r.GET("/ws", b.serveWS)
	r.GET("/state", b.state)
	r.POST("/scroll", b.scroll)
	return r
}

func (b *Bridge) page(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(scrollPage))
}

func (b *Bridge) state(c *gin.Context) {
	c.JSON(http.StatusOK, b.State())
}

// scroll accepts one set of metrics, for clients without websockets
func (b *Bridge) scroll(c *gin.Context) {
	var m core.ScrollMetrics
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mix, err := b.Publish(m)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mix": mixValue(mix)})
}
