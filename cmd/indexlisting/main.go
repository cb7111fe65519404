package main

import (
	"os"

	"github.com/gin-gonic/gin"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
