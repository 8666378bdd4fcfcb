package main

import (
	"os"

	"reelsearch/backend/internal/app"
)

// @title           Movie Search API
// @version         1.0
// @description     Movie-recommendation search backend with plain and conversational similarity search.
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
