package main

import (
	"github.com/somang-dev/church_service/config"
	"github.com/somang-dev/church_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
