package main

import (
	"net/http"

	"mailbox-directory-api/internal/config"
	"mailbox-directory-api/internal/handler"
	"mailbox-directory-api/internal/mapimage"
	"mailbox-directory-api/internal/pdf"
	"mailbox-directory-api/internal/repository"
	"mailbox-directory-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	gin.SetMode(config.GinMode)

	// Initialize layers
	repo := repository.NewCorpusRepository(repository.DefaultRegistry(config.DataDir), log.Logger)

	remote := mapimage.NewRemoteStrategy(config.MapProviderURL, config.EnrichTimeout())
	local := mapimage.NewLocalStrategy(config.GeoJSONDir)
	enricher := mapimage.NewEnricher(remote, local, config.EnrichBatchSize, config.EnrichBatchPause(), log.Logger)

	renderer, err := pdf.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse pdf template")
	}
	printer := pdf.NewPrinter(config.PrintTimeout(), config.ChromeBin, log.Logger)

	exportService := service.NewExportService(repo, enricher, renderer, printer,
		config.ExportTimeout(), config.ExportAllTimeout(), log.Logger)
	csvService := service.NewCSVService(repo)
	posterService := service.NewPosterService(repo, mapimage.NewPosterRenderer(config.GeoJSONDir),
		renderer, printer, config.ExportTimeout(), log.Logger)

	exportHandler := handler.NewExportHandler(exportService)
	csvHandler := handler.NewCSVHandler(csvService)
	validateHandler := handler.NewValidateHandler(repo)
	posterHandler := handler.NewPosterHandler(posterService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	api.POST("/export-pdf", exportHandler.ExportPDF)
	api.POST("/export-all-pdf", exportHandler.ExportAllPDF)
	api.POST("/generate-us-map-pdf", posterHandler.USMapPDF)
	api.POST("/generate-world-map-pdf", posterHandler.WorldMapPDF)
	api.GET("/export-csv", csvHandler.ExportCSV)
	api.GET("/validate", validateHandler.Validate)

	// The map UI is served from a different origin.
	srv := cors.Default().Handler(r)

	log.Info().Str("address", config.ServerAddress).Msg("starting server")
	if err := http.ListenAndServe(config.ServerAddress, srv); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
