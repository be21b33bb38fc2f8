package storage

import (
	"log"
	"time"

	"github.com/wb-go/wbf/config"

	"github.com/pixelforge/stampd/internal/storage/miniostorage"
)

func NewFileStorage(cfg *config.Config, delay time.Duration) *miniostorage.MinioFileStorage {
	success := false
	var client *miniostorage.MinioFileStorage
	var err error

	for !success {
		log.Println("Connecting to file-storage...")
		client, err = miniostorage.NewMinioClient(cfg)
		if err != nil {
			log.Printf("Failed to init connection to file-storage: %v\nNext retry in %v...", err, delay)
			time.Sleep(delay)
			continue
		}
		log.Println("Successfully connected file-storage!")
		success = true
	}

	return client
}
