package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-mirror-raytracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory containing .pbrt scene files")
	workers := flag.Int("workers", 0, "Render workers per request (0 = physical cores)")
	flag.Parse()

	webServer := server.NewServer(server.Config{
		Port:       *port,
		ScenesDir:  *scenesDir,
		NumWorkers: *workers,
	})

	log.Printf("Mirror Raytracer Web Server")
	log.Printf("Try http://localhost:%d/api/render?scene=default", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
