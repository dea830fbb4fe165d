// Command server runs the page storage engine as a long-lived process.
package main

import (
	"context"
	"log"

	"github.com/inkleaf/inkleaf-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
