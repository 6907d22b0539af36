package main

import (
	"context"
	"os"

	"github.com/ByLCY/labreport/logging"
)

func main() {
	logging.Init()
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		logging.Logger(logging.SourceApp).Fatal("labreport failed", "err", err)
	}
}
