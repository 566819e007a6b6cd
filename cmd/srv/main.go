package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var server srv

func main() {
	app := &cli.App{
		Name:  "srv",
		Usage: "collectible card economy service",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the service",
				Action: func(cCtx *cli.Context) error {
					return server.run()
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate the database schema",
				Action: func(cCtx *cli.Context) error {
					return server.migrate()
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
