package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/gophattach/internal/app"
	"github.com/dmitrijs2005/gophattach/internal/config"
	"github.com/dmitrijs2005/gophattach/internal/flagx"
)

// Usage:
//
//	console [flags]                    serve the evidence gallery
//	console [flags] token [reporter]   print an access token for reporter,
//	                                   a random one when omitted
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if args := flagx.Positionals(os.Args[1:], config.ValueFlags()); len(args) > 0 {
		if args[0] != "token" || len(args) > 2 {
			log.Fatalf("unknown command %q", args)
		}
		var reporterID string
		if len(args) == 2 {
			reporterID = args[1]
		}
		token, id, err := app.IssueToken(cfg, reporterID)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if reporterID == "" {
			fmt.Fprintf(os.Stderr, "reporter: %s\n", id)
		}
		fmt.Println(token)
		return
	}

	ctx := context.Background()
	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
